package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shubhamdhabu/trace-rescue/internal/cases"
	"github.com/shubhamdhabu/trace-rescue/internal/users"
)

type contextKey string

const principalContextKey contextKey = "principal"

// RequireAuth is middleware that requires a valid bearer token and puts the
// authenticated principal into the request context.
func RequireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
				return
			}

			userID, username, err := users.ParseToken(token, secret)
			if err != nil {
				http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
				return
			}

			p := cases.Principal{ID: userID, Username: username}
			ctx := context.WithValue(r.Context(), principalContextKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// GetPrincipal retrieves the authenticated principal from the request context.
// The second return is false when the request never passed RequireAuth.
func GetPrincipal(ctx context.Context) (cases.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(cases.Principal)
	return p, ok
}

// SetPrincipalInContext adds a principal to the context.
// This is primarily for testing - use RequireAuth middleware in production.
func SetPrincipalInContext(ctx context.Context, p cases.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}
