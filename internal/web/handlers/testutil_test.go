package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shubhamdhabu/trace-rescue/internal/cases"
	"github.com/shubhamdhabu/trace-rescue/internal/config"
	"github.com/shubhamdhabu/trace-rescue/internal/database/mock"
	"github.com/shubhamdhabu/trace-rescue/internal/web/middleware"
)

var testPrincipal = cases.Principal{ID: "user-1", Username: "inspector"}

// testAuthConfig creates a minimal auth config for testing
func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret: "handler-test-secret",
		TokenTTL:  time.Hour,
	}
}

// requestWithPrincipal creates a request with an authenticated principal in context
func requestWithPrincipal(method, path string, body io.Reader, p cases.Principal) *http.Request {
	req := httptest.NewRequest(method, path, body)
	ctx := middleware.SetPrincipalInContext(req.Context(), p)
	return req.WithContext(ctx)
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// seededCaseStore creates a case store with a repository primed for tests
func seededCaseStore(seed ...cases.Case) (*cases.Store, *mock.CaseRepository) {
	repo := mock.NewCaseRepository()
	for _, c := range seed {
		repo.AddCase(c)
	}
	return cases.NewStore(repo), repo
}

// jsonBody marshals a value into a request body
func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshaling body: %v", err)
	}
	return bytes.NewReader(data)
}

// decodeJSON decodes a response body into the target
func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(target); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

// multipartBody builds a multipart form with a single file field
func multipartBody(t *testing.T, filename string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

// fakeBlobStore records Put calls in memory
type fakeBlobStore struct {
	putErr  error
	bucket  string
	key     string
	content []byte
}

func (f *fakeBlobStore) Put(ctx context.Context, bucket, key, contentType string, body io.Reader) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.bucket = bucket
	f.key = key
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.content = data
	return "http://blob.test/" + bucket + "/" + key, nil
}
