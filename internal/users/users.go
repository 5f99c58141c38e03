// Package users holds investigator accounts: the profile record, password
// hashing, and the signed tokens that carry a principal between requests.
package users

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrDuplicate is returned by Repository.Insert when the email or username
// is already taken.
var ErrDuplicate = errors.New("account already exists")

// User is one investigator account.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name,omitempty"`
	BranchDepartment string    `json:"branch_department,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Repository is the persistence contract for user accounts.
type Repository interface {
	// Insert stores a new user with the given password hash and returns the
	// stored record. Returns ErrDuplicate when the email or username is
	// already taken.
	Insert(ctx context.Context, u *User, passwordHash []byte) (*User, error)

	// GetByEmail returns a user and their password hash, or nil when absent.
	GetByEmail(ctx context.Context, email string) (*User, []byte, error)

	// Get returns a user by id, or nil when absent.
	Get(ctx context.Context, id string) (*User, error)
}

// HashPassword derives a bcrypt hash for storage.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
