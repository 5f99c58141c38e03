package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shubhamdhabu/trace-rescue/internal/users"
)

// UserRepository implements users.Repository over PostgreSQL.
type UserRepository struct {
	pool *Pool
}

// NewUserRepository creates a user repository using the given pool.
func NewUserRepository(pool *Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Insert stores a new user, assigning its id.
func (r *UserRepository) Insert(ctx context.Context, u *users.User, passwordHash []byte) (*users.User, error) {
	stored := *u
	stored.ID = uuid.New().String()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, full_name, branch_department, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		stored.ID, stored.Username, stored.Email, passwordHash,
		stored.FullName, stored.BranchDepartment, stored.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, users.ErrDuplicate
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return &stored, nil
}

// GetByEmail returns a user and their password hash, or nil when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*users.User, []byte, error) {
	var u users.User
	var hash []byte

	err := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, full_name, branch_department, created_at
		FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Username, &u.Email, &hash, &u.FullName, &u.BranchDepartment, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading user by email: %w", err)
	}
	return &u, hash, nil
}

// Get returns a user by id, or nil when absent.
func (r *UserRepository) Get(ctx context.Context, id string) (*users.User, error) {
	var u users.User

	err := r.pool.QueryRow(ctx, `
		SELECT id, username, email, full_name, branch_department, created_at
		FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.BranchDepartment, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %s: %w", id, err)
	}
	return &u, nil
}
