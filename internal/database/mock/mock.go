// Package mock provides in-memory implementations of the repository
// interfaces for testing.
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shubhamdhabu/trace-rescue/internal/cases"
	"github.com/shubhamdhabu/trace-rescue/internal/users"
)

// CaseRepository is an in-memory implementation of cases.Repository.
type CaseRepository struct {
	mu    sync.RWMutex
	cases map[string]cases.Case

	// Error injection
	InsertError error
	ListError   error
	GetError    error
	UpdateError error
}

// NewCaseRepository creates an empty in-memory case repository.
func NewCaseRepository() *CaseRepository {
	return &CaseRepository{
		cases: make(map[string]cases.Case),
	}
}

// AddCase seeds a case directly, bypassing validation.
func (r *CaseRepository) AddCase(c cases.Case) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	r.cases[c.ID] = c
}

// Len returns the number of stored cases.
func (r *CaseRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cases)
}

// Insert stores a new case, assigning its id.
func (r *CaseRepository) Insert(ctx context.Context, c *cases.Case) (*cases.Case, error) {
	if r.InsertError != nil {
		return nil, r.InsertError
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *c
	stored.ID = uuid.New().String()
	r.cases[stored.ID] = stored
	return &stored, nil
}

// ListVisible returns cases visible to the principal, most recent first.
func (r *CaseRepository) ListVisible(ctx context.Context, principalID string, limit int) ([]cases.Case, error) {
	if r.ListError != nil {
		return nil, r.ListError
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []cases.Case
	for _, c := range r.cases {
		if c.OwnerID == principalID || c.IsPublic {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Get returns a case by id, or nil when absent.
func (r *CaseRepository) Get(ctx context.Context, id string) (*cases.Case, error) {
	if r.GetError != nil {
		return nil, r.GetError
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cases[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// Update persists the full record.
func (r *CaseRepository) Update(ctx context.Context, c *cases.Case) (*cases.Case, error) {
	if r.UpdateError != nil {
		return nil, r.UpdateError
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cases[c.ID]; !ok {
		return nil, fmt.Errorf("case %s does not exist", c.ID)
	}
	r.cases[c.ID] = *c
	stored := *c
	return &stored, nil
}

// UserRepository is an in-memory implementation of users.Repository.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[string]users.User
	hashes map[string][]byte // keyed by user id

	// Error injection
	InsertError error
	GetError    error
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[string]users.User),
		hashes: make(map[string][]byte),
	}
}

// Insert stores a new user, assigning its id.
func (r *UserRepository) Insert(ctx context.Context, u *users.User, passwordHash []byte) (*users.User, error) {
	if r.InsertError != nil {
		return nil, r.InsertError
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, fmt.Errorf("email %s: %w", u.Email, users.ErrDuplicate)
		}
		if existing.Username == u.Username {
			return nil, fmt.Errorf("username %s: %w", u.Username, users.ErrDuplicate)
		}
	}

	stored := *u
	stored.ID = uuid.New().String()
	r.users[stored.ID] = stored
	r.hashes[stored.ID] = passwordHash
	return &stored, nil
}

// GetByEmail returns a user and their password hash, or nil when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*users.User, []byte, error) {
	if r.GetError != nil {
		return nil, nil, r.GetError
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, r.hashes[u.ID], nil
		}
	}
	return nil, nil, nil
}

// Get returns a user by id, or nil when absent.
func (r *UserRepository) Get(ctx context.Context, id string) (*users.User, error) {
	if r.GetError != nil {
		return nil, r.GetError
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
