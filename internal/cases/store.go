package cases

import (
	"context"
	"strings"
	"time"
)

// Store is the access-scoped case store. Every read and mutation goes through
// it so the visibility and ownership rules live in exactly one place.
type Store struct {
	repo Repository
	now  func() time.Time
}

// NewStore creates a store over the given repository.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo, now: time.Now}
}

// List returns all cases visible to the principal, most recent first.
// A limit of 0 means no limit.
func (s *Store) List(ctx context.Context, p Principal, limit int) ([]Case, error) {
	records, err := s.repo.ListVisible(ctx, p.ID, limit)
	if err != nil {
		return nil, &StorageError{Op: "list cases", Err: err}
	}

	// The repository query already filters, but never trust a single code
	// path with the visibility invariant.
	visible := records[:0]
	for _, c := range records {
		if c.VisibleTo(p) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Get returns a single case by id. A case that does not exist and a case the
// principal may not see produce the same NotFoundError.
func (s *Store) Get(ctx context.Context, p Principal, id string) (*Case, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, &StorageError{Op: "get case", Err: err}
	}
	if c == nil || !c.VisibleTo(p) {
		return nil, &NotFoundError{CaseID: id}
	}
	return c, nil
}

// Create validates the draft and stores a new active case owned by the
// principal. On a persistence failure no partial record remains.
func (s *Store) Create(ctx context.Context, p Principal, draft Draft) (*Case, error) {
	fullName := strings.TrimSpace(draft.FullName)
	if fullName == "" {
		return nil, &ValidationError{Field: "full_name", Reason: "must not be empty"}
	}
	if draft.Age != nil && (*draft.Age < 0 || *draft.Age > 150) {
		return nil, &ValidationError{Field: "age", Reason: "must be between 0 and 150"}
	}

	now := s.now().UTC()
	registered := now
	if draft.DateRegistered != nil {
		registered = draft.DateRegistered.UTC()
	}

	c := &Case{
		OwnerID:           p.ID,
		FullName:          fullName,
		Age:               draft.Age,
		Gender:            draft.Gender,
		Description:       draft.Description,
		PhotoURL:          draft.PhotoURL,
		DateRegistered:    registered,
		LastSeenLocation:  draft.LastSeenLocation,
		LastSeenDate:      draft.LastSeenDate,
		ContactInfo:       draft.ContactInfo,
		AdditionalDetails: draft.AdditionalDetails,
		BranchDepartment:  draft.BranchDepartment,
		Status:            StatusActive,
		IsPublic:          draft.IsPublic,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	stored, err := s.repo.Insert(ctx, c)
	if err != nil {
		return nil, &StorageError{Op: "create case", Err: err}
	}
	return stored, nil
}

// UpdateStatus moves a case to a new status. Owner-only; the move must be
// legal per the transition table.
func (s *Store) UpdateStatus(ctx context.Context, p Principal, id string, newStatus Status) (*Case, error) {
	if !newStatus.Valid() {
		return nil, &ValidationError{Field: "status", Reason: "unknown status " + string(newStatus)}
	}

	c, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != p.ID {
		return nil, &AuthorizationError{Op: "update status of case " + id}
	}
	if !CanTransition(c.Status, newStatus) {
		return nil, &InvalidTransitionError{From: c.Status, To: newStatus}
	}

	c.Status = newStatus
	c.UpdatedAt = s.now().UTC()

	stored, err := s.repo.Update(ctx, c)
	if err != nil {
		return nil, &StorageError{Op: "update case status", Err: err}
	}
	return stored, nil
}

// UpdateVisibility flips the public flag. Owner-only and idempotent.
func (s *Store) UpdateVisibility(ctx context.Context, p Principal, id string, isPublic bool) (*Case, error) {
	c, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != p.ID {
		return nil, &AuthorizationError{Op: "change visibility of case " + id}
	}

	c.IsPublic = isPublic
	c.UpdatedAt = s.now().UTC()

	stored, err := s.repo.Update(ctx, c)
	if err != nil {
		return nil, &StorageError{Op: "update case visibility", Err: err}
	}
	return stored, nil
}
