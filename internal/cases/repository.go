package cases

import "context"

// Repository is the persistence contract for case records. Implementations
// live in internal/database/postgres and internal/database/mock.
//
// ListVisible must apply the visibility filter
// (owner_id = principalID OR is_public) at the query level. Get is
// visibility-blind; the store checks visibility on every loaded record, so
// single-record reads cannot bypass it either.
type Repository interface {
	// Insert stores a new case and returns it with the assigned id.
	Insert(ctx context.Context, c *Case) (*Case, error)

	// ListVisible returns cases visible to the principal, most recent first.
	// A limit of 0 means no limit.
	ListVisible(ctx context.Context, principalID string, limit int) ([]Case, error)

	// Get returns a case by id regardless of visibility, or nil when absent.
	Get(ctx context.Context, id string) (*Case, error)

	// Update persists the full record and returns the stored version.
	Update(ctx context.Context, c *Case) (*Case, error)
}
