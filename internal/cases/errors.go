package cases

import "fmt"

// ValidationError reports malformed input. The caller can correct the input
// and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AuthorizationError reports that the principal lacks rights for the
// operation. Never retried.
type AuthorizationError struct {
	Op string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not authorized to %s", e.Op)
}

// NotFoundError reports that the referenced case is absent or not visible to
// the principal. The two are deliberately indistinguishable so a private
// case's existence is never leaked.
type NotFoundError struct {
	CaseID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("case %s not found", e.CaseID)
}

// InvalidTransitionError reports a status move the state machine rejects.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition case from %s to %s", e.From, e.To)
}

// StorageError wraps a persistence round-trip failure. The caller may retry
// the whole operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
