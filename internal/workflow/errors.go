package workflow

import "fmt"

// ValidationError reports bad or missing user input, caught before any
// storage or network call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Reason }

// ConflictError reports that a live vote (PENDING or APPROVED) already
// exists for the (user, poll) pair at submit time.
type ConflictError struct {
	UserID int
	PollID int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("a live vote already exists for user %d on poll %d", e.UserID, e.PollID)
}

// UploadError reports a blob store failure. No vote record exists when this
// is returned.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string { return "proof upload failed: " + e.Err.Error() }
func (e *UploadError) Unwrap() error { return e.Err }

// PersistenceError reports a record insert or update failure.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "persistence failed: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// StaleStateError reports an admin disposition against a vote that is no
// longer PENDING, typically because another admin acted first.
type StaleStateError struct {
	VoteID string
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("vote %s is no longer pending", e.VoteID)
}

// AuthError reports bad credentials.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "authentication failed: " + e.Reason }

// LookupError reports that a login identifier or referenced record could not
// be resolved.
type LookupError struct {
	LoginID string
}

func (e *LookupError) Error() string {
	if e.LoginID != "" {
		return "no account found for " + e.LoginID
	}
	return "record not found"
}
