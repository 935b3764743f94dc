package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotClaimable is returned when a job cannot transition to PROCESSING,
	// either because it is terminal or another worker holds a live claim.
	ErrNotClaimable = errors.New("job not claimable")
)

// ProviderError wraps a failure of the external listing source. It is
// job-fatal: the enclosing job is marked FAILED and not retried.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed write to the lead store. It is
// candidate-fatal only: the pipeline logs it and continues with the
// remaining candidates.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
