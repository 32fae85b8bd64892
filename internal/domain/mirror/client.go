package mirror

import (
	"context"
	"fmt"
)

// Client is the ledger mirror service contract. All operations are plain
// request/response with no retry policy; any failure is the caller's to
// contain.
type Client interface {
	// Health probes the mirror service and returns its reported status
	Health(ctx context.Context) (string, error)

	// List returns every mirrored entry across all tenants
	List(ctx context.Context) ([]Entry, error)

	// ListBySme returns the mirrored entries of one tenant
	ListBySme(ctx context.Context, smeID string) ([]Entry, error)

	// Create appends a new entry and returns it with its assigned id
	Create(ctx context.Context, in NewEntry) (*Entry, error)

	// Delete removes an entry by id. Returns a StatusError with code 404
	// when no such entry exists.
	Delete(ctx context.Context, id string) error

	// Summary returns the aggregate totals of one tenant
	Summary(ctx context.Context, smeID string) (*Summary, error)
}

// StatusError is a non-2xx response from the mirror service, kept typed so
// callers can tell a missing entry from a server fault.
type StatusError struct {
	Code int
	Body string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("mirror service returned status %d: %s", e.Code, e.Body)
}

// IsNotFound reports whether the response was a 404
func (e StatusError) IsNotFound() bool {
	return e.Code == 404
}

// Is implements the errors.Is interface for StatusError
func (e StatusError) Is(target error) bool {
	t, ok := target.(StatusError)
	if !ok {
		return false
	}
	if t.Code == 0 {
		return true
	}
	return e.Code == t.Code
}
