package mirror

import (
	"context"
)

// Store manages mirror entry persistence inside the mirror service itself.
// The cashflow API never touches this; it talks to the service through
// Client.
type Store interface {
	// Insert appends an entry
	Insert(ctx context.Context, entry *Entry) error

	// ListAll returns every entry, newest first
	ListAll(ctx context.Context) ([]Entry, error)

	// ListBySme returns one tenant's entries, newest first
	ListBySme(ctx context.Context, smeID string) ([]Entry, error)

	// DeleteByID removes an entry.
	// Returns ErrEntryNotFound if no entry exists.
	DeleteByID(ctx context.Context, id string) error

	// SummarizeBySme aggregates one tenant's totals
	SummarizeBySme(ctx context.Context, smeID string) (*Summary, error)
}

// ErrEntryNotFound indicates a missing mirror entry
type ErrEntryNotFound struct {
	ID string
}

func (e ErrEntryNotFound) Error() string {
	return "mirror entry not found: " + e.ID
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	if t.ID == "" {
		return true
	}
	return e.ID == t.ID
}
