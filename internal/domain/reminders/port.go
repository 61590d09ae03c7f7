package reminders

import (
	"context"
	"errors"
)

// ErrNotFound indicates the targeted reminder id is absent from the
// collection. All id-targeted operations share this contract.
var ErrNotFound = errors.New("reminder not found")

// Store is the persistence port for the reminder collection. The collection
// is small and rewritten whole on every mutation; callers are responsible
// for serializing read-modify-write cycles.
type Store interface {
	// Load returns the full collection, seeding defaults when the backing
	// store does not exist yet.
	Load(ctx context.Context) ([]Reminder, error)
	// Replace overwrites the full collection.
	Replace(ctx context.Context, all []Reminder) error
}
