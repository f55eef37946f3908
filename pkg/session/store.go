package session

import (
	"context"
	"time"
)

// Store defines the interface for session persistence.
type Store interface {
	// Create makes an empty record for id. Creating an existing record
	// leaves its contents untouched.
	Create(ctx context.Context, id string) error

	// Load returns the full bag stored for id.
	// Returns ErrNotFound if the record doesn't exist.
	Load(ctx context.Context, id string) (Values, error)

	// Save replaces the whole record for id, creating it if needed.
	Save(ctx context.Context, id string, v Values) error
}

// Sweepable is implemented by stores that can drop idle records.
type Sweepable interface {
	// Sweep removes records last written before the cutoff and reports how many were removed.
	Sweep(ctx context.Context, before time.Time) (int, error)
}
