package storage

import (
	"context"

	"github.com/poiesic/clinrank/core"
)

// ProfileRepository provides operations for managing clinician profiles.
// Implementations must be thread-safe and support concurrent access.
type ProfileRepository interface {
	// AddProfiles adds one or more clinician profiles to storage.
	// For profiles with ID=0, derives a content ID from the profile identity.
	// Returns the profiles with IDs populated.
	AddProfiles(ctx context.Context, profiles ...*core.Candidate) ([]*core.Candidate, error)

	// UpdateProfiles updates existing profiles.
	// Returns ErrNotFound if any profile doesn't exist.
	UpdateProfiles(ctx context.Context, profiles ...*core.Candidate) ([]*core.Candidate, error)

	// DeleteProfiles removes profiles by their IDs.
	// Also removes associated specialty index entries.
	// Returns ErrNotFound if any profile doesn't exist.
	DeleteProfiles(ctx context.Context, ids ...core.ID) error

	// GetProfile retrieves a single profile by ID.
	// Returns ErrNotFound if the profile doesn't exist.
	GetProfile(ctx context.Context, id core.ID) (*core.Candidate, error)

	// GetProfiles retrieves multiple profiles by their IDs.
	// Returns only the profiles that exist (no error for missing profiles).
	GetProfiles(ctx context.Context, ids ...core.ID) ([]*core.Candidate, error)

	// GetProfilesBySpecialty retrieves profiles whose primary specialty
	// matches the given value exactly (case-insensitive).
	GetProfilesBySpecialty(ctx context.Context, specialty string) ([]*core.Candidate, error)

	// AllProfiles retrieves every stored profile, ordered by ID.
	AllProfiles(ctx context.Context) ([]*core.Candidate, error)

	// Count returns the number of stored profiles.
	Count(ctx context.Context) (int, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}
