package ports

import (
	"context"

	"fastdispatch/internal/core/domain/model/courier"
	"fastdispatch/internal/core/domain/model/kernel"
)

// CourierRepository is the persistence contract for courier profiles.
type CourierRepository interface {
	// Add persists a new courier profile.
	Add(ctx context.Context, profile *courier.Profile) error

	// Update persists changes to an existing courier profile.
	Update(ctx context.Context, profile *courier.Profile) error

	// Get retrieves a courier profile by its identifier.
	// Returns ErrObjectNotFound when no such courier exists.
	Get(ctx context.Context, id kernel.UUID) (*courier.Profile, error)

	// GetAllEligible returns couriers the dispatcher may consider: online,
	// available, approved, and with a reported location.
	GetAllEligible(ctx context.Context) ([]*courier.Profile, error)

	// Reserve atomically flips an eligible courier to unavailable. The
	// update is conditional on the courier still being online, available,
	// and approved; when the row no longer matches, ErrStateConflict is
	// returned and the caller moves on to the next candidate.
	Reserve(ctx context.Context, id kernel.UUID) error

	// Free returns a courier to the available pool, provided they are
	// still online.
	Free(ctx context.Context, id kernel.UUID) error
}
