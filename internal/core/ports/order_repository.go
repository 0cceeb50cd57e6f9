// Package ports defines the contracts between the application core and
// infrastructure: repositories, the transactional unit of work, and gateways
// to external services. Adapters implement these interfaces; handlers depend
// only on them.
package ports

import (
	"context"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/order"
)

// OrderRepository is the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order. Returns ErrStateConflict when the order
	// number collides with an existing one, so the caller can regenerate
	// and retry.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order unconditionally.
	// Used when the write cannot race with other actors, such as attaching
	// a late geocoding result.
	Update(ctx context.Context, aggregate *order.Order) error

	// UpdateIfStatus persists the aggregate only if the stored row is still
	// in the expected status. Returns ErrStateConflict when another writer
	// moved the order first. Every lifecycle transition goes through this
	// guard.
	UpdateIfStatus(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// Get retrieves an order by its identifier.
	// Returns ErrObjectNotFound when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its human-facing number.
	GetByNumber(ctx context.Context, number string) (*order.Order, error)

	// GetActiveByCourier returns the orders a courier is currently bound to
	// (accepted, picked up, or in transit).
	GetActiveByCourier(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error)
}
