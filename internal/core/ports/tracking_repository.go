package ports

import (
	"context"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/tracking"
)

// TrackingRepository is the persistence contract for the append-only
// delivery trail. Points are only ever inserted and read.
type TrackingRepository interface {
	// Add appends a tracking point to the order's trail.
	Add(ctx context.Context, point *tracking.Point) error

	// GetByOrder returns the order's trail in recording order.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*tracking.Point, error)

	// HasInitialPoint reports whether the acceptance point has already been
	// written for the order, which marks a dispatch offer as resolved.
	HasInitialPoint(ctx context.Context, orderID kernel.UUID) (bool, error)
}
