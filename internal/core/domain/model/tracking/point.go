// Package tracking contains the append-only TrackingPoint log. Points are
// never mutated or deleted; together they form the audit and replay trail for
// a delivery.
package tracking

import (
	"errors"
	"time"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/pkg/errs"
)

// InitialPointLabel marks the single tracking point written when a courier
// accepts a dispatch offer. Its presence is also how a repeated acceptance is
// detected as already resolved.
const InitialPointLabel = "ASSIGNMENT_ACCEPTED"

// Point is one immutable entry in the delivery trail: where the courier was
// and what the order looked like at that instant.
type Point struct {
	id            kernel.UUID
	orderID       kernel.UUID
	courierID     kernel.UUID
	coordinate    kernel.GeoPoint
	label         string
	recordedAt    time.Time
	isConstructed bool
}

// NewPoint creates a tracking entry. The label is either InitialPointLabel or
// the order status at the time of the report.
func NewPoint(
	id, orderID, courierID kernel.UUID,
	coordinate kernel.GeoPoint,
	label string,
	at time.Time,
) (*Point, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		courierID.Validate(),
		coordinate.Validate(),
	); err != nil {
		return nil, err
	}
	if label == "" {
		return nil, errs.NewValueIsRequiredError("tracking label")
	}

	return &Point{
		id:            id,
		orderID:       orderID,
		courierID:     courierID,
		coordinate:    coordinate,
		label:         label,
		recordedAt:    at.UTC(),
		isConstructed: true,
	}, nil
}

// Validate ensures the Point was created through NewPoint.
func (p *Point) Validate() error {
	if p == nil || !p.isConstructed {
		return errors.New("Point must be created via NewPoint")
	}
	return nil
}

// ID returns the entry identifier.
func (p *Point) ID() kernel.UUID { return p.id }

// OrderID returns the tracked order.
func (p *Point) OrderID() kernel.UUID { return p.orderID }

// CourierID returns the reporting courier.
func (p *Point) CourierID() kernel.UUID { return p.courierID }

// Coordinate returns where the courier was.
func (p *Point) Coordinate() kernel.GeoPoint { return p.coordinate }

// Label returns the status label recorded with the point.
func (p *Point) Label() string { return p.label }

// RecordedAt returns when the point was recorded.
func (p *Point) RecordedAt() time.Time { return p.recordedAt }
