package queries

import (
	"context"
	"errors"
	"time"

	"fastdispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrGetTrackingHistoryQueryIsNotConstructed = errors.New(
	"GetTrackingHistoryQuery must be created via NewGetTrackingHistoryQuery constructor",
)

// GetTrackingHistoryQuery retrieves an order's delivery trail in recording
// order, for replaying a courier's route.
type GetTrackingHistoryQuery struct {
	orderID       kernel.UUID
	isConstructed bool
}

// NewGetTrackingHistoryQuery creates a validated trail lookup.
func NewGetTrackingHistoryQuery(orderID kernel.UUID) (GetTrackingHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetTrackingHistoryQuery{}, err
	}
	return GetTrackingHistoryQuery{orderID: orderID, isConstructed: true}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTrackingHistoryQuery) Validate() error {
	if !q.isConstructed {
		return ErrGetTrackingHistoryQueryIsNotConstructed
	}
	return nil
}

// GetTrackingHistoryQueryResponse is one recorded position.
type GetTrackingHistoryQueryResponse struct {
	CourierID  kernel.UUID
	Latitude   float64
	Longitude  float64
	Label      string
	RecordedAt time.Time
}

// GetTrackingHistoryQueryHandler reads the append-only trail. An order
// without points yields an empty, non-error result.
type GetTrackingHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetTrackingHistoryQueryHandler creates a handler for trail lookups.
func NewGetTrackingHistoryQueryHandler(db *gorm.DB) GetTrackingHistoryQueryHandler {
	return GetTrackingHistoryQueryHandler{db: db}
}

// Handle executes the lookup.
func (h GetTrackingHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetTrackingHistoryQuery,
) ([]GetTrackingHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT courier_id, latitude, longitude, label, recorded_at
		FROM tracking_points
		WHERE order_id = ?
		ORDER BY recorded_at ASC
	`, query.orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trail := make([]GetTrackingHistoryQueryResponse, 0)
	for rows.Next() {
		var (
			courierID uuid.UUID
			point     GetTrackingHistoryQueryResponse
		)
		if err = rows.Scan(&courierID, &point.Latitude, &point.Longitude,
			&point.Label, &point.RecordedAt); err != nil {
			return nil, err
		}

		id, err := kernel.UUIDFromBytes(courierID[:])
		if err != nil {
			return nil, err
		}
		point.CourierID = id
		trail = append(trail, point)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return trail, nil
}
