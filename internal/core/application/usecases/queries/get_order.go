package queries

import (
	"context"
	"errors"
	"time"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with its escrow state, if any.
type GetOrderQuery struct {
	orderID       kernel.UUID
	isConstructed bool
}

// NewGetOrderQuery creates a validated order lookup.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, isConstructed: true}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	if !q.isConstructed {
		return ErrGetOrderQueryIsNotConstructed
	}
	return nil
}

// GetOrderQueryResponse is the order read model.
type GetOrderQueryResponse struct {
	ID                   kernel.UUID
	Number               string
	CustomerID           kernel.UUID
	MerchantID           *kernel.UUID
	CourierID            *kernel.UUID
	Status               string
	Total                float64
	CourierEarnings      float64
	DeliveryAddress      string
	Latitude             *float64
	Longitude            *float64
	AcceptedAt           *time.Time
	PickedUpAt           *time.Time
	DeliveredAt          *time.Time
	ConfirmationDeadline *time.Time
	CancelReason         string
	EscrowStatus         string
}

// GetOrderQueryHandler reads one order row joined with its escrow status.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order lookups.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the lookup.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var row struct {
		ID                   uuid.UUID
		Number               string
		CustomerID           uuid.UUID
		MerchantID           uuid.NullUUID
		CourierID            uuid.NullUUID
		Status               string
		TotalCents           int64
		CourierEarningsCents int64
		DeliveryAddress      string
		Latitude             *float64
		Longitude            *float64
		AcceptedAt           *time.Time
		PickedUpAt           *time.Time
		DeliveredAt          *time.Time
		ConfirmationDeadline *time.Time
		CancelReason         string
		EscrowStatus         *string
	}

	result := h.db.WithContext(ctx).Raw(`
		SELECT o.id, o.number, o.customer_id, o.merchant_id, o.courier_id,
		       o.status, o.total_cents, o.courier_earnings_cents,
		       o.delivery_address, o.latitude, o.longitude,
		       o.accepted_at, o.picked_up_at, o.delivered_at,
		       o.confirmation_deadline, o.cancel_reason,
		       e.status AS escrow_status
		FROM orders o
		LEFT JOIN escrows e ON e.order_id = o.id
		WHERE o.id = ? AND o.deleted_at IS NULL
	`, query.orderID.Bytes()).Scan(&row)
	if result.Error != nil {
		return GetOrderQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.orderID)
	}

	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	customerID, err := kernel.UUIDFromBytes(row.CustomerID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	response := GetOrderQueryResponse{
		ID:                   id,
		Number:               row.Number,
		CustomerID:           customerID,
		Status:               row.Status,
		Total:                float64(row.TotalCents) / 100,
		CourierEarnings:      float64(row.CourierEarningsCents) / 100,
		DeliveryAddress:      row.DeliveryAddress,
		Latitude:             row.Latitude,
		Longitude:            row.Longitude,
		AcceptedAt:           row.AcceptedAt,
		PickedUpAt:           row.PickedUpAt,
		DeliveredAt:          row.DeliveredAt,
		ConfirmationDeadline: row.ConfirmationDeadline,
		CancelReason:         row.CancelReason,
	}
	if row.MerchantID.Valid {
		merchantID, err := kernel.UUIDFromBytes(row.MerchantID.UUID[:])
		if err != nil {
			return GetOrderQueryResponse{}, err
		}
		response.MerchantID = &merchantID
	}
	if row.CourierID.Valid {
		courierID, err := kernel.UUIDFromBytes(row.CourierID.UUID[:])
		if err != nil {
			return GetOrderQueryResponse{}, err
		}
		response.CourierID = &courierID
	}
	if row.EscrowStatus != nil {
		response.EscrowStatus = *row.EscrowStatus
	}

	return response, nil
}
