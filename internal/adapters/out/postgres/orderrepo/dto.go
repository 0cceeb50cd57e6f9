// Package orderrepo persists the order aggregate. Every lifecycle write goes
// through a conditional update on the stored status so that concurrent actors
// resolve to exactly one winner at the database.
package orderrepo

import (
	"time"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderDTO is the database row for one order.
type OrderDTO struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number               string     `gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	MerchantID           *uuid.UUID `gorm:"type:uuid;index"`
	CourierID            *uuid.UUID `gorm:"type:uuid;index"`
	Status               string     `gorm:"type:varchar(16);not null;index"`
	TotalCents           int64      `gorm:"not null"`
	CourierEarningsCents int64      `gorm:"not null"`
	DeliveryAddress      string     `gorm:"type:varchar(512);not null"`
	Latitude             *float64
	Longitude            *float64
	AcceptedAt           *time.Time
	PickedUpAt           *time.Time
	DeliveredAt          *time.Time
	ConfirmationDeadline *time.Time `gorm:"index"`
	CancelReason         string     `gorm:"type:varchar(255)"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeletedAt            gorm.DeletedAt `gorm:"index"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:                   aggregate.ID().Bytes(),
		Number:               aggregate.Number(),
		CustomerID:           aggregate.Customer().Bytes(),
		Status:               aggregate.Status().String(),
		TotalCents:           aggregate.Total().Cents(),
		CourierEarningsCents: aggregate.CourierEarnings().Cents(),
		DeliveryAddress:      aggregate.DeliveryAddress(),
		AcceptedAt:           aggregate.AcceptedAt(),
		PickedUpAt:           aggregate.PickedUpAt(),
		DeliveredAt:          aggregate.DeliveredAt(),
		ConfirmationDeadline: aggregate.ConfirmationDeadline(),
		CancelReason:         aggregate.CancelReason(),
	}

	if id := aggregate.Merchant(); id != nil {
		raw := id.Bytes()
		dto.MerchantID = &raw
	}
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		dto.CourierID = &raw
	}
	if point := aggregate.DeliveryPoint(); point != nil {
		lat, lon := point.Latitude(), point.Longitude()
		dto.Latitude = &lat
		dto.Longitude = &lon
	}

	return dto
}

// updateColumns lists every mutable column explicitly. A struct-based Updates
// would skip zero values and could never clear a courier assignment.
func (dto OrderDTO) updateColumns() map[string]any {
	return map[string]any{
		"merchant_id":            dto.MerchantID,
		"courier_id":             dto.CourierID,
		"status":                 dto.Status,
		"courier_earnings_cents": dto.CourierEarningsCents,
		"latitude":               dto.Latitude,
		"longitude":              dto.Longitude,
		"accepted_at":            dto.AcceptedAt,
		"picked_up_at":           dto.PickedUpAt,
		"delivered_at":           dto.DeliveredAt,
		"confirmation_deadline":  dto.ConfirmationDeadline,
		"cancel_reason":          dto.CancelReason,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var merchantID *kernel.UUID
	if dto.MerchantID != nil {
		mID, mErr := kernel.UUIDFromBytes((*dto.MerchantID)[:])
		if mErr != nil {
			return nil, mErr
		}
		merchantID = &mID
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, cErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if cErr != nil {
			return nil, cErr
		}
		courierID = &cID
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoneyFromCents(dto.TotalCents)
	if err != nil {
		return nil, err
	}
	earnings, err := kernel.NewMoneyFromCents(dto.CourierEarningsCents)
	if err != nil {
		return nil, err
	}

	var deliveryPoint *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		point, pErr := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if pErr != nil {
			return nil, pErr
		}
		deliveryPoint = &point
	}

	return order.RestoreOrder(id, dto.Number, customerID, merchantID, courierID,
		status, total, earnings, dto.DeliveryAddress, deliveryPoint,
		dto.AcceptedAt, dto.PickedUpAt, dto.DeliveredAt, dto.ConfirmationDeadline,
		dto.CancelReason)
}
