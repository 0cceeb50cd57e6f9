// Package trackingrepo persists the append-only delivery trail. Rows are only
// ever inserted and read.
package trackingrepo

import (
	"time"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/tracking"

	"github.com/google/uuid"
)

// PointDTO is one immutable row of the delivery trail.
type PointDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CourierID  uuid.UUID `gorm:"type:uuid;not null"`
	Latitude   float64   `gorm:"not null"`
	Longitude  float64   `gorm:"not null"`
	Label      string    `gorm:"type:varchar(32);not null"`
	RecordedAt time.Time `gorm:"not null;index"`
}

// TableName overrides GORM's default naming to use "tracking_points".
func (PointDTO) TableName() string {
	return "tracking_points"
}

func fromDomain(point *tracking.Point) PointDTO {
	return PointDTO{
		ID:         point.ID().Bytes(),
		OrderID:    point.OrderID().Bytes(),
		CourierID:  point.CourierID().Bytes(),
		Latitude:   point.Coordinate().Latitude(),
		Longitude:  point.Coordinate().Longitude(),
		Label:      point.Label(),
		RecordedAt: point.RecordedAt(),
	}
}

func toDomain(dto PointDTO) (*tracking.Point, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}
	coordinate, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	return tracking.NewPoint(id, orderID, courierID, coordinate, dto.Label, dto.RecordedAt)
}
