// Package courierrepo persists courier profiles. The availability flip that
// decides dispatch races lives here as a conditional single-column update.
package courierrepo

import (
	"time"

	"fastdispatch/internal/core/domain/model/courier"
	"fastdispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourierDTO is the database row for one courier profile.
type CourierDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                string    `gorm:"type:varchar(255);not null"`
	Tier                int       `gorm:"not null"`
	Rating              float64   `gorm:"not null"`
	CompletedDeliveries int       `gorm:"not null"`
	Verification        string    `gorm:"type:varchar(16);not null;index"`
	IsOnline            bool      `gorm:"not null;index"`
	IsAvailable         bool      `gorm:"not null;index"`
	Latitude            *float64
	Longitude           *float64
	LocationAt          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

// TableName overrides GORM's default naming to use "couriers".
func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(profile *courier.Profile) CourierDTO {
	dto := CourierDTO{
		ID:                  profile.ID().Bytes(),
		Name:                profile.Name(),
		Tier:                profile.Tier(),
		Rating:              profile.Rating(),
		CompletedDeliveries: profile.CompletedDeliveries(),
		Verification:        profile.VerificationStatus().String(),
		IsOnline:            profile.IsOnline(),
		IsAvailable:         profile.IsAvailable(),
		LocationAt:          profile.LocationAt(),
	}

	if point := profile.Location(); point != nil {
		lat, lon := point.Latitude(), point.Longitude()
		dto.Latitude = &lat
		dto.Longitude = &lon
	}

	return dto
}

// updateColumns lists every mutable column explicitly so boolean flags can be
// cleared; a struct-based Updates would skip false values.
func (dto CourierDTO) updateColumns() map[string]any {
	return map[string]any{
		"name":                 dto.Name,
		"tier":                 dto.Tier,
		"rating":               dto.Rating,
		"completed_deliveries": dto.CompletedDeliveries,
		"verification":         dto.Verification,
		"is_online":            dto.IsOnline,
		"is_available":         dto.IsAvailable,
		"latitude":             dto.Latitude,
		"longitude":            dto.Longitude,
		"location_at":          dto.LocationAt,
	}
}

func toDomain(dto CourierDTO) (*courier.Profile, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	verification, err := courier.VerificationFromString(dto.Verification)
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		point, pErr := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if pErr != nil {
			return nil, pErr
		}
		location = &point
	}

	return courier.RestoreProfile(id, dto.Name, dto.Tier, dto.Rating,
		dto.CompletedDeliveries, verification, dto.IsOnline, dto.IsAvailable,
		location, dto.LocationAt)
}
