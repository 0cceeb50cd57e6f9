package trackingrepo

import (
	"context"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/tracking"

	"gorm.io/gorm"
)

// GormTrackingRepository implements TrackingRepository using GORM.
type GormTrackingRepository struct {
	db *gorm.DB
}

// NewGormTrackingRepository creates a new GORM tracking repository.
func NewGormTrackingRepository(db *gorm.DB) *GormTrackingRepository {
	return &GormTrackingRepository{db: db}
}

// Add appends a tracking point to the order's trail.
func (r *GormTrackingRepository) Add(ctx context.Context, point *tracking.Point) error {
	if err := point.Validate(); err != nil {
		return err
	}

	dto := fromDomain(point)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetByOrder returns the order's trail in recording order.
func (r *GormTrackingRepository) GetByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]*tracking.Point, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []PointDTO
	if err := r.db.WithContext(ctx).
		Order("recorded_at ASC").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error; err != nil {
		return nil, err
	}

	points := make([]*tracking.Point, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	return points, nil
}

// HasInitialPoint reports whether the acceptance point was already written
// for the order.
func (r *GormTrackingRepository) HasInitialPoint(ctx context.Context, orderID kernel.UUID) (bool, error) {
	if err := orderID.Validate(); err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&PointDTO{}).
		Where("order_id = ? AND label = ?", orderID.Bytes(), tracking.InitialPointLabel).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
