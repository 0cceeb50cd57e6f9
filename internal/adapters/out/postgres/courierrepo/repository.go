package courierrepo

import (
	"context"
	"errors"

	"fastdispatch/internal/core/domain/model/courier"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCourierRepository implements CourierRepository using GORM.
type GormCourierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierRepository {
	return &GormCourierRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new courier profile.
func (r *GormCourierRepository) Add(ctx context.Context, profile *courier.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	dto := fromDomain(profile)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(profile.ID(), profile)
	return nil
}

// Update saves an existing courier profile.
func (r *GormCourierRepository) Update(ctx context.Context, profile *courier.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	dto := fromDomain(profile)
	result := r.db.WithContext(ctx).Model(&CourierDTO{}).
		Where("id = ?", dto.ID).
		Updates(dto.updateColumns())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", profile.ID())
	}

	r.tracker.TrackAggregate(profile.ID(), profile)
	return nil
}

// Get retrieves a courier profile by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Profile, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllEligible retrieves the couriers the dispatcher may consider: online,
// available, approved, and with a reported location.
func (r *GormCourierRepository) GetAllEligible(ctx context.Context) ([]*courier.Profile, error) {
	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).
		Where("is_online AND is_available").
		Where("verification = ?", courier.VerificationApproved.String()).
		Where("latitude IS NOT NULL").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	profiles := make([]*courier.Profile, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, nil
}

// Reserve atomically flips an eligible courier to unavailable. The condition
// re-checks eligibility inside the update so two dispatchers racing for the
// same courier resolve to exactly one winner.
func (r *GormCourierRepository) Reserve(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&CourierDTO{}).
		Where("id = ? AND is_online AND is_available AND verification = ?",
			id.Bytes(), courier.VerificationApproved.String()).
		Update("is_available", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewStateConflictError("courier",
			"courier "+id.String()+" is no longer available")
	}

	return nil
}

// Free returns a courier to the available pool. A courier who went offline in
// the meantime stays unavailable, which is not an error.
func (r *GormCourierRepository) Free(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&CourierDTO{}).
		Where("id = ? AND is_online", id.Bytes()).
		Update("is_available", true).Error
}
