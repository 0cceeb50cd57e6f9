package escrowrepo

import (
	"context"
	"errors"
	"time"

	"fastdispatch/internal/core/domain/model/escrow"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/model/order"
	"fastdispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormEscrowRepository implements EscrowRepository using GORM.
type GormEscrowRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormEscrowRepository creates a new GORM escrow repository.
func NewGormEscrowRepository(db *gorm.DB, tracker aggregateTracker) *GormEscrowRepository {
	return &GormEscrowRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new escrow record.
func (r *GormEscrowRepository) Add(ctx context.Context, aggregate *escrow.Escrow) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateIfStatus saves the escrow only if the stored row still holds the
// expected status. A zero row count means another writer settled the escrow
// first, which surfaces as a state conflict.
func (r *GormEscrowRepository) UpdateIfStatus(
	ctx context.Context,
	aggregate *escrow.Escrow,
	expected escrow.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := expected.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&EscrowDTO{}).
		Where("id = ? AND status = ?", dto.ID, expected.String()).
		Updates(dto.updateColumns())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewStateConflictError("escrow",
			"escrow "+aggregate.ID().String()+" was resolved by another actor")
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an escrow record by ID.
func (r *GormEscrowRepository) Get(ctx context.Context, id kernel.UUID) (*escrow.Escrow, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto EscrowDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("escrow", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrder retrieves the escrow record attached to an order.
func (r *GormEscrowRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*escrow.Escrow, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto EscrowDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("escrow for order", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetDueForRelease returns held escrows whose order was delivered and whose
// confirmation deadline has passed. Disputed and settled escrows never match,
// which keeps the release sweep idempotent.
func (r *GormEscrowRepository) GetDueForRelease(
	ctx context.Context,
	now time.Time,
) ([]*escrow.Escrow, error) {
	var dtos []EscrowDTO
	if err := r.db.WithContext(ctx).Model(&EscrowDTO{}).
		Joins("JOIN orders ON orders.id = escrows.order_id").
		Where("escrows.status = ?", escrow.Held.String()).
		Where("orders.status = ?", order.Delivered.String()).
		Where("orders.confirmation_deadline <= ?", now).
		Where("orders.deleted_at IS NULL").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	escrows := make([]*escrow.Escrow, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		escrows = append(escrows, e)
	}

	return escrows, nil
}

// AddTransaction appends an entry to the escrow transaction ledger.
func (r *GormEscrowRepository) AddTransaction(ctx context.Context, tx *escrow.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	dto := transactionFromDomain(tx)
	return r.db.WithContext(ctx).Create(&dto).Error
}
