// Package queries contains the read operations of the engine. Queries bypass
// the unit of work and read through gorm directly, returning read models
// shaped for the transport layer.
package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fastdispatch/internal/core/domain/model/courier"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/services"
	"fastdispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrFindCandidatesQueryIsNotConstructed = errors.New(
	"FindCandidatesQuery must be created via NewFindCandidatesQuery constructor",
)

// FindCandidatesQuery asks for the ranked courier candidates for an order's
// delivery point.
type FindCandidatesQuery struct {
	orderID       kernel.UUID
	radiusKm      float64
	maxResults    int
	isConstructed bool
}

// NewFindCandidatesQuery creates a validated candidate search.
func NewFindCandidatesQuery(orderID kernel.UUID, radiusKm float64, maxResults int) (FindCandidatesQuery, error) {
	if err := orderID.Validate(); err != nil {
		return FindCandidatesQuery{}, err
	}
	if radiusKm <= 0 {
		return FindCandidatesQuery{}, errs.NewValueIsInvalidError("search radius")
	}
	if maxResults <= 0 {
		return FindCandidatesQuery{}, errs.NewValueIsInvalidError("max results")
	}
	return FindCandidatesQuery{
		orderID:       orderID,
		radiusKm:      radiusKm,
		maxResults:    maxResults,
		isConstructed: true,
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q FindCandidatesQuery) Validate() error {
	if !q.isConstructed {
		return ErrFindCandidatesQueryIsNotConstructed
	}
	return nil
}

// FindCandidatesQueryResponse is one ranked candidate.
type FindCandidatesQueryResponse struct {
	CourierID  kernel.UUID
	Name       string
	DistanceKm float64
	EtaMinutes float64
	Score      float64
}

// FindCandidatesQueryHandler loads the eligible courier pool and ranks it
// against the order's delivery point. The ranking itself is pure domain
// logic; this handler only feeds it.
type FindCandidatesQueryHandler struct {
	db     *gorm.DB
	ranker services.CandidateRanker
}

// NewFindCandidatesQueryHandler creates a handler for candidate searches.
func NewFindCandidatesQueryHandler(db *gorm.DB) FindCandidatesQueryHandler {
	return FindCandidatesQueryHandler{db: db, ranker: services.NewCandidateRanker()}
}

// Handle executes the search. An order without delivery coordinates cannot be
// matched and yields a state conflict.
func (h FindCandidatesQueryHandler) Handle(
	ctx context.Context,
	query FindCandidatesQuery,
) ([]FindCandidatesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deliveryPoint, err := h.deliveryPoint(ctx, query.orderID)
	if err != nil {
		return nil, err
	}

	pool, names, err := h.eligibleCouriers(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := h.ranker.Rank(deliveryPoint, pool, query.radiusKm, query.maxResults)
	if err != nil {
		return nil, err
	}

	responses := make([]FindCandidatesQueryResponse, 0, len(candidates))
	for _, c := range candidates {
		responses = append(responses, FindCandidatesQueryResponse{
			CourierID:  c.CourierID,
			Name:       names[c.CourierID.String()],
			DistanceKm: c.DistanceKm,
			EtaMinutes: c.EtaMinutes,
			Score:      c.Score,
		})
	}
	return responses, nil
}

func (h FindCandidatesQueryHandler) deliveryPoint(ctx context.Context, orderID kernel.UUID) (kernel.GeoPoint, error) {
	var row struct {
		Latitude  *float64
		Longitude *float64
	}

	result := h.db.WithContext(ctx).Raw(`
		SELECT latitude, longitude
		FROM orders
		WHERE id = ? AND deleted_at IS NULL
	`, orderID.Bytes()).Scan(&row)
	if result.Error != nil {
		return kernel.GeoPoint{}, result.Error
	}
	if result.RowsAffected == 0 {
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("order", orderID)
	}
	if row.Latitude == nil || row.Longitude == nil {
		return kernel.GeoPoint{}, errs.NewStateConflictError("order",
			"order has no delivery coordinates")
	}

	return kernel.NewGeoPoint(*row.Latitude, *row.Longitude)
}

func (h FindCandidatesQueryHandler) eligibleCouriers(
	ctx context.Context,
) ([]*courier.Profile, map[string]string, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, name, tier, rating, completed_deliveries,
		       latitude, longitude, location_at
		FROM couriers
		WHERE is_online = true
		  AND is_available = true
		  AND verification = ?
		  AND latitude IS NOT NULL
		  AND deleted_at IS NULL
	`, courier.VerificationApproved.String()).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var pool []*courier.Profile
	names := make(map[string]string)

	for rows.Next() {
		var (
			id                  uuid.UUID
			name                string
			tier                int
			rating              float64
			completedDeliveries int
			dto                 struct {
				Latitude   *float64
				Longitude  *float64
				LocationAt *time.Time
			}
		)

		if err = rows.Scan(&id, &name, &tier, &rating, &completedDeliveries,
			&dto.Latitude, &dto.Longitude, &dto.LocationAt); err != nil {
			return nil, nil, err
		}

		courierID, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, nil, err
		}
		point, err := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if err != nil {
			return nil, nil, fmt.Errorf("courier %s coordinates: %w", courierID, err)
		}

		profile, err := courier.RestoreProfile(courierID, name, tier, rating,
			completedDeliveries, courier.VerificationApproved, true, true,
			&point, dto.LocationAt)
		if err != nil {
			return nil, nil, err
		}

		pool = append(pool, profile)
		names[courierID.String()] = name
	}
	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	return pool, names, nil
}
