package services

import (
	"math"
	"sort"

	"fastdispatch/internal/core/domain/model/courier"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/pkg/errs"
)

// AverageSpeedKmh is the assumed courier travel speed used for ETA estimates.
const AverageSpeedKmh = 30.0

// Scoring weights and caps. The score rewards rating and experience and
// penalizes distance and ETA; experience is capped so veterans do not
// permanently crowd out newer couriers.
const (
	ratingWeight     = 10.0
	experienceWeight = 0.5
	experienceCap    = 25.0
	distanceBase     = 25.0
	distanceWeight   = 2.0
	etaBase          = 15.0
	etaWeight        = 0.1
)

// Candidate is a courier considered for assignment to a specific order,
// annotated with computed distance, ETA, and score. Candidates are ephemeral:
// derived per matching call and never persisted.
type Candidate struct {
	CourierID  kernel.UUID
	DistanceKm float64
	EtaMinutes float64
	Score      float64
}

// Score is the pure ranking function over a located candidate's attributes.
// It is deterministic and monotonic: a higher rating never lowers the score,
// and a greater distance never raises it.
func Score(rating float64, completedDeliveries int, distanceKm, etaMinutes float64) float64 {
	return rating*ratingWeight +
		math.Min(float64(completedDeliveries)*experienceWeight, experienceCap) +
		math.Max(distanceBase-distanceKm*distanceWeight, 0) +
		math.Max(etaBase-etaMinutes*etaWeight, 0)
}

// EtaMinutes estimates travel time for a distance at the assumed speed.
func EtaMinutes(distanceKm float64) float64 {
	return distanceKm / AverageSpeedKmh * 60
}

// CandidateRanker is the domain service that filters eligible couriers around
// a delivery point and ranks them for dispatch.
//
// Filtering: couriers must be eligible (online, available, APPROVED, with a
// known location) and within the search radius. Couriers beyond the radius
// are excluded, not merely penalized. An empty result is a valid outcome.
//
// Ranking: descending score, ties broken by smaller distance, then by smaller
// courier id, so the ordering is deterministic and stable across calls.
type CandidateRanker struct{}

// NewCandidateRanker creates a new CandidateRanker instance.
func NewCandidateRanker() CandidateRanker {
	return CandidateRanker{}
}

// Rank produces the ranked candidate list for a delivery point.
// maxResults truncates the output after sorting.
func (CandidateRanker) Rank(
	deliveryPoint kernel.GeoPoint,
	couriers []*courier.Profile,
	radiusKm float64,
	maxResults int,
) ([]Candidate, error) {
	if err := deliveryPoint.Validate(); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		return nil, errs.NewValueIsInvalidError("search radius")
	}
	if maxResults <= 0 {
		return nil, errs.NewValueIsInvalidError("max results")
	}

	candidates := make([]Candidate, 0, len(couriers))
	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if !c.IsEligible() {
			continue
		}

		distance, err := c.Location().DistanceKm(deliveryPoint)
		if err != nil {
			return nil, err
		}
		if distance > radiusKm {
			continue
		}

		eta := EtaMinutes(distance)
		candidates = append(candidates, Candidate{
			CourierID:  c.ID(),
			DistanceKm: distance,
			EtaMinutes: eta,
			Score:      Score(c.Rating(), c.CompletedDeliveries(), distance, eta),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].DistanceKm != candidates[j].DistanceKm {
			return candidates[i].DistanceKm < candidates[j].DistanceKm
		}
		return candidates[i].CourierID.String() < candidates[j].CourierID.String()
	})

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}

	return candidates, nil
}
