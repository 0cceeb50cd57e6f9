package services_test

import (
	"testing"
	"time"

	"fastdispatch/internal/core/domain/model/courier"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// degPerKm converts a north-south distance to degrees of latitude on the
// 6371 km sphere, so test couriers can be placed at known distances.
const degPerKm = 180.0 / (3.14159265358979 * 6371.0)

func eligibleCourierAt(t *testing.T, rating float64, completed int, point kernel.GeoPoint) *courier.Profile {
	t.Helper()
	p, err := courier.RestoreProfile(kernel.NewUUID(), "courier", 1, rating, completed,
		courier.VerificationApproved, true, true, &point, timePtr(time.Now()))
	require.NoError(t, err)
	return p
}

func timePtr(t time.Time) *time.Time { return &t }

func mustGeoPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return point
}

func TestCandidateRanker_Rank(t *testing.T) {
	ranker := services.NewCandidateRanker()
	delivery := mustGeoPoint(t, 6.5, 3.3)

	t.Run("ranks near couriers and excludes beyond radius", func(t *testing.T) {
		near := eligibleCourierAt(t, 4.5, 50, mustGeoPoint(t, 6.5+2*degPerKm, 3.3))
		mid := eligibleCourierAt(t, 5.0, 10, mustGeoPoint(t, 6.5+8*degPerKm, 3.3))
		far := eligibleCourierAt(t, 3.0, 200, mustGeoPoint(t, 6.5+15*degPerKm, 3.3))

		candidates, err := ranker.Rank(delivery,
			[]*courier.Profile{far, mid, near}, 10, 20)

		require.NoError(t, err)
		require.Len(t, candidates, 2)

		assert.True(t, candidates[0].CourierID.IsEqual(near.ID()))
		assert.InDelta(t, 2.0, candidates[0].DistanceKm, 0.01)
		assert.InDelta(t, 4.0, candidates[0].EtaMinutes, 0.05)
		assert.InDelta(t, 105.6, candidates[0].Score, 0.1)

		assert.True(t, candidates[1].CourierID.IsEqual(mid.ID()))
		assert.InDelta(t, 8.0, candidates[1].DistanceKm, 0.01)
		assert.InDelta(t, 77.4, candidates[1].Score, 0.1)
	})

	t.Run("empty pool yields empty result", func(t *testing.T) {
		candidates, err := ranker.Rank(delivery, nil, 10, 20)

		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("skips ineligible couriers", func(t *testing.T) {
		point := mustGeoPoint(t, 6.5+1*degPerKm, 3.3)

		offline, err := courier.RestoreProfile(kernel.NewUUID(), "offline", 1, 5.0, 10,
			courier.VerificationApproved, false, false, &point, timePtr(time.Now()))
		require.NoError(t, err)

		reserved, err := courier.RestoreProfile(kernel.NewUUID(), "reserved", 1, 5.0, 10,
			courier.VerificationApproved, true, false, &point, timePtr(time.Now()))
		require.NoError(t, err)

		pending, err := courier.RestoreProfile(kernel.NewUUID(), "pending", 1, 5.0, 10,
			courier.VerificationPending, true, true, &point, timePtr(time.Now()))
		require.NoError(t, err)

		unlocated, err := courier.RestoreProfile(kernel.NewUUID(), "unlocated", 1, 5.0, 10,
			courier.VerificationApproved, true, true, nil, nil)
		require.NoError(t, err)

		candidates, err := ranker.Rank(delivery,
			[]*courier.Profile{offline, reserved, pending, unlocated}, 10, 20)

		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("truncates to max results", func(t *testing.T) {
		pool := make([]*courier.Profile, 0, 5)
		for i := 0; i < 5; i++ {
			pool = append(pool, eligibleCourierAt(t, 4.0, 10,
				mustGeoPoint(t, 6.5+float64(i+1)*degPerKm, 3.3)))
		}

		candidates, err := ranker.Rank(delivery, pool, 10, 3)

		require.NoError(t, err)
		require.Len(t, candidates, 3)
		assert.True(t, candidates[0].DistanceKm < candidates[1].DistanceKm)
		assert.True(t, candidates[1].DistanceKm < candidates[2].DistanceKm)
	})

	t.Run("ties break by courier id", func(t *testing.T) {
		point := mustGeoPoint(t, 6.5+3*degPerKm, 3.3)
		a := eligibleCourierAt(t, 4.0, 10, point)
		b := eligibleCourierAt(t, 4.0, 10, point)

		first, err := ranker.Rank(delivery, []*courier.Profile{a, b}, 10, 20)
		require.NoError(t, err)
		second, err := ranker.Rank(delivery, []*courier.Profile{b, a}, 10, 20)
		require.NoError(t, err)

		require.Len(t, first, 2)
		require.Len(t, second, 2)
		assert.True(t, first[0].CourierID.IsEqual(second[0].CourierID))
		assert.True(t, first[0].CourierID.String() < first[1].CourierID.String())
	})

	t.Run("rejects non-positive radius and limit", func(t *testing.T) {
		_, err := ranker.Rank(delivery, nil, 0, 20)
		require.Error(t, err)

		_, err = ranker.Rank(delivery, nil, 10, 0)
		require.Error(t, err)
	})
}

func TestScore(t *testing.T) {
	t.Run("experience bonus is capped", func(t *testing.T) {
		base := services.Score(4.0, 50, 5, services.EtaMinutes(5))
		veteran := services.Score(4.0, 500, 5, services.EtaMinutes(5))

		assert.Equal(t, base, veteran)
	})

	t.Run("higher rating never scores lower", func(t *testing.T) {
		low := services.Score(3.0, 20, 5, services.EtaMinutes(5))
		high := services.Score(4.5, 20, 5, services.EtaMinutes(5))

		assert.Greater(t, high, low)
	})

	t.Run("distance and eta penalties bottom out at zero", func(t *testing.T) {
		remote := services.Score(0, 0, 200, services.EtaMinutes(200))

		assert.Equal(t, 0.0, remote)
	})

	t.Run("closer courier scores higher all else equal", func(t *testing.T) {
		near := services.Score(4.0, 20, 2, services.EtaMinutes(2))
		far := services.Score(4.0, 20, 9, services.EtaMinutes(9))

		assert.Greater(t, near, far)
	})
}

func TestEtaMinutes(t *testing.T) {
	assert.InDelta(t, 30.0, services.EtaMinutes(15), 1e-9)
	assert.Equal(t, 0.0, services.EtaMinutes(0))
}
