package kernel_test

import (
	"testing"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("should create point with valid coordinates", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(6.5244, 3.3792)

		require.NoError(t, err)
		require.NoError(t, point.Validate())
		assert.InDelta(t, 6.5244, point.Latitude(), 1e-9)
		assert.InDelta(t, 3.3792, point.Longitude(), 1e-9)
	})

	t.Run("should accept boundary coordinates", func(t *testing.T) {
		for _, c := range [][2]float64{{-90, -180}, {90, 180}, {0, 0}} {
			point, err := kernel.NewGeoPoint(c[0], c[1])
			require.NoError(t, err)
			require.NoError(t, point.Validate())
		}
	})

	t.Run("should fail with latitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(91, 0)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "latitude")
	})

	t.Run("should fail with longitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(0, -180.5)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "longitude")
	})

	t.Run("should join both coordinate errors", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(-100, 200)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "latitude")
		assert.Contains(t, err.Error(), "longitude")
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero value is invalid", func(t *testing.T) {
		var point kernel.GeoPoint

		assert.ErrorIs(t, point.Validate(), kernel.ErrGeoPointIsNotConstructed)
	})
}

func TestGeoPoint_DistanceKm(t *testing.T) {
	t.Run("distance to self is zero", func(t *testing.T) {
		point, _ := kernel.NewGeoPoint(6.5, 3.3)

		km, err := point.DistanceKm(point)

		require.NoError(t, err)
		assert.InDelta(t, 0, km, 1e-9)
	})

	t.Run("one degree of latitude is about 111 km", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(0, 0)
		b, _ := kernel.NewGeoPoint(1, 0)

		km, err := a.DistanceKm(b)

		require.NoError(t, err)
		assert.InDelta(t, 111.19, km, 0.5)
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(6.5244, 3.3792)
		b, _ := kernel.NewGeoPoint(6.6018, 3.3515)

		ab, err := a.DistanceKm(b)
		require.NoError(t, err)
		ba, err := b.DistanceKm(a)
		require.NoError(t, err)

		assert.InDelta(t, ab, ba, 1e-9)
	})

	t.Run("fails for unconstructed point", func(t *testing.T) {
		point, _ := kernel.NewGeoPoint(6.5, 3.3)
		var zero kernel.GeoPoint

		_, err := point.DistanceKm(zero)

		require.Error(t, err)
	})
}

func TestGeoPoint_IsEqual(t *testing.T) {
	a, _ := kernel.NewGeoPoint(6.5, 3.3)
	b, _ := kernel.NewGeoPoint(6.5, 3.3)
	c, _ := kernel.NewGeoPoint(6.6, 3.3)

	equal, err := a.IsEqual(b)
	require.NoError(t, err)
	assert.True(t, equal)

	equal, err = a.IsEqual(c)
	require.NoError(t, err)
	assert.False(t, equal)
}
