package kernel

import (
	"errors"
	"fmt"
	"math"

	"fastdispatch/internal/pkg/errs"
)

// Valid bounds for geographic coordinates in decimal degrees.
const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly
// initialized GeoPoint. Points must be created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a geographic coordinate in decimal degrees.
// It is an immutable value object; the zero value is invalid and will fail
// validation, so instances must be created through NewGeoPoint.
//
// GeoPoint is the unit of position for order delivery points, courier
// locations, and tracking records. Distances between points are great-circle
// (haversine) distances in kilometers.
//
// Example:
//
//	point, err := kernel.NewGeoPoint(6.5, 3.3)
//	if err != nil {
//	    // handle validation error
//	}
//	fmt.Println(point) // GeoPoint(6.500000,3.300000)
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude      float64
	longitude     float64
	isConstructed bool
}

// NewGeoPoint creates a GeoPoint with the given coordinates.
// Latitude must be within [-90, 90] and longitude within [-180, 180];
// violations are reported as out-of-range validation errors, joined when
// both coordinates are invalid.
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	point := GeoPoint{isConstructed: true}

	if err := errors.Join(point.setLatitude(latitude), point.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks that the point was created through NewGeoPoint.
// The zero value fails with ErrGeoPointIsNotConstructed.
func (p GeoPoint) Validate() error {
	if !p.isConstructed {
		return ErrGeoPointIsNotConstructed
	}
	return nil
}

// Latitude returns the latitude in decimal degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in decimal degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// String implements fmt.Stringer for logging and debugging.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%f,%f)", p.latitude, p.longitude)
}

// IsEqual compares two points for coordinate equality.
// Both points must be properly constructed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.latitude == other.latitude && p.longitude == other.longitude, nil
}

// DistanceKm calculates the great-circle (haversine) distance to another
// point in kilometers. Both points must be properly constructed.
//
// Example:
//
//	lagos, _ := kernel.NewGeoPoint(6.5244, 3.3792)
//	ikeja, _ := kernel.NewGeoPoint(6.6018, 3.3515)
//	km, _ := lagos.DistanceKm(ikeja) // ≈ 9.1
func (p GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := p.latitude * math.Pi / 180
	lat2 := other.latitude * math.Pi / 180
	dLat := (other.latitude - p.latitude) * math.Pi / 180
	dLon := (other.longitude - p.longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c, nil
}

// setLatitude sets the latitude with bounds validation.
// Pointer receiver enables self-encapsulated validation during construction.
func (p *GeoPoint) setLatitude(latitude float64) error {
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}

	p.latitude = latitude
	return nil
}

// setLongitude sets the longitude with bounds validation.
func (p *GeoPoint) setLongitude(longitude float64) error {
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	p.longitude = longitude
	return nil
}
