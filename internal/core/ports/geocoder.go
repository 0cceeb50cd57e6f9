package ports

import (
	"context"

	"fastdispatch/internal/core/domain/model/kernel"
)

// Geocoder resolves a street address to coordinates. A failure here is never
// fatal to order submission; callers record the order without coordinates and
// retry geocoding later.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (kernel.GeoPoint, error)
}
