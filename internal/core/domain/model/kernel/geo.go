package kernel

import (
	"errors"
	"fmt"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

const (
	// GeoMinLatitude is the minimum valid latitude in degrees.
	GeoMinLatitude = -90.0
	// GeoMaxLatitude is the maximum valid latitude in degrees.
	GeoMaxLatitude = 90.0
	// GeoMinLongitude is the minimum valid longitude in degrees.
	GeoMinLongitude = -180.0
	// GeoMaxLongitude is the maximum valid longitude in degrees.
	GeoMaxLongitude = 180.0
)

var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via the NewGeoPoint constructor")

// GeoPoint is a value object representing a geographic coordinate pair.
// Courier clients report their position as GeoPoints; the live-tracking
// fan-out forwards them to order subscribers.
//
// GeoPoint follows these invariants:
//   - Latitude is within [-90, 90] degrees
//   - Longitude is within [-180, 180] degrees
//   - Can only be created through the NewGeoPoint constructor
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a validated GeoPoint from latitude and longitude in
// degrees. Returns a validation error when either coordinate is out of range.
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(point.setLat(lat), point.setLon(lon)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate ensures the GeoPoint was created through NewGeoPoint.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lon returns the longitude in degrees.
func (p GeoPoint) Lon() float64 {
	return p.lon
}

// String implements fmt.Stringer.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%f,%f)", p.lat, p.lon)
}

// IsEqual compares two GeoPoints by coordinates. Both points must be
// properly constructed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}
	return p.lat == other.lat && p.lon == other.lon, nil
}

func (p *GeoPoint) setLat(lat float64) error {
	if lat < GeoMinLatitude || lat > GeoMaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", lat, GeoMinLatitude, GeoMaxLatitude)
	}
	p.lat = lat
	return nil
}

func (p *GeoPoint) setLon(lon float64) error {
	if lon < GeoMinLongitude || lon > GeoMaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", lon, GeoMinLongitude, GeoMaxLongitude)
	}
	p.lon = lon
	return nil
}
