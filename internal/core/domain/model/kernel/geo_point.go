package kernel

import (
	"errors"
	"fmt"
	"math"

	"roadside/internal/pkg/errs"
	"roadside/internal/pkg/guard"
)

const (
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax = 180.0
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax = 90.0

	// EarthRadiusKm is the mean Earth radius used for great-circle distances.
	EarthRadiusKm = 6371.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an
// improperly initialized GeoPoint. GeoPoints must be created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint is an immutable WGS84 coordinate pair (longitude, latitude) in
// decimal degrees. It is the position value object used for job pickup and
// dropoff locations and for provider positions.
//
// Mobile clients that have no fix yet report the exact origin (0,0); domain
// rules that need a trustworthy position must check IsOrigin in addition to
// Validate.
//
// Example:
//
//	p, err := kernel.NewGeoPoint(69.2401, 41.2995)
//	if err != nil {
//	    // handle validation error
//	}
//	fmt.Println(p) // GeoPoint(69.2401,41.2995)
type GeoPoint struct { //nolint:recvcheck //using for validation
	longitude float64
	latitude  float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint from longitude and latitude in decimal
// degrees. Longitude must be within [-180, 180] and latitude within
// [-90, 90]; violations are reported as aggregated range errors.
func NewGeoPoint(longitude, latitude float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLongitude(longitude), p.setLatitude(latitude)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate checks that the GeoPoint was created via NewGeoPoint. The zero
// value fails validation.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Longitude returns the longitude in decimal degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// Latitude returns the latitude in decimal degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// IsOrigin reports whether the point is exactly (0,0), the sentinel mobile
// clients send before they have a location fix. An origin point is
// structurally valid but must not be trusted as a real position.
func (p GeoPoint) IsOrigin() bool {
	return p.longitude == 0 && p.latitude == 0
}

// String implements fmt.Stringer, formatting as "GeoPoint(lon,lat)".
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%g,%g)", p.longitude, p.latitude)
}

// IsEqual compares two points for exact coordinate equality. Both points must
// be properly constructed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}
	return p.longitude == other.longitude && p.latitude == other.latitude, nil
}

// DistanceTo calculates the great-circle distance to another point in
// kilometers using the haversine formula with the mean Earth radius
// (6371 km). The result is rounded to two decimal places, which is the
// precision the dispatch proximity rules are defined at.
//
// Example:
//
//	a, _ := kernel.NewGeoPoint(0, 0)
//	b, _ := kernel.NewGeoPoint(1, 0)
//	d, _ := a.DistanceTo(b) // ≈ 111.19 km
func (p GeoPoint) DistanceTo(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := degreesToRadians(p.latitude)
	lat2 := degreesToRadians(other.latitude)
	dLat := degreesToRadians(other.latitude - p.latitude)
	dLon := degreesToRadians(other.longitude - p.longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(EarthRadiusKm*c*100) / 100, nil
}

// setLongitude sets the longitude with range validation.
// Note: pointer receiver on a value object is intentional here; the private
// setters exist so the constructor can self-encapsulate validation.
func (p *GeoPoint) setLongitude(longitude float64) error {
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}
	p.longitude = longitude
	return nil
}

// setLatitude sets the latitude with range validation.
func (p *GeoPoint) setLatitude(latitude float64) error {
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}
	p.latitude = latitude
	return nil
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
