package provider

import (
	"errors"
	"fmt"
	"math"

	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/pkg/errs"
	"roadside/internal/pkg/guard"
)

// Domain errors for nearby queries.
var (
	// ErrNearbyQueryIsNotConstructed is returned when using an improperly
	// initialized NearbyQuery.
	ErrNearbyQueryIsNotConstructed = errors.New(
		"NearbyQuery must be created via NewNearbyQuery constructor")
)

// NearbyQuery describes a geo candidate search: find online, approved
// providers of a role within a radius of an origin point, matching the job's
// requirement tags, excluding a given set, ordered nearest first.
//
// An empty tag field matches every provider. A set tow-truck-type or
// category tag requires the provider's corresponding capability set to
// contain it; a set vehicle-type tag also matches providers whose
// vehicle-type set is empty, which reads as "carries everything".
type NearbyQuery struct {
	origin       kernel.GeoPoint
	radiusMeters float64
	role         kernel.Role
	towTruckType string
	vehicleType  string
	category     string
	excludedIDs  []kernel.UUID
	limit        int

	guard guard.ConstructorGuard
}

// NewNearbyQuery creates a candidate search. The origin must be a real
// position, the radius positive and the limit at least 1.
func NewNearbyQuery(
	origin kernel.GeoPoint,
	radiusMeters float64,
	role kernel.Role,
	towTruckType string,
	vehicleType string,
	category string,
	excludedIDs []kernel.UUID,
	limit int,
) (NearbyQuery, error) {
	q := NearbyQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setOrigin(origin),
		q.setRadius(radiusMeters),
		q.setRole(role),
		q.setExcludedIDs(excludedIDs),
		q.setLimit(limit),
	); err != nil {
		return NearbyQuery{}, err
	}

	q.towTruckType = towTruckType
	q.vehicleType = vehicleType
	q.category = category
	return q, nil
}

// Validate checks the query was created via NewNearbyQuery.
func (q NearbyQuery) Validate() error {
	return q.guard.Validate(ErrNearbyQueryIsNotConstructed)
}

// Origin returns the search center.
func (q NearbyQuery) Origin() kernel.GeoPoint { return q.origin }

// RadiusMeters returns the search radius in meters.
func (q NearbyQuery) RadiusMeters() float64 { return q.radiusMeters }

// Role returns the required provider role.
func (q NearbyQuery) Role() kernel.Role { return q.role }

// TowTruckType returns the required tow-truck type tag, or "".
func (q NearbyQuery) TowTruckType() string { return q.towTruckType }

// VehicleType returns the required vehicle type tag, or "".
func (q NearbyQuery) VehicleType() string { return q.vehicleType }

// Category returns the required repair category tag, or "".
func (q NearbyQuery) Category() string { return q.category }

// ExcludedIDs returns the providers to exclude from the result.
func (q NearbyQuery) ExcludedIDs() []kernel.UUID { return q.excludedIDs }

// Limit returns the maximum number of candidates to return.
func (q NearbyQuery) Limit() int { return q.limit }

func (q *NearbyQuery) setOrigin(origin kernel.GeoPoint) error {
	if err := origin.Validate(); err != nil {
		return err
	}
	q.origin = origin
	return nil
}

func (q *NearbyQuery) setRadius(radiusMeters float64) error {
	if radiusMeters <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("radius",
			fmt.Errorf("%g meters is not a positive radius", radiusMeters))
	}
	q.radiusMeters = radiusMeters
	return nil
}

func (q *NearbyQuery) setRole(role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	q.role = role
	return nil
}

func (q *NearbyQuery) setExcludedIDs(ids []kernel.UUID) error {
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	q.excludedIDs = ids
	return nil
}

func (q *NearbyQuery) setLimit(limit int) error {
	if limit < 1 {
		return errs.NewValueIsInvalidErrorWithCause("limit",
			fmt.Errorf("%d is not a positive limit", limit))
	}
	q.limit = limit
	return nil
}

// Candidate is a provider returned by a nearby search together with their
// great-circle distance from the search origin.
type Candidate struct {
	Provider       *Provider
	DistanceMeters float64
}

// DistanceKm returns the candidate's distance in kilometers rounded to two
// decimal places, the precision shown in dispatch notifications.
func (c Candidate) DistanceKm() float64 {
	return math.Round(c.DistanceMeters/10) / 100
}
