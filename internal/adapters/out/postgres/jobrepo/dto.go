// Package jobrepo provides data transfer objects and mapping functions for
// job persistence. It implements the repository pattern for the job
// aggregate, handling the conversion between domain entities and their
// database representation, including the JSONB dispatch ledger and the
// array-typed broadcast lists.
package jobrepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"roadside/internal/core/domain/model/job"
	"roadside/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AttemptDTO is one dispatch-ledger entry as stored in the jobs.attempts
// JSONB column.
type AttemptDTO struct {
	ProviderID  string    `json:"provider_id"`
	AttemptedAt time.Time `json:"attempted_at"`
}

// AttemptsJSON stores the append-only dispatch ledger as a JSONB array.
// A JSONB column keeps the ledger ordered and atomic with the job row,
// where an association table would need its own ordering and dedup care.
type AttemptsJSON []AttemptDTO

// Value implements driver.Valuer.
func (a AttemptsJSON) Value() (driver.Value, error) {
	if a == nil {
		a = AttemptsJSON{}
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *AttemptsJSON) Scan(value interface{}) error {
	if value == nil {
		*a = AttemptsJSON{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported attempts column type %T", value)
	}
}

// JobDTO represents the database structure for persisting job aggregates.
type JobDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;index"`
	Role       string    `gorm:"index"`
	Status     int       `gorm:"index"`
	FeeStatus  int
	FeePaidAt  *time.Time

	BookingFee      float64
	FinalAmount     *float64
	QuotedAmount    *float64
	EstimatedAmount *float64

	PickupLongitude  *float64
	PickupLatitude   *float64
	DropoffLongitude *float64
	DropoffLatitude  *float64

	PickupAddress  string
	DropoffAddress string
	Problem        string

	TowTruckType string
	VehicleType  string
	Category     string

	ExcludedProviders pq.StringArray `gorm:"type:text[]"`
	BroadcastedTo     pq.StringArray `gorm:"type:text[]"`
	Attempts          AttemptsJSON   `gorm:"type:jsonb"`

	AssignedProviderID *uuid.UUID `gorm:"type:uuid;index"`
	LockedAt           *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for job entities.
func (JobDTO) TableName() string {
	return "jobs"
}

// fromDomain converts a job aggregate to its database representation.
func fromDomain(aggregate *job.Job) JobDTO {
	pricing := aggregate.Pricing()
	details := aggregate.Details()
	reqs := aggregate.Requirements()

	dto := JobDTO{
		ID:         aggregate.ID().Bytes(),
		CustomerID: aggregate.CustomerID().Bytes(),
		Role:       aggregate.Role().String(),
		Status:     int(aggregate.Status()),
		FeeStatus:  int(aggregate.FeeStatus()),
		FeePaidAt:  aggregate.FeePaidAt(),

		BookingFee:      pricing.BookingFee(),
		FinalAmount:     pricing.FinalAmount(),
		QuotedAmount:    pricing.QuotedAmount(),
		EstimatedAmount: pricing.EstimatedAmount(),

		PickupAddress:  details.PickupAddress,
		DropoffAddress: details.DropoffAddress,
		Problem:        details.Problem,

		TowTruckType: reqs.TowTruckType,
		VehicleType:  reqs.VehicleType,
		Category:     reqs.Category,

		ExcludedProviders: uuidsToStrings(aggregate.ExcludedProviders()),
		BroadcastedTo:     uuidsToStrings(aggregate.BroadcastedTo()),
		Attempts:          attemptsFromDomain(aggregate.DispatchAttempts()),

		LockedAt: aggregate.LockedAt(),
	}

	if pickup := aggregate.Pickup(); pickup != nil {
		lon, lat := pickup.Longitude(), pickup.Latitude()
		dto.PickupLongitude, dto.PickupLatitude = &lon, &lat
	}
	if dropoff := aggregate.Dropoff(); dropoff != nil {
		lon, lat := dropoff.Longitude(), dropoff.Latitude()
		dto.DropoffLongitude, dto.DropoffLatitude = &lon, &lat
	}
	if assigned := aggregate.AssignedTo(); assigned != nil {
		raw := assigned.Bytes()
		dto.AssignedProviderID = &raw
	}

	return dto
}

// toDomain converts a database DTO to a job aggregate via RestoreJob.
func toDomain(dto JobDTO) (*job.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	role, err := kernel.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	pickup, err := pointFromColumns(dto.PickupLongitude, dto.PickupLatitude)
	if err != nil {
		return nil, err
	}

	dropoff, err := pointFromColumns(dto.DropoffLongitude, dto.DropoffLatitude)
	if err != nil {
		return nil, err
	}

	pricing, err := job.NewPricing(
		dto.FinalAmount, dto.QuotedAmount, dto.EstimatedAmount, dto.BookingFee)
	if err != nil {
		return nil, err
	}

	excluded, err := stringsToUUIDs(dto.ExcludedProviders)
	if err != nil {
		return nil, err
	}

	broadcastedTo, err := stringsToUUIDs(dto.BroadcastedTo)
	if err != nil {
		return nil, err
	}

	attempts, err := attemptsToDomain(dto.Attempts)
	if err != nil {
		return nil, err
	}

	var assignedTo *kernel.UUID
	if dto.AssignedProviderID != nil {
		aID, assignErr := kernel.UUIDFromBytes((*dto.AssignedProviderID)[:])
		if assignErr != nil {
			return nil, assignErr
		}
		assignedTo = &aID
	}

	return job.RestoreJob(
		id,
		customerID,
		role,
		pickup,
		dropoff,
		job.Details{
			PickupAddress:  dto.PickupAddress,
			DropoffAddress: dto.DropoffAddress,
			Problem:        dto.Problem,
		},
		job.Requirements{
			TowTruckType: dto.TowTruckType,
			VehicleType:  dto.VehicleType,
			Category:     dto.Category,
		},
		pricing,
		job.Status(dto.Status),
		job.FeeStatus(dto.FeeStatus),
		dto.FeePaidAt,
		excluded,
		broadcastedTo,
		attempts,
		assignedTo,
		dto.LockedAt,
	)
}

func attemptsFromDomain(attempts []job.DispatchAttempt) AttemptsJSON {
	dtos := make(AttemptsJSON, 0, len(attempts))
	for _, attempt := range attempts {
		dtos = append(dtos, AttemptDTO{
			ProviderID:  attempt.ProviderID().String(),
			AttemptedAt: attempt.AttemptedAt(),
		})
	}
	return dtos
}

func attemptsToDomain(dtos AttemptsJSON) ([]job.DispatchAttempt, error) {
	attempts := make([]job.DispatchAttempt, 0, len(dtos))
	for _, dto := range dtos {
		providerID, err := kernel.UUIDFromString(dto.ProviderID)
		if err != nil {
			return nil, err
		}

		attempt, err := job.NewDispatchAttempt(providerID, dto.AttemptedAt)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	return attempts, nil
}

func uuidsToStrings(ids []kernel.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func stringsToUUIDs(raw pq.StringArray) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := kernel.UUIDFromString(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func pointFromColumns(lon, lat *float64) (*kernel.GeoPoint, error) {
	if lon == nil || lat == nil {
		return nil, nil
	}

	point, err := kernel.NewGeoPoint(*lon, *lat)
	if err != nil {
		return nil, err
	}
	return &point, nil
}
