// Package providerrepo provides data transfer objects and mapping functions
// for provider persistence, including the haversine-based geo candidate
// search the dispatch engine runs.
package providerrepo

import (
	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/core/domain/model/provider"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProviderDTO represents the database structure for persisting provider
// aggregates. Capability tags live in text[] columns so the candidate search
// can match them with array predicates.
type ProviderDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string
	Role         string `gorm:"index"`
	Verification int    `gorm:"index"`
	Online       bool   `gorm:"index"`

	LocationLongitude *float64
	LocationLatitude  *float64

	TowTruckTypes pq.StringArray `gorm:"type:text[]"`
	VehicleTypes  pq.StringArray `gorm:"type:text[]"`
	Categories    pq.StringArray `gorm:"type:text[]"`

	PushToken *string
}

// TableName specifies the database table name for provider entities.
func (ProviderDTO) TableName() string {
	return "providers"
}

// fromDomain converts a provider aggregate to its database representation.
func fromDomain(aggregate *provider.Provider) ProviderDTO {
	capabilities := aggregate.Capabilities()

	dto := ProviderDTO{
		ID:           aggregate.ID().Bytes(),
		Name:         aggregate.Name(),
		Role:         aggregate.Role().String(),
		Verification: int(aggregate.Verification()),
		Online:       aggregate.IsOnline(),

		TowTruckTypes: pq.StringArray(capabilities.TowTruckTypes),
		VehicleTypes:  pq.StringArray(capabilities.VehicleTypes),
		Categories:    pq.StringArray(capabilities.Categories),

		PushToken: aggregate.PushToken(),
	}

	if location := aggregate.Location(); location != nil {
		lon, lat := location.Longitude(), location.Latitude()
		dto.LocationLongitude, dto.LocationLatitude = &lon, &lat
	}

	return dto
}

// toDomain converts a database DTO to a provider aggregate via
// RestoreProvider.
func toDomain(dto ProviderDTO) (*provider.Provider, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	role, err := kernel.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.LocationLongitude != nil && dto.LocationLatitude != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.LocationLongitude, *dto.LocationLatitude)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	return provider.RestoreProvider(
		id,
		dto.Name,
		role,
		provider.VerificationStatus(dto.Verification),
		dto.Online,
		location,
		provider.Capabilities{
			TowTruckTypes: dto.TowTruckTypes,
			VehicleTypes:  dto.VehicleTypes,
			Categories:    dto.Categories,
		},
		dto.PushToken,
	)
}
