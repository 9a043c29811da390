package queries

import (
	"context"

	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/core/domain/model/provider"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOnlineProvidersQueryHandler reads the online fleet straight from the
// providers table.
type GetOnlineProvidersQueryHandler struct {
	db *gorm.DB
}

// NewGetOnlineProvidersQueryHandler creates a handler for online-fleet
// queries.
func NewGetOnlineProvidersQueryHandler(db *gorm.DB) GetOnlineProvidersQueryHandler {
	return GetOnlineProvidersQueryHandler{db: db}
}

// Handle returns every approved, online provider sorted by name.
func (h GetOnlineProvidersQueryHandler) Handle(
	ctx context.Context,
	query GetOnlineProvidersQuery,
) ([]GetOnlineProvidersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	providers := make([]GetOnlineProvidersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			role,
			location_longitude,
			location_latitude,
			push_token IS NOT NULL
		FROM providers
		WHERE online AND verification = ?
		ORDER BY name, id
	`, provider.VerificationApproved).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        uuid.UUID
			name      string
			role      string
			lon, lat  *float64
			reachable bool
		)

		if err = rows.Scan(&id, &name, &role, &lon, &lat, &reachable); err != nil {
			return nil, err
		}

		providerID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		resp := GetOnlineProvidersQueryResponse{
			ID:        providerID,
			Name:      name,
			Role:      kernel.Role(role),
			Reachable: reachable,
		}

		if lon != nil && lat != nil {
			location, locErr := kernel.NewGeoPoint(*lon, *lat)
			if locErr != nil {
				return nil, locErr
			}
			resp.Location = &location
		}

		providers = append(providers, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return providers, nil
}
