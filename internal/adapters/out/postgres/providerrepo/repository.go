package providerrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/core/domain/model/provider"
	"roadside/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormProviderRepository implements ports.ProviderRepository using GORM.
type GormProviderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormProviderRepository creates a new GORM provider repository.
func NewGormProviderRepository(db *gorm.DB, tracker aggregateTracker) *GormProviderRepository {
	return &GormProviderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new provider to the database.
func (r *GormProviderRepository) Add(ctx context.Context, aggregate *provider.Provider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing provider to the database. Save writes every
// column so a cleared push token or location persists as NULL.
func (r *GormProviderRepository) Update(ctx context.Context, aggregate *provider.Provider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ProviderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a provider by ID.
func (r *GormProviderRepository) Get(ctx context.Context, id kernel.UUID) (*provider.Provider, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProviderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("provider", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindNearby runs the geo candidate search as a single SQL query. Distance
// is computed with the haversine formula in the database so filtering and
// ordering happen before rows cross the wire.
//
// Selection rules baked into the query:
//   - approved, online providers of the requested role only
//   - providers without a trustworthy position (no location, or the (0,0)
//     origin sentinel) never match
//   - a tow-truck-type or category tag requires the provider to carry that
//     tag; a vehicle-type tag also matches providers with an empty
//     vehicle-type set, which means "carries everything"
func (r *GormProviderRepository) FindNearby(
	ctx context.Context, query provider.NearbyQuery,
) ([]provider.Candidate, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	conditions := []string{
		"online",
		"verification = ?",
		"role = ?",
		"location_longitude IS NOT NULL",
		"location_latitude IS NOT NULL",
		"NOT (location_longitude = 0 AND location_latitude = 0)",
	}
	args := []interface{}{
		kernel.EarthRadiusKm * 1000,
		query.Origin().Latitude(),
		query.Origin().Longitude(),
		query.Origin().Latitude(),
		int(provider.VerificationApproved),
		query.Role().String(),
	}

	if towTruckType := query.TowTruckType(); towTruckType != "" {
		conditions = append(conditions, "? = ANY(tow_truck_types)")
		args = append(args, towTruckType)
	}
	if vehicleType := query.VehicleType(); vehicleType != "" {
		conditions = append(conditions,
			"(vehicle_types IS NULL OR cardinality(vehicle_types) = 0 OR ? = ANY(vehicle_types))")
		args = append(args, vehicleType)
	}
	if category := query.Category(); category != "" {
		conditions = append(conditions, "? = ANY(categories)")
		args = append(args, category)
	}
	if excluded := query.ExcludedIDs(); len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, id := range excluded {
			ids = append(ids, id.String())
		}
		conditions = append(conditions, "NOT (id = ANY(?::uuid[]))")
		args = append(args, pq.Array(ids))
	}

	args = append(args, query.RadiusMeters(), query.Limit())

	sql := fmt.Sprintf(`
		SELECT * FROM (
			SELECT
				id,
				name,
				role,
				verification,
				online,
				location_longitude,
				location_latitude,
				tow_truck_types,
				vehicle_types,
				categories,
				push_token,
				? * acos(least(1.0,
					cos(radians(?)) * cos(radians(location_latitude)) *
					cos(radians(location_longitude) - radians(?)) +
					sin(radians(?)) * sin(radians(location_latitude))
				)) AS distance_m
			FROM providers
			WHERE %s
		) AS nearby
		WHERE distance_m <= ?
		ORDER BY distance_m
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	rows, err := r.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]provider.Candidate, 0)
	for rows.Next() {
		var (
			dto       ProviderDTO
			distanceM float64
		)

		if err = rows.Scan(
			&dto.ID,
			&dto.Name,
			&dto.Role,
			&dto.Verification,
			&dto.Online,
			&dto.LocationLongitude,
			&dto.LocationLatitude,
			&dto.TowTruckTypes,
			&dto.VehicleTypes,
			&dto.Categories,
			&dto.PushToken,
			&distanceM,
		); err != nil {
			return nil, err
		}

		aggregate, domainErr := toDomain(dto)
		if domainErr != nil {
			return nil, domainErr
		}

		candidates = append(candidates, provider.Candidate{
			Provider:       aggregate,
			DistanceMeters: distanceM,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return candidates, nil
}

// ClearPushTokens nulls out the given tokens wherever they appear.
func (r *GormProviderRepository) ClearPushTokens(ctx context.Context, tokens []string) (int64, error) {
	if len(tokens) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Model(&ProviderDTO{}).
		Where("push_token = ANY(?)", pq.Array(tokens)).
		Update("push_token", nil)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
