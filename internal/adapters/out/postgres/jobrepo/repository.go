package jobrepo

import (
	"context"
	"errors"

	"roadside/internal/core/domain/model/job"
	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormJobRepository implements ports.JobRepository using GORM.
type GormJobRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormJobRepository creates a new GORM job repository.
func NewGormJobRepository(db *gorm.DB, tracker aggregateTracker) *GormJobRepository {
	return &GormJobRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new job to the database.
func (r *GormJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
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

// Update saves an existing job to the database. Save writes every column so
// cleared optional fields (assignee, lock time) persist as NULL.
func (r *GormJobRepository) Update(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&JobDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("created_at").
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

// Get retrieves a job by ID.
func (r *GormJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JobDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ClaimForBroadcast atomically moves the job from Created to Broadcasted,
// gated on the booking fee. The conditional update is the whole concurrency
// story: of two racing broadcasts exactly one sees RowsAffected == 1.
func (r *GormJobRepository) ClaimForBroadcast(ctx context.Context, id kernel.UUID) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Model(&JobDTO{}).
		Where("id = ? AND status = ? AND (fee_status = ? OR fee_paid_at IS NOT NULL)",
			id.Bytes(), int(job.StatusCreated), int(job.FeePaid)).
		Update("status", int(job.StatusBroadcasted))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// ActiveSnapshots computes per-provider workload over Assigned and
// InProgress jobs. The in-progress dropoff is reported only when the
// provider has exactly one job in progress and it carries a dropoff.
func (r *GormJobRepository) ActiveSnapshots(
	ctx context.Context, providerIDs []kernel.UUID,
) (map[kernel.UUID]job.ActiveSnapshot, error) {
	snapshots := make(map[kernel.UUID]job.ActiveSnapshot, len(providerIDs))
	if len(providerIDs) == 0 {
		return snapshots, nil
	}

	ids := make([]string, 0, len(providerIDs))
	for _, id := range providerIDs {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		ids = append(ids, id.String())
	}

	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT
			assigned_provider_id,
			status,
			dropoff_longitude,
			dropoff_latitude
		FROM jobs
		WHERE assigned_provider_id = ANY(?::uuid[]) AND status IN (?, ?)
	`, pq.Array(ids), int(job.StatusAssigned), int(job.StatusInProgress)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rawID    string
			status   int
			lon, lat *float64
		)

		if err = rows.Scan(&rawID, &status, &lon, &lat); err != nil {
			return nil, err
		}

		providerID, idErr := kernel.UUIDFromString(rawID)
		if idErr != nil {
			return nil, idErr
		}

		snapshot := snapshots[providerID]
		if job.Status(status) == job.StatusAssigned {
			snapshot.AssignedCount++
		} else {
			snapshot.InProgressCount++
			switch {
			case snapshot.InProgressCount > 1:
				snapshot.InProgressDropoff = nil
			default:
				dropoff, pointErr := pointFromColumns(lon, lat)
				if pointErr != nil {
					return nil, pointErr
				}
				snapshot.InProgressDropoff = dropoff
			}
		}
		snapshots[providerID] = snapshot
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}

// GetFirstPaidInCreatedStatus retrieves the oldest Created job whose booking
// fee is paid.
func (r *GormJobRepository) GetFirstPaidInCreatedStatus(ctx context.Context) (*job.Job, error) {
	var dto JobDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND (fee_status = ? OR fee_paid_at IS NOT NULL)",
			int(job.StatusCreated), int(job.FeePaid)).
		Order("created_at").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("job", "first paid in created status")
		}
		return nil, err
	}

	return toDomain(dto)
}
