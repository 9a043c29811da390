package queries

import (
	"context"

	"roadside/internal/core/domain/model/job"
	"roadside/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveJobsQueryHandler reads active jobs straight from the jobs table.
type GetActiveJobsQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveJobsQueryHandler creates a handler for active-job queries.
func NewGetActiveJobsQueryHandler(db *gorm.DB) GetActiveJobsQueryHandler {
	return GetActiveJobsQueryHandler{db: db}
}

// Handle returns every job in Created, Broadcasted, Assigned or InProgress
// status, oldest first.
func (h GetActiveJobsQueryHandler) Handle(
	ctx context.Context,
	query GetActiveJobsQuery,
) ([]GetActiveJobsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	jobs := make([]GetActiveJobsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			role,
			status,
			pickup_longitude,
			pickup_latitude,
			problem,
			jsonb_array_length(coalesce(attempts, '[]'::jsonb))
		FROM jobs
		WHERE status IN (?, ?, ?, ?)
		ORDER BY created_at
	`, job.StatusCreated, job.StatusBroadcasted, job.StatusAssigned, job.StatusInProgress).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id         uuid.UUID
			role       string
			status     int
			lon, lat   *float64
			problem    string
			broadcasts int
		)

		if err = rows.Scan(&id, &role, &status, &lon, &lat, &problem, &broadcasts); err != nil {
			return nil, err
		}

		jobID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		resp := GetActiveJobsQueryResponse{
			ID:             jobID,
			Role:           kernel.Role(role),
			Status:         job.Status(status),
			Problem:        problem,
			BroadcastCount: broadcasts,
		}

		if lon != nil && lat != nil {
			pickup, locErr := kernel.NewGeoPoint(*lon, *lat)
			if locErr != nil {
				return nil, locErr
			}
			resp.Pickup = &pickup
		}

		jobs = append(jobs, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}
