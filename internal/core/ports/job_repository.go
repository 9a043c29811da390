package ports

import (
	"context"

	"roadside/internal/core/domain/model/job"
	"roadside/internal/core/domain/model/kernel"
)

// JobRepository defines the persistence contract for job aggregates,
// including the conditional state transition the broadcast workflow relies on
// and the workload snapshots the eligibility filter reads.
type JobRepository interface {
	// Add persists a new job aggregate to storage.
	Add(ctx context.Context, aggregate *job.Job) error

	// Update persists changes to an existing job aggregate, including its
	// broadcast lists and dispatch ledger.
	Update(ctx context.Context, aggregate *job.Job) error

	// Get retrieves a job aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such job exists.
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// ClaimForBroadcast atomically transitions the job from Created to
	// Broadcasted, provided the booking fee is paid. Returns true when this
	// caller won the claim and false when a concurrent broadcast got there
	// first or the job is not claimable.
	ClaimForBroadcast(ctx context.Context, id kernel.UUID) (bool, error)

	// ActiveSnapshots computes the current active-job workload for each of
	// the given providers. Providers with no active jobs are absent from the
	// result map.
	ActiveSnapshots(ctx context.Context, providerIDs []kernel.UUID) (map[kernel.UUID]job.ActiveSnapshot, error)

	// GetFirstPaidInCreatedStatus retrieves the oldest Created job whose
	// booking fee is paid. Used by the background sweeper to pick up jobs
	// whose broadcast call was lost.
	GetFirstPaidInCreatedStatus(ctx context.Context) (*job.Job, error)
}
