package job

import "roadside/internal/core/domain/model/kernel"

// ActiveSnapshot is the derived workload view of a single provider at
// selection time: how many jobs are currently assigned to them, how many are
// in progress, and, when exactly one job is in progress, that job's dropoff
// point.
//
// Snapshots are recomputed fresh on every dispatch call and never cached
// across calls: acceptance state changes externally at high frequency, and a
// stale snapshot would let an overloaded provider receive excess work.
type ActiveSnapshot struct {
	// AssignedCount is the number of jobs in Assigned status held by the
	// provider.
	AssignedCount int

	// InProgressCount is the number of jobs in InProgress status held by the
	// provider.
	InProgressCount int

	// InProgressDropoff is the dropoff point of the provider's in-progress
	// job. It is set only when InProgressCount is exactly 1 and that job
	// carries a dropoff; otherwise nil.
	InProgressDropoff *kernel.GeoPoint
}

// TotalActive is the provider's combined active workload.
func (s ActiveSnapshot) TotalActive() int {
	return s.AssignedCount + s.InProgressCount
}
