package services

import (
	"roadside/internal/core/domain/model/job"
	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/core/domain/model/provider"
)

// ProximityThresholdKm is the maximum distance, inclusive, between a busy
// tow-truck provider and the dropoff of their in-progress job for the
// provider to still receive new offers. A driver already heading somewhere
// can reasonably pick up a nearby follow-up job; one far from finishing
// cannot.
const ProximityThresholdKm = 3.0

// EligibilityFilter is a domain service that removes overloaded providers
// from a candidate list based on their current workload.
//
// Rules, in precedence order per candidate:
//   - two or more active jobs (assigned plus in-progress): excluded
//   - at least one assigned job and none in progress: excluded, the provider
//     has committed work they have not started yet
//   - exactly one job in progress: mechanics are excluded outright; tow-truck
//     providers stay eligible only when their current position is a real fix
//     and lies within ProximityThresholdKm of that job's dropoff
//   - no active jobs: eligible
//
// The filter preserves the input order, so a distance-sorted candidate list
// stays distance-sorted.
type EligibilityFilter struct{}

// NewEligibilityFilter creates a new EligibilityFilter instance.
func NewEligibilityFilter() EligibilityFilter {
	return EligibilityFilter{}
}

// Filter returns the eligible subset of candidates in their original order.
// Candidates missing from the snapshots map are treated as having no active
// work.
func (f EligibilityFilter) Filter(
	candidates []provider.Candidate,
	snapshots map[kernel.UUID]job.ActiveSnapshot,
) ([]provider.Candidate, error) {
	eligible := make([]provider.Candidate, 0, len(candidates))

	for _, candidate := range candidates {
		if err := candidate.Provider.Validate(); err != nil {
			return nil, err
		}

		ok, err := f.isEligible(candidate.Provider, snapshots[candidate.Provider.ID()])
		if err != nil {
			return nil, err
		}
		if ok {
			eligible = append(eligible, candidate)
		}
	}

	return eligible, nil
}

func (f EligibilityFilter) isEligible(p *provider.Provider, snapshot job.ActiveSnapshot) (bool, error) {
	if snapshot.TotalActive() >= 2 {
		return false, nil
	}

	if snapshot.AssignedCount >= 1 && snapshot.InProgressCount == 0 {
		return false, nil
	}

	if snapshot.InProgressCount >= 1 {
		return f.isEligibleWhileBusy(p, snapshot)
	}

	return true, nil
}

// isEligibleWhileBusy decides whether a provider with an in-progress job may
// still receive offers.
func (f EligibilityFilter) isEligibleWhileBusy(
	p *provider.Provider,
	snapshot job.ActiveSnapshot,
) (bool, error) {
	if p.Role() == kernel.RoleMechanic {
		return false, nil
	}

	if !p.HasValidLocation() || snapshot.InProgressDropoff == nil {
		return false, nil
	}

	distanceKm, err := p.Location().DistanceTo(*snapshot.InProgressDropoff)
	if err != nil {
		return false, err
	}

	return distanceKm <= ProximityThresholdKm, nil
}
