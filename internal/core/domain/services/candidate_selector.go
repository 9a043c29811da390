package services

import (
	"context"
	"errors"
	"strings"

	"roadside/internal/core/domain/model/job"
	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/core/domain/model/provider"
)

const (
	// SearchRadiusMeters is the dispatch search radius around the pickup point.
	SearchRadiusMeters = 20000.0

	// DefaultCandidateLimit is the candidate count used when the caller does
	// not specify one.
	DefaultCandidateLimit = 10

	// minOversample is the floor of the pre-filter fetch size. Fetching extra
	// rows keeps a full candidate set after the workload filter drops busy
	// providers.
	minOversample = 30

	// oversampleFactor multiplies the requested limit for the pre-filter fetch.
	oversampleFactor = 3
)

// ErrNoCoordinates is returned when a job cannot be dispatched because its
// pickup point is missing or is the untrusted (0,0) origin sentinel.
var ErrNoCoordinates = errors.New("job has no pickup coordinates")

// ProviderFinder is the geo search the selector runs against provider storage.
type ProviderFinder interface {
	FindNearby(ctx context.Context, query provider.NearbyQuery) ([]provider.Candidate, error)
}

// WorkloadReader supplies the per-provider active-job snapshots the
// eligibility filter decides on.
type WorkloadReader interface {
	ActiveSnapshots(ctx context.Context, providerIDs []kernel.UUID) (map[kernel.UUID]job.ActiveSnapshot, error)
}

// CandidateSelector is a domain service that produces the final candidate set
// for a job broadcast: a geo search around the pickup oversampled beyond the
// requested limit, a workload eligibility pass over the results, and a
// truncation to the limit.
//
// The returned candidates are ordered nearest first.
type CandidateSelector struct {
	providers ProviderFinder
	workloads WorkloadReader
	filter    EligibilityFilter
}

// NewCandidateSelector creates a CandidateSelector backed by the given
// provider search and workload reader.
func NewCandidateSelector(providers ProviderFinder, workloads WorkloadReader) (CandidateSelector, error) {
	if providers == nil {
		return CandidateSelector{}, errors.New("providers finder is required")
	}
	if workloads == nil {
		return CandidateSelector{}, errors.New("workload reader is required")
	}

	return CandidateSelector{
		providers: providers,
		workloads: workloads,
		filter:    NewEligibilityFilter(),
	}, nil
}

// SelectForJob returns up to limit eligible candidates for the job, nearest
// first. A non-positive limit falls back to DefaultCandidateLimit. Providers
// already in the job's excluded set never appear.
//
// Returns ErrNoCoordinates when the job's pickup point is absent or the
// origin sentinel.
func (s CandidateSelector) SelectForJob(
	ctx context.Context,
	j *job.Job,
	limit int,
) ([]provider.Candidate, error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}

	pickup := j.Pickup()
	if pickup == nil || pickup.IsOrigin() {
		return nil, ErrNoCoordinates
	}

	if limit <= 0 {
		limit = DefaultCandidateLimit
	}

	query, err := s.buildQuery(j, *pickup, limit)
	if err != nil {
		return nil, err
	}

	candidates, err := s.providers.FindNearby(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	providerIDs := make([]kernel.UUID, 0, len(candidates))
	for _, c := range candidates {
		providerIDs = append(providerIDs, c.Provider.ID())
	}

	snapshots, err := s.workloads.ActiveSnapshots(ctx, providerIDs)
	if err != nil {
		return nil, err
	}

	eligible, err := s.filter.Filter(candidates, snapshots)
	if err != nil {
		return nil, err
	}

	if len(eligible) > limit {
		eligible = eligible[:limit]
	}
	return eligible, nil
}

func (s CandidateSelector) buildQuery(
	j *job.Job,
	pickup kernel.GeoPoint,
	limit int,
) (provider.NearbyQuery, error) {
	oversample := limit * oversampleFactor
	if oversample < minOversample {
		oversample = minOversample
	}

	reqs := j.Requirements()
	return provider.NewNearbyQuery(
		pickup,
		SearchRadiusMeters,
		j.Role(),
		normalizeTag(reqs.TowTruckType),
		normalizeTag(reqs.VehicleType),
		normalizeTag(reqs.Category),
		j.ExcludedProviders(),
		oversample,
	)
}

// normalizeTag maps the junk tag literals mobile clients serialize for unset
// values ("null", "undefined") to the empty no-requirement tag.
func normalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if strings.EqualFold(tag, "null") || strings.EqualFold(tag, "undefined") {
		return ""
	}
	return tag
}
