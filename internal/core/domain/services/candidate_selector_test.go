package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roadside/internal/core/domain/model/job"
	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/core/domain/model/provider"
	"roadside/internal/core/domain/services"
)

type mockProviderFinder struct {
	mock.Mock
}

func (m *mockProviderFinder) FindNearby(
	ctx context.Context, query provider.NearbyQuery,
) ([]provider.Candidate, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.Candidate), args.Error(1)
}

type mockWorkloadReader struct {
	mock.Mock
}

func (m *mockWorkloadReader) ActiveSnapshots(
	ctx context.Context, providerIDs []kernel.UUID,
) (map[kernel.UUID]job.ActiveSnapshot, error) {
	args := m.Called(ctx, providerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]job.ActiveSnapshot), args.Error(1)
}

func towJob(t *testing.T, pickup *kernel.GeoPoint, reqs job.Requirements) *job.Job {
	t.Helper()
	j, err := job.NewJob(kernel.NewUUID(), kernel.NewUUID(), kernel.RoleTowTruck,
		pickup, nil, job.Details{}, reqs, job.ZeroPricing())
	require.NoError(t, err)
	return j
}

func candidateFor(t *testing.T, distanceMeters float64) provider.Candidate {
	t.Helper()
	loc := geoPoint(t, 69.24, 41.3)
	return provider.Candidate{
		Provider:       approvedProvider(t, kernel.RoleTowTruck, &loc),
		DistanceMeters: distanceMeters,
	}
}

func TestSelectForJobRequiresCoordinates(t *testing.T) {
	finder := &mockProviderFinder{}
	workloads := &mockWorkloadReader{}
	selector, err := services.NewCandidateSelector(finder, workloads)
	require.NoError(t, err)

	_, err = selector.SelectForJob(context.Background(), towJob(t, nil, job.Requirements{}), 10)
	assert.ErrorIs(t, err, services.ErrNoCoordinates)

	origin := geoPoint(t, 0, 0)
	_, err = selector.SelectForJob(context.Background(), towJob(t, &origin, job.Requirements{}), 10)
	assert.ErrorIs(t, err, services.ErrNoCoordinates)

	finder.AssertNotCalled(t, "FindNearby")
}

func TestSelectForJobOversamplesAndTruncates(t *testing.T) {
	pickup := geoPoint(t, 69.24, 41.3)
	j := towJob(t, &pickup, job.Requirements{})

	candidates := make([]provider.Candidate, 0, 5)
	for i := range 5 {
		candidates = append(candidates, candidateFor(t, float64(100*(i+1))))
	}
	busy := candidates[1].Provider.ID()

	finder := &mockProviderFinder{}
	finder.On("FindNearby", mock.Anything, mock.MatchedBy(func(q provider.NearbyQuery) bool {
		return q.Limit() == 30 &&
			q.RadiusMeters() == services.SearchRadiusMeters &&
			q.Role() == kernel.RoleTowTruck
	})).Return(candidates, nil)

	workloads := &mockWorkloadReader{}
	workloads.On("ActiveSnapshots", mock.Anything, mock.MatchedBy(func(ids []kernel.UUID) bool {
		return len(ids) == 5
	})).Return(map[kernel.UUID]job.ActiveSnapshot{
		busy: {AssignedCount: 2},
	}, nil)

	selector, err := services.NewCandidateSelector(finder, workloads)
	require.NoError(t, err)

	selected, err := selector.SelectForJob(context.Background(), j, 3)
	require.NoError(t, err)

	// The busy provider is dropped and the rest truncated to the limit,
	// keeping the nearest-first order.
	require.Len(t, selected, 3)
	assert.True(t, selected[0].Provider.IsEqual(candidates[0].Provider))
	assert.True(t, selected[1].Provider.IsEqual(candidates[2].Provider))
	assert.True(t, selected[2].Provider.IsEqual(candidates[3].Provider))

	finder.AssertExpectations(t)
	workloads.AssertExpectations(t)
}

func TestSelectForJobDefaultLimit(t *testing.T) {
	pickup := geoPoint(t, 69.24, 41.3)
	j := towJob(t, &pickup, job.Requirements{})

	finder := &mockProviderFinder{}
	finder.On("FindNearby", mock.Anything, mock.MatchedBy(func(q provider.NearbyQuery) bool {
		// max(3 x 10, 30)
		return q.Limit() == 30
	})).Return([]provider.Candidate{}, nil)

	selector, err := services.NewCandidateSelector(finder, &mockWorkloadReader{})
	require.NoError(t, err)

	selected, err := selector.SelectForJob(context.Background(), j, 0)
	require.NoError(t, err)
	assert.Empty(t, selected)
	finder.AssertExpectations(t)
}

func TestSelectForJobLargeLimitOversample(t *testing.T) {
	pickup := geoPoint(t, 69.24, 41.3)
	j := towJob(t, &pickup, job.Requirements{})

	finder := &mockProviderFinder{}
	finder.On("FindNearby", mock.Anything, mock.MatchedBy(func(q provider.NearbyQuery) bool {
		return q.Limit() == 60
	})).Return([]provider.Candidate{}, nil)

	selector, err := services.NewCandidateSelector(finder, &mockWorkloadReader{})
	require.NoError(t, err)

	_, err = selector.SelectForJob(context.Background(), j, 20)
	require.NoError(t, err)
	finder.AssertExpectations(t)
}

func TestSelectForJobNormalizesJunkTags(t *testing.T) {
	pickup := geoPoint(t, 69.24, 41.3)
	j := towJob(t, &pickup, job.Requirements{
		TowTruckType: "null",
		VehicleType:  "Undefined",
	})

	finder := &mockProviderFinder{}
	finder.On("FindNearby", mock.Anything, mock.MatchedBy(func(q provider.NearbyQuery) bool {
		return q.TowTruckType() == "" && q.VehicleType() == ""
	})).Return([]provider.Candidate{}, nil)

	selector, err := services.NewCandidateSelector(finder, &mockWorkloadReader{})
	require.NoError(t, err)

	_, err = selector.SelectForJob(context.Background(), j, 10)
	require.NoError(t, err)
	finder.AssertExpectations(t)
}

func TestSelectForJobPassesExcludedProviders(t *testing.T) {
	pickup := geoPoint(t, 69.24, 41.3)
	j := towJob(t, &pickup, job.Requirements{})
	declined := kernel.NewUUID()
	require.NoError(t, j.Decline(declined))

	finder := &mockProviderFinder{}
	finder.On("FindNearby", mock.Anything, mock.MatchedBy(func(q provider.NearbyQuery) bool {
		return len(q.ExcludedIDs()) == 1 && q.ExcludedIDs()[0].IsEqual(declined)
	})).Return([]provider.Candidate{}, nil)

	selector, err := services.NewCandidateSelector(finder, &mockWorkloadReader{})
	require.NoError(t, err)

	_, err = selector.SelectForJob(context.Background(), j, 10)
	require.NoError(t, err)
	finder.AssertExpectations(t)
}

func TestSelectForJobSkipsWorkloadLookupWhenNobodyNearby(t *testing.T) {
	pickup := geoPoint(t, 69.24, 41.3)
	j := towJob(t, &pickup, job.Requirements{})

	finder := &mockProviderFinder{}
	finder.On("FindNearby", mock.Anything, mock.Anything).Return([]provider.Candidate{}, nil)
	workloads := &mockWorkloadReader{}

	selector, err := services.NewCandidateSelector(finder, workloads)
	require.NoError(t, err)

	selected, err := selector.SelectForJob(context.Background(), j, 10)
	require.NoError(t, err)
	assert.Empty(t, selected)
	workloads.AssertNotCalled(t, "ActiveSnapshots")
}

func TestSelectForJobPropagatesErrors(t *testing.T) {
	pickup := geoPoint(t, 69.24, 41.3)
	searchErr := errors.New("search unavailable")

	finder := &mockProviderFinder{}
	finder.On("FindNearby", mock.Anything, mock.Anything).Return(nil, searchErr)

	selector, err := services.NewCandidateSelector(finder, &mockWorkloadReader{})
	require.NoError(t, err)

	_, err = selector.SelectForJob(context.Background(), towJob(t, &pickup, job.Requirements{}), 10)
	assert.ErrorIs(t, err, searchErr)
}

func TestNewCandidateSelectorValidations(t *testing.T) {
	_, err := services.NewCandidateSelector(nil, &mockWorkloadReader{})
	assert.Error(t, err)

	_, err = services.NewCandidateSelector(&mockProviderFinder{}, nil)
	assert.Error(t, err)
}

// Guards against the selection pipeline silently reusing stale broadcast
// state: a reopened job keeps its ledger but gets fresh candidates.
func TestSelectForJobAfterReopen(t *testing.T) {
	pickup := geoPoint(t, 69.24, 41.3)
	j := towJob(t, &pickup, job.Requirements{})
	first := candidateFor(t, 100)

	require.NoError(t, j.Broadcast([]kernel.UUID{first.Provider.ID()}, time.Now()))
	require.NoError(t, j.Decline(first.Provider.ID()))
	require.NoError(t, j.Reopen())

	finder := &mockProviderFinder{}
	finder.On("FindNearby", mock.Anything, mock.MatchedBy(func(q provider.NearbyQuery) bool {
		return len(q.ExcludedIDs()) == 1
	})).Return([]provider.Candidate{}, nil)

	selector, err := services.NewCandidateSelector(finder, &mockWorkloadReader{})
	require.NoError(t, err)

	_, err = selector.SelectForJob(context.Background(), j, 10)
	require.NoError(t, err)
	finder.AssertExpectations(t)
}
