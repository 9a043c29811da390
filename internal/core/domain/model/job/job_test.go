package job_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadside/internal/core/domain/model/job"
	"roadside/internal/core/domain/model/kernel"
)

func mustGeoPoint(t *testing.T, lon, lat float64) *kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lon, lat)
	require.NoError(t, err)
	return &p
}

func newTestJob(t *testing.T) *job.Job {
	t.Helper()
	j, err := job.NewJob(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.RoleTowTruck,
		mustGeoPoint(t, 69.2401, 41.2995),
		mustGeoPoint(t, 69.2797, 41.3111),
		job.Details{
			PickupAddress:  "Amir Temur Avenue 107",
			DropoffAddress: "Yunusabad service center",
			Problem:        "engine will not start",
		},
		job.Requirements{TowTruckType: "flatbed", VehicleType: "sedan"},
		job.ZeroPricing(),
	)
	require.NoError(t, err)
	return j
}

func TestNewJob(t *testing.T) {
	j := newTestJob(t)

	assert.NoError(t, j.Validate())
	assert.Equal(t, job.StatusCreated, j.Status())
	assert.Equal(t, job.FeePending, j.FeeStatus())
	assert.Nil(t, j.FeePaidAt())
	assert.Nil(t, j.AssignedTo())
	assert.Empty(t, j.DispatchAttempts())
	assert.True(t, j.HasPickup())
	assert.False(t, j.IsBookingFeePaid())
}

func TestNewJobValidations(t *testing.T) {
	pickup := mustGeoPoint(t, 69.24, 41.3)

	_, err := job.NewJob(kernel.UUID{}, kernel.NewUUID(), kernel.RoleTowTruck,
		pickup, nil, job.Details{}, job.Requirements{}, job.ZeroPricing())
	assert.Error(t, err)

	_, err = job.NewJob(kernel.NewUUID(), kernel.NewUUID(), kernel.Role("DRONE"),
		pickup, nil, job.Details{}, job.Requirements{}, job.ZeroPricing())
	assert.Error(t, err)

	_, err = job.NewJob(kernel.NewUUID(), kernel.NewUUID(), kernel.RoleTowTruck,
		&kernel.GeoPoint{}, nil, job.Details{}, job.Requirements{}, job.ZeroPricing())
	assert.Error(t, err)

	var zeroPricing job.Pricing
	_, err = job.NewJob(kernel.NewUUID(), kernel.NewUUID(), kernel.RoleTowTruck,
		pickup, nil, job.Details{}, job.Requirements{}, zeroPricing)
	assert.Error(t, err)
}

func TestJobWithoutPickup(t *testing.T) {
	j, err := job.NewJob(kernel.NewUUID(), kernel.NewUUID(), kernel.RoleMechanic,
		nil, nil, job.Details{Problem: "flat battery"},
		job.Requirements{Category: "electrical"}, job.ZeroPricing())
	require.NoError(t, err)
	assert.False(t, j.HasPickup())
}

func TestConfirmBookingFee(t *testing.T) {
	j := newTestJob(t)
	paidAt := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	require.NoError(t, j.ConfirmBookingFee(paidAt))
	assert.Equal(t, job.FeePaid, j.FeeStatus())
	require.NotNil(t, j.FeePaidAt())
	assert.Equal(t, paidAt, *j.FeePaidAt())
	assert.True(t, j.IsBookingFeePaid())

	// A duplicate confirmation is rejected.
	assert.Error(t, j.ConfirmBookingFee(paidAt.Add(time.Minute)))
}

func TestIsBookingFeePaidFromTimestampOnly(t *testing.T) {
	paidAt := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	j, err := job.RestoreJob(
		kernel.NewUUID(), kernel.NewUUID(), kernel.RoleTowTruck,
		mustGeoPoint(t, 69.24, 41.3), nil,
		job.Details{}, job.Requirements{}, job.ZeroPricing(),
		job.StatusCreated, job.FeePending, &paidAt,
		nil, nil, nil, nil, nil,
	)
	require.NoError(t, err)
	assert.True(t, j.IsBookingFeePaid())
}

func TestBroadcastAppendsLedger(t *testing.T) {
	j := newTestJob(t)
	first := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}
	firstAt := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	require.NoError(t, j.Broadcast(first, firstAt))
	assert.Equal(t, job.StatusBroadcasted, j.Status())
	assert.Equal(t, first, j.BroadcastedTo())
	require.Len(t, j.DispatchAttempts(), 2)
	assert.True(t, j.DispatchAttempts()[0].ProviderID().IsEqual(first[0]))
	assert.Equal(t, firstAt, j.DispatchAttempts()[0].AttemptedAt())

	// Second round replaces the broadcast list but only grows the ledger.
	require.NoError(t, j.Reopen())
	second := []kernel.UUID{kernel.NewUUID()}
	secondAt := firstAt.Add(5 * time.Minute)

	require.NoError(t, j.Broadcast(second, secondAt))
	assert.Equal(t, second, j.BroadcastedTo())
	require.Len(t, j.DispatchAttempts(), 3)
	assert.True(t, j.DispatchAttempts()[2].ProviderID().IsEqual(second[0]))
}

func TestBroadcastWithEmptyCandidateSet(t *testing.T) {
	j := newTestJob(t)

	require.NoError(t, j.Broadcast(nil, time.Now()))
	assert.Equal(t, job.StatusBroadcasted, j.Status())
	assert.Empty(t, j.BroadcastedTo())
	assert.Empty(t, j.DispatchAttempts())
}

func TestBroadcastRequiresCreatedStatus(t *testing.T) {
	j := newTestJob(t)
	require.NoError(t, j.Broadcast(nil, time.Now()))

	err := j.Broadcast([]kernel.UUID{kernel.NewUUID()}, time.Now())
	assert.Error(t, err)
	assert.Empty(t, j.DispatchAttempts())
}

func TestAccept(t *testing.T) {
	j := newTestJob(t)
	provider := kernel.NewUUID()
	require.NoError(t, j.Broadcast([]kernel.UUID{provider}, time.Now()))

	acceptedAt := time.Date(2025, 3, 14, 10, 5, 0, 0, time.UTC)
	require.NoError(t, j.Accept(provider, acceptedAt))
	assert.Equal(t, job.StatusAssigned, j.Status())
	require.NotNil(t, j.AssignedTo())
	assert.True(t, j.AssignedTo().IsEqual(provider))
	require.NotNil(t, j.LockedAt())
	assert.Equal(t, acceptedAt, *j.LockedAt())

	// A second acceptance loses the race.
	assert.Error(t, j.Accept(kernel.NewUUID(), acceptedAt))
}

func TestDecline(t *testing.T) {
	j := newTestJob(t)
	provider := kernel.NewUUID()
	require.NoError(t, j.Broadcast([]kernel.UUID{provider}, time.Now()))

	require.NoError(t, j.Decline(provider))
	require.Len(t, j.ExcludedProviders(), 1)
	assert.True(t, j.ExcludedProviders()[0].IsEqual(provider))
	assert.Equal(t, job.StatusBroadcasted, j.Status())

	// Declining twice is idempotent.
	require.NoError(t, j.Decline(provider))
	assert.Len(t, j.ExcludedProviders(), 1)
}

func TestLifecycleChain(t *testing.T) {
	j := newTestJob(t)
	provider := kernel.NewUUID()

	require.NoError(t, j.Broadcast([]kernel.UUID{provider}, time.Now()))
	require.NoError(t, j.Accept(provider, time.Now()))
	require.NoError(t, j.Start())
	assert.Equal(t, job.StatusInProgress, j.Status())
	assert.Error(t, j.Cancel())
	require.NoError(t, j.Complete())
	assert.True(t, j.Status().IsFinal())
}

func TestRestoreJobAssigneeConsistency(t *testing.T) {
	provider := kernel.NewUUID()

	_, err := job.RestoreJob(
		kernel.NewUUID(), kernel.NewUUID(), kernel.RoleTowTruck,
		mustGeoPoint(t, 69.24, 41.3), nil,
		job.Details{}, job.Requirements{}, job.ZeroPricing(),
		job.StatusCreated, job.FeePending, nil,
		nil, nil, nil, &provider, nil,
	)
	assert.Error(t, err, "Created job must not carry an assignee")

	_, err = job.RestoreJob(
		kernel.NewUUID(), kernel.NewUUID(), kernel.RoleTowTruck,
		mustGeoPoint(t, 69.24, 41.3), nil,
		job.Details{}, job.Requirements{}, job.ZeroPricing(),
		job.StatusAssigned, job.FeePaid, nil,
		nil, nil, nil, nil, nil,
	)
	assert.Error(t, err, "Assigned job must carry an assignee")
}

func TestRestoreJobRoundTrip(t *testing.T) {
	provider := kernel.NewUUID()
	lockedAt := time.Date(2025, 3, 14, 11, 0, 0, 0, time.UTC)
	attempt, err := job.NewDispatchAttempt(provider, lockedAt.Add(-time.Minute))
	require.NoError(t, err)

	j, err := job.RestoreJob(
		kernel.NewUUID(), kernel.NewUUID(), kernel.RoleTowTruck,
		mustGeoPoint(t, 69.24, 41.3), mustGeoPoint(t, 69.28, 41.31),
		job.Details{Problem: "out of fuel"},
		job.Requirements{TowTruckType: "flatbed"}, job.ZeroPricing(),
		job.StatusAssigned, job.FeePaid, &lockedAt,
		[]kernel.UUID{kernel.NewUUID()},
		[]kernel.UUID{provider},
		[]job.DispatchAttempt{attempt},
		&provider, &lockedAt,
	)
	require.NoError(t, err)

	assert.NoError(t, j.Validate())
	assert.Equal(t, job.StatusAssigned, j.Status())
	assert.Len(t, j.DispatchAttempts(), 1)
	assert.True(t, j.AssignedTo().IsEqual(provider))
}

func TestJobIsEqual(t *testing.T) {
	a := newTestJob(t)
	b := newTestJob(t)

	assert.True(t, a.IsEqual(a))
	assert.False(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(nil))
}

func TestJobZeroValueIsInvalid(t *testing.T) {
	var j job.Job
	assert.ErrorIs(t, j.Validate(), job.ErrJobIsNotConstructed)

	var nilJob *job.Job
	assert.ErrorIs(t, nilJob.Validate(), job.ErrJobIsNotConstructed)
}

func TestDispatchAttemptValidation(t *testing.T) {
	_, err := job.NewDispatchAttempt(kernel.UUID{}, time.Now())
	assert.Error(t, err)

	_, err = job.NewDispatchAttempt(kernel.NewUUID(), time.Time{})
	assert.ErrorIs(t, err, job.ErrAttemptTimeIsRequired)

	var a job.DispatchAttempt
	assert.ErrorIs(t, a.Validate(), job.ErrDispatchAttemptIsNotConstructed)
}
