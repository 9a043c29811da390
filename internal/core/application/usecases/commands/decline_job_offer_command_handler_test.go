package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roadside/internal/core/application/usecases/commands"
	"roadside/internal/core/domain/model/job"
	"roadside/internal/core/domain/model/kernel"
)

func broadcastedJob(t *testing.T, candidates ...kernel.UUID) *job.Job {
	t.Helper()
	j := paidCreatedJob(t, geoPointPtr(t, 69.24, 41.3))
	require.NoError(t, j.Broadcast(candidates, time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)))
	return j
}

func TestDeclineJobOfferCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	declining := kernel.NewUUID()
	other := kernel.NewUUID()
	testJob := broadcastedJob(t, declining, other)

	cmd, err := commands.NewDeclineJobOfferCommand(testJob.ID(), declining)
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, testJob.ID()).Return(testJob, nil).Once(),
		jobRepo.On("Update", ctx, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewDeclineJobOfferCommandHandler(factory)
	require.NoError(t, handler.Handle(ctx, cmd))

	// One offer is still live, so the round stays open.
	assert.Equal(t, job.StatusBroadcasted, testJob.Status())
	require.Len(t, testJob.ExcludedProviders(), 1)
	assert.True(t, testJob.ExcludedProviders()[0].IsEqual(declining))
}

func TestDeclineJobOfferCommandHandler_Handle_WholeRoundDeclinedReopens(t *testing.T) {
	ctx := t.Context()
	only := kernel.NewUUID()
	testJob := broadcastedJob(t, only)

	cmd, err := commands.NewDeclineJobOfferCommand(testJob.ID(), only)
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, testJob.ID()).Return(testJob, nil).Once(),
		jobRepo.On("Update", ctx, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewDeclineJobOfferCommandHandler(factory)
	require.NoError(t, handler.Handle(ctx, cmd))

	// Everyone declined, so the job returns to Created for the next round.
	assert.Equal(t, job.StatusCreated, testJob.Status())
	// The ledger of the declined round survives.
	assert.Len(t, testJob.DispatchAttempts(), 1)
}

func TestDeclineJobOfferCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()

	factory := new(MockJobUoWFactory)
	handler := commands.NewDeclineJobOfferCommandHandler(factory)
	err := handler.Handle(ctx, commands.DeclineJobOfferCommand{})

	require.ErrorIs(t, err, commands.ErrDeclineJobOfferCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
