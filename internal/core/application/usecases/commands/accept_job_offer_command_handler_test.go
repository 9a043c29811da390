package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roadside/internal/core/application/usecases/commands"
	"roadside/internal/core/domain/model/job"
	"roadside/internal/core/domain/model/kernel"
)

func TestAcceptJobOfferCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	accepting := kernel.NewUUID()
	testJob := broadcastedJob(t, accepting)
	candidate := candidateWithToken(t, "token", 500)

	cmd, err := commands.NewAcceptJobOfferCommand(testJob.ID(), accepting)
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	providerRepo := new(MockProviderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ProviderRepository").Return(providerRepo).Once(),
		providerRepo.On("Get", ctx, accepting).Return(candidate.Provider, nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, testJob.ID()).Return(testJob, nil).Once(),
		jobRepo.On("Update", ctx, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptJobOfferCommandHandler(factory)
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, job.StatusAssigned, testJob.Status())
	require.NotNil(t, testJob.AssignedTo())
	assert.True(t, testJob.AssignedTo().IsEqual(accepting))
	assert.NotNil(t, testJob.LockedAt())
}

func TestAcceptJobOfferCommandHandler_Handle_NotOffered(t *testing.T) {
	ctx := t.Context()
	offered := kernel.NewUUID()
	outsider := kernel.NewUUID()
	testJob := broadcastedJob(t, offered)
	candidate := candidateWithToken(t, "token", 500)

	cmd, err := commands.NewAcceptJobOfferCommand(testJob.ID(), outsider)
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	providerRepo := new(MockProviderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ProviderRepository").Return(providerRepo).Once(),
		providerRepo.On("Get", ctx, outsider).Return(candidate.Provider, nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, testJob.ID()).Return(testJob, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptJobOfferCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrProviderWasNotOffered)
	assert.Equal(t, job.StatusBroadcasted, testJob.Status())
	jobRepo.AssertNotCalled(t, "Update")
}

func TestAcceptJobOfferCommandHandler_Handle_SecondAcceptanceLoses(t *testing.T) {
	ctx := t.Context()
	first := kernel.NewUUID()
	second := kernel.NewUUID()
	testJob := broadcastedJob(t, first, second)
	candidate := candidateWithToken(t, "token", 500)

	// First acceptance already assigned the job.
	require.NoError(t, testJob.Accept(first, testJob.DispatchAttempts()[0].AttemptedAt()))

	cmd, err := commands.NewAcceptJobOfferCommand(testJob.ID(), second)
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	providerRepo := new(MockProviderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ProviderRepository").Return(providerRepo).Once(),
		providerRepo.On("Get", ctx, second).Return(candidate.Provider, nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, testJob.ID()).Return(testJob, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAcceptJobOfferCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.True(t, testJob.AssignedTo().IsEqual(first), "the first acceptance stands")
}
