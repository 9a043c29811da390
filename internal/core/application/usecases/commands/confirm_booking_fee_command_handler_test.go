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

func TestConfirmBookingFeeCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	pending, err := job.NewJob(kernel.NewUUID(), kernel.NewUUID(), kernel.RoleTowTruck,
		geoPointPtr(t, 69.24, 41.3), nil, job.Details{}, job.Requirements{}, job.ZeroPricing())
	require.NoError(t, err)

	paidAt := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	cmd, err := commands.NewConfirmBookingFeeCommand(pending.ID(), paidAt)
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, pending.ID()).Return(pending, nil).Once(),
		jobRepo.On("Update", ctx, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewConfirmBookingFeeCommandHandler(factory)
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, job.FeePaid, pending.FeeStatus())
	assert.True(t, pending.IsBookingFeePaid())
}

func TestConfirmBookingFeeCommandHandler_Handle_DuplicateConfirmation(t *testing.T) {
	ctx := t.Context()
	paid := paidCreatedJob(t, geoPointPtr(t, 69.24, 41.3))

	cmd, err := commands.NewConfirmBookingFeeCommand(paid.ID(), time.Now())
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		jobRepo.On("Get", ctx, paid.ID()).Return(paid, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewConfirmBookingFeeCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	jobRepo.AssertNotCalled(t, "Update")
}

func TestConfirmBookingFeeCommand_Validations(t *testing.T) {
	_, err := commands.NewConfirmBookingFeeCommand(kernel.UUID{}, time.Now())
	require.Error(t, err)

	_, err = commands.NewConfirmBookingFeeCommand(kernel.NewUUID(), time.Time{})
	require.ErrorIs(t, err, commands.ErrPaidAtIsRequired)
}
