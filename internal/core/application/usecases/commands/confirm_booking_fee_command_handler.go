package commands

import (
	"context"
)

// ConfirmBookingFeeCommandHandler records a booking-fee payment against a
// job, making it eligible for broadcast.
type ConfirmBookingFeeCommandHandler struct {
	uowFactory JobUoWFactory
}

// NewConfirmBookingFeeCommandHandler creates a handler for booking-fee
// confirmations.
func NewConfirmBookingFeeCommandHandler(uowFactory JobUoWFactory) ConfirmBookingFeeCommandHandler {
	return ConfirmBookingFeeCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle loads the job, marks its fee paid and persists the change inside a
// transaction. Duplicate confirmations fail with a fee-status transition
// error.
func (h *ConfirmBookingFeeCommandHandler) Handle(ctx context.Context, cmd ConfirmBookingFeeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()
	j, err := jobRepo.Get(ctx, cmd.JobID())
	if err != nil {
		return err
	}

	if err = j.ConfirmBookingFee(cmd.PaidAt()); err != nil {
		return err
	}

	if err = jobRepo.Update(ctx, j); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
