package commands

import (
	"context"

	"roadside/internal/core/domain/model/job"
)

// CreateJobCommandHandler handles the business logic for job registration.
// New jobs start in Created status with a Pending booking fee.
type CreateJobCommandHandler struct {
	uowFactory JobUoWFactory
}

// NewCreateJobCommandHandler creates a handler for job registration.
func NewCreateJobCommandHandler(uowFactory JobUoWFactory) CreateJobCommandHandler {
	return CreateJobCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the job creation command inside a transaction.
func (h *CreateJobCommandHandler) Handle(ctx context.Context, cmd CreateJobCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	newJob, err := job.NewJob(
		cmd.JobID(),
		cmd.CustomerID(),
		cmd.Role(),
		cmd.Pickup(),
		cmd.Dropoff(),
		cmd.Details(),
		cmd.Requirements(),
		cmd.Pricing(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.JobRepository().Add(ctx, newJob); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
