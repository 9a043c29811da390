package commands

import (
	"context"
	"time"
)

// AcceptJobOfferCommandHandler handles a provider accepting a broadcast
// offer. The first acceptance wins: the Broadcasted to Assigned transition
// rejects every later attempt.
type AcceptJobOfferCommandHandler struct {
	uowFactory UoWFactory
}

// NewAcceptJobOfferCommandHandler creates a handler for offer acceptance.
func NewAcceptJobOfferCommandHandler(uowFactory UoWFactory) AcceptJobOfferCommandHandler {
	return AcceptJobOfferCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle assigns the job to the accepting provider inside a transaction.
// Only providers from the current broadcast round may accept.
func (h *AcceptJobOfferCommandHandler) Handle(ctx context.Context, cmd AcceptJobOfferCommand) error {
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

	if _, err := uow.ProviderRepository().Get(ctx, cmd.ProviderID()); err != nil {
		return err
	}

	jobRepo := uow.JobRepository()
	j, err := jobRepo.Get(ctx, cmd.JobID())
	if err != nil {
		return err
	}

	offered := false
	for _, id := range j.BroadcastedTo() {
		if id.IsEqual(cmd.ProviderID()) {
			offered = true
			break
		}
	}
	if !offered {
		return ErrProviderWasNotOffered
	}

	if err = j.Accept(cmd.ProviderID(), time.Now().UTC()); err != nil {
		return err
	}

	if err = jobRepo.Update(ctx, j); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
