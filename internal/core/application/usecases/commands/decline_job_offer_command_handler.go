package commands

import (
	"context"

	"roadside/internal/core/domain/model/job"
)

// DeclineJobOfferCommandHandler handles a provider declining a broadcast
// offer. The provider joins the job's permanent exclusion set; when the whole
// round has declined, the job is reopened so the background sweeper can run
// the next round without the declined providers.
type DeclineJobOfferCommandHandler struct {
	uowFactory JobUoWFactory
}

// NewDeclineJobOfferCommandHandler creates a handler for offer declines.
func NewDeclineJobOfferCommandHandler(uowFactory JobUoWFactory) DeclineJobOfferCommandHandler {
	return DeclineJobOfferCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle records the decline inside a transaction. Declining twice is
// idempotent.
func (h *DeclineJobOfferCommandHandler) Handle(ctx context.Context, cmd DeclineJobOfferCommand) error {
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

	if err = j.Decline(cmd.ProviderID()); err != nil {
		return err
	}

	if j.Status() == job.StatusBroadcasted && wholeRoundDeclined(j) {
		if err = j.Reopen(); err != nil {
			return err
		}
	}

	if err = jobRepo.Update(ctx, j); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// wholeRoundDeclined reports whether every provider of the current broadcast
// round is now in the exclusion set.
func wholeRoundDeclined(j *job.Job) bool {
	excluded := make(map[string]struct{}, len(j.ExcludedProviders()))
	for _, id := range j.ExcludedProviders() {
		excluded[id.String()] = struct{}{}
	}

	for _, id := range j.BroadcastedTo() {
		if _, ok := excluded[id.String()]; !ok {
			return false
		}
	}
	return len(j.BroadcastedTo()) > 0
}
