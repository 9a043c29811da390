package commands

import (
	"context"

	"roadside/internal/core/domain/model/provider"
)

// RegisterProviderCommandHandler handles provider registration. New accounts
// start offline and unverified; an admin approval flow moves them to
// Approved before dispatch considers them.
type RegisterProviderCommandHandler struct {
	uowFactory ProviderUoWFactory
}

// NewRegisterProviderCommandHandler creates a handler for provider
// registration.
func NewRegisterProviderCommandHandler(uowFactory ProviderUoWFactory) RegisterProviderCommandHandler {
	return RegisterProviderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the registration command inside a transaction.
func (h *RegisterProviderCommandHandler) Handle(ctx context.Context, cmd RegisterProviderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	newProvider, err := provider.NewProvider(
		cmd.ProviderID(),
		cmd.Name(),
		cmd.Role(),
		cmd.Capabilities(),
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

	if err = uow.ProviderRepository().Add(ctx, newProvider); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
