package commands

import (
	"errors"

	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/pkg/guard"
)

// ErrDeclineJobOfferCommandIsNotConstructed is returned when using an
// improperly initialized DeclineJobOfferCommand.
var ErrDeclineJobOfferCommandIsNotConstructed = errors.New(
	"DeclineJobOfferCommand must be created via NewDeclineJobOfferCommand constructor")

// DeclineJobOfferCommand represents a provider declining a broadcast offer.
type DeclineJobOfferCommand struct { //nolint:recvcheck //using for validation
	jobID      kernel.UUID
	providerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeclineJobOfferCommand creates a decline command.
func NewDeclineJobOfferCommand(jobID, providerID kernel.UUID) (DeclineJobOfferCommand, error) {
	cmd := DeclineJobOfferCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setProviderID(providerID),
	); err != nil {
		return DeclineJobOfferCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeclineJobOfferCommand) Validate() error {
	return c.guard.Validate(ErrDeclineJobOfferCommandIsNotConstructed)
}

// JobID returns the job being declined.
func (c DeclineJobOfferCommand) JobID() kernel.UUID { return c.jobID }

// ProviderID returns the declining provider.
func (c DeclineJobOfferCommand) ProviderID() kernel.UUID { return c.providerID }

func (c *DeclineJobOfferCommand) setJobID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.jobID = id
	return nil
}

func (c *DeclineJobOfferCommand) setProviderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.providerID = id
	return nil
}
