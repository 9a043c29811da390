package commands

import (
	"errors"

	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/pkg/guard"
)

// Errors for the accept-job-offer command.
var (
	// ErrAcceptJobOfferCommandIsNotConstructed is returned when using an
	// improperly initialized AcceptJobOfferCommand.
	ErrAcceptJobOfferCommandIsNotConstructed = errors.New(
		"AcceptJobOfferCommand must be created via NewAcceptJobOfferCommand constructor")
	// ErrProviderWasNotOffered is returned when a provider tries to accept a
	// job that was not broadcast to them.
	ErrProviderWasNotOffered = errors.New("provider was not offered this job")
)

// AcceptJobOfferCommand represents a provider accepting a broadcast offer.
type AcceptJobOfferCommand struct { //nolint:recvcheck //using for validation
	jobID      kernel.UUID
	providerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptJobOfferCommand creates an acceptance command.
func NewAcceptJobOfferCommand(jobID, providerID kernel.UUID) (AcceptJobOfferCommand, error) {
	cmd := AcceptJobOfferCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setProviderID(providerID),
	); err != nil {
		return AcceptJobOfferCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptJobOfferCommand) Validate() error {
	return c.guard.Validate(ErrAcceptJobOfferCommandIsNotConstructed)
}

// JobID returns the job being accepted.
func (c AcceptJobOfferCommand) JobID() kernel.UUID { return c.jobID }

// ProviderID returns the accepting provider.
func (c AcceptJobOfferCommand) ProviderID() kernel.UUID { return c.providerID }

func (c *AcceptJobOfferCommand) setJobID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.jobID = id
	return nil
}

func (c *AcceptJobOfferCommand) setProviderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.providerID = id
	return nil
}
