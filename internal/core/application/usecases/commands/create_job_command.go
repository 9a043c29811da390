package commands

import (
	"errors"

	"roadside/internal/core/domain/model/job"
	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/pkg/guard"
)

// ErrCreateJobCommandIsNotConstructed is returned when using an improperly
// initialized CreateJobCommand.
var ErrCreateJobCommandIsNotConstructed = errors.New(
	"CreateJobCommand must be created via NewCreateJobCommand constructor")

// CreateJobCommand represents a request to register a new roadside service
// job. Coordinates are optional at creation time; a job without a pickup
// point can be created but never broadcast.
type CreateJobCommand struct { //nolint:recvcheck //using for validation
	jobID        kernel.UUID
	customerID   kernel.UUID
	role         kernel.Role
	pickup       *kernel.GeoPoint
	dropoff      *kernel.GeoPoint
	details      job.Details
	requirements job.Requirements
	pricing      job.Pricing

	guard guard.ConstructorGuard
}

// NewCreateJobCommand creates a command to register a new job.
func NewCreateJobCommand(
	jobID kernel.UUID,
	customerID kernel.UUID,
	role kernel.Role,
	pickup *kernel.GeoPoint,
	dropoff *kernel.GeoPoint,
	details job.Details,
	requirements job.Requirements,
	pricing job.Pricing,
) (CreateJobCommand, error) {
	cmd := CreateJobCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setCustomerID(customerID),
		cmd.setRole(role),
		cmd.setPricing(pricing),
	); err != nil {
		return CreateJobCommand{}, err
	}

	cmd.pickup = pickup
	cmd.dropoff = dropoff
	cmd.details = details
	cmd.requirements = requirements
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateJobCommand) Validate() error {
	return c.guard.Validate(ErrCreateJobCommandIsNotConstructed)
}

// JobID returns the identifier for the new job.
func (c CreateJobCommand) JobID() kernel.UUID { return c.jobID }

// CustomerID returns the requesting customer's identifier.
func (c CreateJobCommand) CustomerID() kernel.UUID { return c.customerID }

// Role returns the provider role the job requires.
func (c CreateJobCommand) Role() kernel.Role { return c.role }

// Pickup returns the pickup point, or nil.
func (c CreateJobCommand) Pickup() *kernel.GeoPoint { return c.pickup }

// Dropoff returns the dropoff point, or nil.
func (c CreateJobCommand) Dropoff() *kernel.GeoPoint { return c.dropoff }

// Details returns the booking texts.
func (c CreateJobCommand) Details() job.Details { return c.details }

// Requirements returns the requirement tags.
func (c CreateJobCommand) Requirements() job.Requirements { return c.requirements }

// Pricing returns the job's monetary view.
func (c CreateJobCommand) Pricing() job.Pricing { return c.pricing }

func (c *CreateJobCommand) setJobID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.jobID = id
	return nil
}

func (c *CreateJobCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.customerID = id
	return nil
}

func (c *CreateJobCommand) setRole(role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	c.role = role
	return nil
}

func (c *CreateJobCommand) setPricing(pricing job.Pricing) error {
	if err := pricing.Validate(); err != nil {
		return err
	}
	c.pricing = pricing
	return nil
}
