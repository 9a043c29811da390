package commands

import (
	"errors"
	"time"

	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/pkg/errs"
	"roadside/internal/pkg/guard"
)

// Errors for the confirm-booking-fee command.
var (
	// ErrConfirmBookingFeeCommandIsNotConstructed is returned when using an
	// improperly initialized ConfirmBookingFeeCommand.
	ErrConfirmBookingFeeCommandIsNotConstructed = errors.New(
		"ConfirmBookingFeeCommand must be created via NewConfirmBookingFeeCommand constructor")
	// ErrPaidAtIsRequired is returned when the payment timestamp is zero.
	ErrPaidAtIsRequired = errs.NewValueIsRequiredError("paid at")
)

// ConfirmBookingFeeCommand represents a payment provider's confirmation that
// a job's booking fee was captured at a given time.
type ConfirmBookingFeeCommand struct { //nolint:recvcheck //using for validation
	jobID  kernel.UUID
	paidAt time.Time

	guard guard.ConstructorGuard
}

// NewConfirmBookingFeeCommand creates a command confirming the booking fee.
func NewConfirmBookingFeeCommand(jobID kernel.UUID, paidAt time.Time) (ConfirmBookingFeeCommand, error) {
	cmd := ConfirmBookingFeeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setPaidAt(paidAt),
	); err != nil {
		return ConfirmBookingFeeCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmBookingFeeCommand) Validate() error {
	return c.guard.Validate(ErrConfirmBookingFeeCommandIsNotConstructed)
}

// JobID returns the job whose fee was paid.
func (c ConfirmBookingFeeCommand) JobID() kernel.UUID { return c.jobID }

// PaidAt returns when the fee was captured.
func (c ConfirmBookingFeeCommand) PaidAt() time.Time { return c.paidAt }

func (c *ConfirmBookingFeeCommand) setJobID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.jobID = id
	return nil
}

func (c *ConfirmBookingFeeCommand) setPaidAt(paidAt time.Time) error {
	if paidAt.IsZero() {
		return ErrPaidAtIsRequired
	}
	c.paidAt = paidAt
	return nil
}
