package commands

import (
	"errors"
	"fmt"

	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/pkg/errs"
	"roadside/internal/pkg/guard"
)

// ErrBroadcastJobCommandIsNotConstructed is returned when using an improperly
// initialized BroadcastJobCommand.
var ErrBroadcastJobCommandIsNotConstructed = errors.New(
	"BroadcastJobCommand must be created via NewBroadcastJobCommand constructor")

// Dispatch outcomes reported by the broadcast handler. Every call resolves to
// exactly one of these; only OutcomeBroadcasted mutates the job.
const (
	// OutcomeBroadcasted means the job was offered to the candidate set.
	OutcomeBroadcasted = "broadcasted"

	// OutcomeFeeNotPaid means the booking fee gate rejected the job.
	OutcomeFeeNotPaid = "fee-not-paid"

	// OutcomeMissingCoordinates means the job has no usable pickup point.
	OutcomeMissingCoordinates = "missing-coordinates"

	// OutcomeAlreadyBroadcasted means a concurrent broadcast won the claim.
	OutcomeAlreadyBroadcasted = "already-broadcasted"
)

// DispatchResult is the outcome of one broadcast attempt.
type DispatchResult struct {
	// Outcome is one of the Outcome* constants.
	Outcome string

	// CandidateCount is the number of providers the job was offered to.
	// Zero unless Outcome is OutcomeBroadcasted.
	CandidateCount int
}

// BroadcastJobCommand represents a request to offer a job to nearby eligible
// providers. Limit caps the candidate set; zero means the default.
type BroadcastJobCommand struct { //nolint:recvcheck //using for validation
	jobID kernel.UUID
	limit int

	guard guard.ConstructorGuard
}

// NewBroadcastJobCommand creates a broadcast command. A zero limit falls back
// to the default candidate limit; negative limits are rejected.
func NewBroadcastJobCommand(jobID kernel.UUID, limit int) (BroadcastJobCommand, error) {
	cmd := BroadcastJobCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setLimit(limit),
	); err != nil {
		return BroadcastJobCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c BroadcastJobCommand) Validate() error {
	return c.guard.Validate(ErrBroadcastJobCommandIsNotConstructed)
}

// JobID returns the job to broadcast.
func (c BroadcastJobCommand) JobID() kernel.UUID { return c.jobID }

// Limit returns the requested candidate cap, zero meaning the default.
func (c BroadcastJobCommand) Limit() int { return c.limit }

func (c *BroadcastJobCommand) setJobID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.jobID = id
	return nil
}

func (c *BroadcastJobCommand) setLimit(limit int) error {
	if limit < 0 {
		return errs.NewValueIsInvalidErrorWithCause("limit",
			fmt.Errorf("%d is negative", limit))
	}
	c.limit = limit
	return nil
}
