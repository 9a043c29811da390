package job

import (
	"errors"
	"time"

	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/pkg/errs"
	"roadside/internal/pkg/guard"
)

// Domain errors for dispatch attempts.
var (
	// ErrDispatchAttemptIsNotConstructed is returned when using an improperly
	// initialized DispatchAttempt.
	ErrDispatchAttemptIsNotConstructed = errors.New(
		"DispatchAttempt must be created via NewDispatchAttempt constructor")
	// ErrAttemptTimeIsRequired is returned when the attempt timestamp is zero.
	ErrAttemptTimeIsRequired = errs.NewValueIsRequiredError("attempt timestamp")
)

// DispatchAttempt is one entry of the job's append-only dispatch ledger: a
// record that a specific provider was offered the job at a specific time.
// Entries are never updated or removed; the ledger is the audit trail of who
// was offered the job and when, across all broadcast rounds.
type DispatchAttempt struct {
	providerID  kernel.UUID
	attemptedAt time.Time
	guard       guard.ConstructorGuard
}

// NewDispatchAttempt creates a ledger entry for the given provider at the
// given time.
func NewDispatchAttempt(providerID kernel.UUID, attemptedAt time.Time) (DispatchAttempt, error) {
	if err := providerID.Validate(); err != nil {
		return DispatchAttempt{}, err
	}
	if attemptedAt.IsZero() {
		return DispatchAttempt{}, ErrAttemptTimeIsRequired
	}

	return DispatchAttempt{
		providerID:  providerID,
		attemptedAt: attemptedAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate checks the attempt was created via NewDispatchAttempt.
func (a DispatchAttempt) Validate() error {
	return a.guard.Validate(ErrDispatchAttemptIsNotConstructed)
}

// ProviderID returns the provider the job was offered to.
func (a DispatchAttempt) ProviderID() kernel.UUID {
	return a.providerID
}

// AttemptedAt returns when the offer was made.
func (a DispatchAttempt) AttemptedAt() time.Time {
	return a.attemptedAt
}
