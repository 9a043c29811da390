package job

import (
	"errors"
	"time"

	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/pkg/guard"
)

// Domain errors for job operations.
var (
	// ErrJobIsNotConstructed is returned when using an improperly initialized Job.
	ErrJobIsNotConstructed = errors.New("Job must be created via NewJob or RestoreJob constructor")
)

// Details carries the free-text description of a job as captured by the
// booking flow: where to pick the vehicle up, where to bring it, and what the
// customer says is wrong. All fields are display-only; routing decisions use
// the coordinate fields on the aggregate.
type Details struct {
	PickupAddress  string
	DropoffAddress string
	Problem        string
}

// Requirements carries the role-specific requirement tags of a job. Tags are
// free strings chosen by the booking flow; an empty tag means "no
// requirement". TowTruckType and VehicleType apply to tow-truck jobs,
// Category to mechanic jobs.
type Requirements struct {
	TowTruckType string
	VehicleType  string
	Category     string
}

// Job is the aggregate root for a roadside service request. It owns the
// broadcast lifecycle state: which providers the job was offered to, who must
// never be offered it again, the append-only dispatch ledger, and the
// eventual assignee.
//
// Invariants:
//   - a job is broadcast-eligible only while status is Created and the
//     booking fee is paid
//   - the dispatch ledger only ever grows; earlier rounds are retained
//   - Assigned/InProgress/Completed states always carry an assignee,
//     earlier states never do
//
// The booking flow creates jobs; only the dispatch engine mutates the
// broadcast state; acceptance and later lifecycle transitions come from the
// provider-facing flows. Jobs are never deleted, only status-transitioned.
type Job struct {
	id           kernel.UUID
	customerID   kernel.UUID
	role         kernel.Role
	pickup       *kernel.GeoPoint
	dropoff      *kernel.GeoPoint
	details      Details
	requirements Requirements
	pricing      Pricing

	status    Status
	feeStatus FeeStatus
	feePaidAt *time.Time

	excluded      []kernel.UUID
	broadcastedTo []kernel.UUID
	attempts      []DispatchAttempt

	assignedTo *kernel.UUID
	lockedAt   *time.Time

	guard guard.ConstructorGuard
}

// NewJob creates a job in Created status with a Pending booking fee. The
// pickup and dropoff points are optional at creation time, since the booking
// flow may capture addresses before coordinates are geocoded, but a job
// without a pickup point can never be broadcast.
func NewJob(
	id kernel.UUID,
	customerID kernel.UUID,
	role kernel.Role,
	pickup *kernel.GeoPoint,
	dropoff *kernel.GeoPoint,
	details Details,
	requirements Requirements,
	pricing Pricing,
) (*Job, error) {
	j := &Job{
		status:    StatusCreated,
		feeStatus: FeePending,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		j.setID(id),
		j.setCustomerID(customerID),
		j.setRole(role),
		j.setPickup(pickup),
		j.setDropoff(dropoff),
		j.setPricing(pricing),
	); err != nil {
		return nil, err
	}

	j.details = details
	j.requirements = requirements
	return j, nil
}

// RestoreJob reconstructs a Job aggregate from persistent storage, including
// its full broadcast state. The restored job behaves identically to one
// mutated through normal domain operations.
func RestoreJob(
	id kernel.UUID,
	customerID kernel.UUID,
	role kernel.Role,
	pickup *kernel.GeoPoint,
	dropoff *kernel.GeoPoint,
	details Details,
	requirements Requirements,
	pricing Pricing,
	status Status,
	feeStatus FeeStatus,
	feePaidAt *time.Time,
	excluded []kernel.UUID,
	broadcastedTo []kernel.UUID,
	attempts []DispatchAttempt,
	assignedTo *kernel.UUID,
	lockedAt *time.Time,
) (*Job, error) {
	j := &Job{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		j.setID(id),
		j.setCustomerID(customerID),
		j.setRole(role),
		j.setPickup(pickup),
		j.setDropoff(dropoff),
		j.setPricing(pricing),
		j.setStatus(status),
		j.setFeeStatus(feeStatus),
		j.setExcluded(excluded),
		j.setBroadcastedTo(broadcastedTo),
		j.setAttempts(attempts),
		j.setAssignedTo(assignedTo),
	); err != nil {
		return nil, err
	}

	if err := status.ValidateCanHaveAssignee(assignedTo != nil); err != nil {
		return nil, err
	}

	j.details = details
	j.requirements = requirements
	j.feePaidAt = feePaidAt
	j.lockedAt = lockedAt
	return j, nil
}

// Validate checks the Job was created via a constructor.
func (j *Job) Validate() error {
	if j == nil {
		return ErrJobIsNotConstructed
	}
	return j.guard.Validate(ErrJobIsNotConstructed)
}

// IsEqual compares two jobs by identity.
func (j *Job) IsEqual(other *Job) bool {
	return other != nil && j.id.IsEqual(other.id)
}

// ID returns the job's unique identifier.
func (j *Job) ID() kernel.UUID { return j.id }

// CustomerID returns the requesting customer's identifier.
func (j *Job) CustomerID() kernel.UUID { return j.customerID }

// Role returns the provider role this job requires.
func (j *Job) Role() kernel.Role { return j.role }

// Pickup returns the pickup point, or nil when not geocoded yet.
func (j *Job) Pickup() *kernel.GeoPoint { return j.pickup }

// Dropoff returns the dropoff point, or nil for jobs without a destination
// (e.g. on-site mechanic work).
func (j *Job) Dropoff() *kernel.GeoPoint { return j.dropoff }

// Details returns the display texts captured at booking time.
func (j *Job) Details() Details { return j.details }

// Requirements returns the role-specific requirement tags.
func (j *Job) Requirements() Requirements { return j.requirements }

// Pricing returns the job's monetary view.
func (j *Job) Pricing() Pricing { return j.pricing }

// Status returns the current lifecycle status.
func (j *Job) Status() Status { return j.status }

// FeeStatus returns the booking-fee state.
func (j *Job) FeeStatus() FeeStatus { return j.feeStatus }

// FeePaidAt returns when the booking fee was captured, or nil.
func (j *Job) FeePaidAt() *time.Time { return j.feePaidAt }

// ExcludedProviders returns the providers that must never be offered this
// job again.
func (j *Job) ExcludedProviders() []kernel.UUID { return j.excluded }

// BroadcastedTo returns the candidate set of the most recent broadcast round.
func (j *Job) BroadcastedTo() []kernel.UUID { return j.broadcastedTo }

// DispatchAttempts returns the append-only offer ledger across all rounds.
func (j *Job) DispatchAttempts() []DispatchAttempt { return j.attempts }

// AssignedTo returns the accepted provider's id, or nil while unassigned.
func (j *Job) AssignedTo() *kernel.UUID { return j.assignedTo }

// LockedAt returns the acceptance timestamp, or nil. Downstream flows use it
// for the chat and cancellation windows.
func (j *Job) LockedAt() *time.Time { return j.lockedAt }

// HasPickup reports whether the job carries a pickup point.
func (j *Job) HasPickup() bool { return j.pickup != nil }

// IsBookingFeePaid reports whether the booking fee has been captured. Either
// the explicit Paid status or a recorded payment timestamp suffices; payment
// webhooks and manual admin confirmation set them independently.
func (j *Job) IsBookingFeePaid() bool {
	return j.feeStatus == FeePaid || j.feePaidAt != nil
}

// ConfirmBookingFee marks the booking fee as paid at the given time.
func (j *Job) ConfirmBookingFee(at time.Time) error {
	newStatus, err := j.feeStatus.MarkPaid()
	if err != nil {
		return err
	}
	j.feeStatus = newStatus
	j.feePaidAt = &at
	return nil
}

// Broadcast records a broadcast round: transitions Created → Broadcasted,
// replaces the broadcast list with the given candidate set, and appends one
// dispatch-attempt ledger entry per candidate at the given time. Earlier
// ledger entries are always retained.
//
// An empty candidate set is a legal round: the job still transitions so the
// customer-facing flow can report "searching, nobody nearby yet".
func (j *Job) Broadcast(candidateIDs []kernel.UUID, at time.Time) error {
	newStatus, err := j.status.Broadcast()
	if err != nil {
		return err
	}

	attempts := make([]DispatchAttempt, 0, len(candidateIDs))
	broadcastedTo := make([]kernel.UUID, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		attempt, attemptErr := NewDispatchAttempt(id, at)
		if attemptErr != nil {
			return attemptErr
		}
		attempts = append(attempts, attempt)
		broadcastedTo = append(broadcastedTo, id)
	}

	j.status = newStatus
	j.broadcastedTo = broadcastedTo
	j.attempts = append(j.attempts, attempts...)
	return nil
}

// Accept records a provider accepting the broadcast offer: transitions
// Broadcasted → Assigned and sets the lock timestamp used by the chat and
// cancellation windows.
func (j *Job) Accept(providerID kernel.UUID, at time.Time) error {
	if err := providerID.Validate(); err != nil {
		return err
	}

	newStatus, err := j.status.Assign()
	if err != nil {
		return err
	}

	j.status = newStatus
	j.assignedTo = &providerID
	j.lockedAt = &at
	return nil
}

// Decline records a provider declining the offer. The provider joins the
// excluded set and will never be selected for this job again; the job status
// is untouched (remaining offers of the round stay live).
func (j *Job) Decline(providerID kernel.UUID) error {
	if err := providerID.Validate(); err != nil {
		return err
	}

	for _, id := range j.excluded {
		if id.IsEqual(providerID) {
			return nil
		}
	}
	j.excluded = append(j.excluded, providerID)
	return nil
}

// Reopen returns a Broadcasted job to Created for the next broadcast round.
func (j *Job) Reopen() error {
	newStatus, err := j.status.Reopen()
	if err != nil {
		return err
	}
	j.status = newStatus
	return nil
}

// Start transitions the assigned job into InProgress.
func (j *Job) Start() error {
	newStatus, err := j.status.Start()
	if err != nil {
		return err
	}
	j.status = newStatus
	return nil
}

// Complete transitions an InProgress job into Completed.
func (j *Job) Complete() error {
	newStatus, err := j.status.Complete()
	if err != nil {
		return err
	}
	j.status = newStatus
	return nil
}

// Cancel withdraws the job. Allowed until the work starts.
func (j *Job) Cancel() error {
	newStatus, err := j.status.Cancel()
	if err != nil {
		return err
	}
	j.status = newStatus
	return nil
}

func (j *Job) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.id = id
	return nil
}

func (j *Job) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.customerID = id
	return nil
}

func (j *Job) setRole(role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	j.role = role
	return nil
}

func (j *Job) setPickup(p *kernel.GeoPoint) error {
	if p != nil {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	j.pickup = p
	return nil
}

func (j *Job) setDropoff(p *kernel.GeoPoint) error {
	if p != nil {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	j.dropoff = p
	return nil
}

func (j *Job) setPricing(p Pricing) error {
	if err := p.Validate(); err != nil {
		return err
	}
	j.pricing = p
	return nil
}

func (j *Job) setStatus(s Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	j.status = s
	return nil
}

func (j *Job) setFeeStatus(s FeeStatus) error {
	if err := s.Validate(); err != nil {
		return err
	}
	j.feeStatus = s
	return nil
}

func (j *Job) setExcluded(ids []kernel.UUID) error {
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	j.excluded = ids
	return nil
}

func (j *Job) setBroadcastedTo(ids []kernel.UUID) error {
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	j.broadcastedTo = ids
	return nil
}

func (j *Job) setAttempts(attempts []DispatchAttempt) error {
	for _, a := range attempts {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	j.attempts = attempts
	return nil
}

func (j *Job) setAssignedTo(id *kernel.UUID) error {
	if id != nil {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	j.assignedTo = id
	return nil
}
