package job

import (
	"fmt"

	"roadside/internal/pkg/errs"
)

// Status represents the lifecycle state of a job. It implements a state
// machine with defined transitions so jobs always follow the broadcast
// workflow.
//
// State transitions:
//
//	Created ──> Broadcasted ──> Assigned ──> InProgress ──> Completed
//	   ▲             │             │
//	   └─────────────┘             │
//	  (reopen for next round)      │
//	         Cancelled <───────────┴── (also from Created, Broadcasted)
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusCreated is the initial state; the job waits for its booking fee
	// to be paid and is the only state a broadcast may start from.
	StatusCreated

	// StatusBroadcasted means the job has been offered to a candidate set.
	StatusBroadcasted

	// StatusAssigned means a provider accepted the offer but has not started.
	StatusAssigned

	// StatusInProgress means the assigned provider is working the job.
	StatusInProgress

	// StatusCompleted is a final state: the service was delivered.
	StatusCompleted

	// StatusCancelled is a final state: the job was withdrawn.
	StatusCancelled
)

func statusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:     "Unknown",
		StatusCreated:     "Created",
		StatusBroadcasted: "Broadcasted",
		StatusAssigned:    "Assigned",
		StatusInProgress:  "InProgress",
		StatusCompleted:   "Completed",
		StatusCancelled:   "Cancelled",
	}
}

// Validate checks the Status is one of the defined lifecycle states.
// StatusUnknown and out-of-range values are invalid.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusCancelled {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid job status", int(s)))
	}
	return nil
}

// String implements fmt.Stringer. Safe to call on any value.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsFinal reports whether the status permits no further transitions.
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Broadcast transitions the job into the Broadcasted state. Only a Created
// job may be broadcast; a job already Broadcasted must first be reopened for
// the next round.
func (s Status) Broadcast() (Status, error) {
	if s != StatusCreated {
		return 0, transitionError(s, "broadcast")
	}
	return StatusBroadcasted, nil
}

// Assign transitions the job into the Assigned state when a provider accepts
// the broadcast offer.
func (s Status) Assign() (Status, error) {
	if s != StatusBroadcasted {
		return 0, transitionError(s, "assign")
	}
	return StatusAssigned, nil
}

// Start transitions an Assigned job into InProgress.
func (s Status) Start() (Status, error) {
	if s != StatusAssigned {
		return 0, transitionError(s, "start")
	}
	return StatusInProgress, nil
}

// Complete transitions an InProgress job into the final Completed state.
func (s Status) Complete() (Status, error) {
	if s != StatusInProgress {
		return 0, transitionError(s, "complete")
	}
	return StatusCompleted, nil
}

// Cancel transitions the job into the final Cancelled state. Allowed while
// the job has not started: Created, Broadcasted or Assigned.
func (s Status) Cancel() (Status, error) {
	switch s {
	case StatusCreated, StatusBroadcasted, StatusAssigned:
		return StatusCancelled, nil
	default:
		return 0, transitionError(s, "cancel")
	}
}

// Reopen returns a Broadcasted job to Created so a new broadcast round can be
// claimed. Used when every offer of the current round was declined or expired.
func (s Status) Reopen() (Status, error) {
	if s != StatusBroadcasted {
		return 0, transitionError(s, "reopen")
	}
	return StatusCreated, nil
}

// ValidateCanHaveAssignee validates consistency between status and provider
// assignment: Assigned/InProgress/Completed jobs must carry an assignee,
// earlier states must not.
func (s Status) ValidateCanHaveAssignee(assigned bool) error {
	requiresAssignee := s == StatusAssigned || s == StatusInProgress || s == StatusCompleted

	if assigned && !requiresAssignee && s != StatusCancelled {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have an assigned provider", s))
	}
	if !assigned && requiresAssignee {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have no assigned provider", s))
	}
	return nil
}

func transitionError(s Status, action string) error {
	return errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%s is not a valid status to %s", s, action))
}
