package provider

import (
	"fmt"

	"roadside/internal/pkg/errs"
)

// VerificationStatus represents the document-verification state of a provider
// account. Only Approved providers are ever dispatched work.
type VerificationStatus int

const (
	// VerificationUnknown represents an invalid or undefined status.
	VerificationUnknown VerificationStatus = iota

	// VerificationPending means submitted documents await review.
	VerificationPending

	// VerificationApproved means the provider passed review and may work.
	VerificationApproved

	// VerificationRejected means the documents were declined.
	VerificationRejected
)

func verificationStatusStrings() map[VerificationStatus]string {
	return map[VerificationStatus]string{
		VerificationUnknown:  "Unknown",
		VerificationPending:  "Pending",
		VerificationApproved: "Approved",
		VerificationRejected: "Rejected",
	}
}

// Validate checks the VerificationStatus is one of the defined states.
func (s VerificationStatus) Validate() error {
	if s <= VerificationUnknown || s > VerificationRejected {
		return errs.NewValueIsInvalidErrorWithCause("verification status",
			fmt.Errorf("%d is not a valid verification status", int(s)))
	}
	return nil
}

// String implements fmt.Stringer. Safe to call on any value.
func (s VerificationStatus) String() string {
	if str, ok := verificationStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}
