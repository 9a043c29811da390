package job

import (
	"fmt"

	"roadside/internal/pkg/errs"
)

// FeeStatus represents the booking-fee payment state of a job. The booking
// fee is the small upfront charge a customer pays before any provider is
// contacted; it gates the entire broadcast lifecycle.
//
// State transitions:
//
//	Pending ──> Paid ──> RefundRequested ──> Refunded
//	                            │
//	                            └──> RefundFailed ──> RefundRequested (retry)
type FeeStatus int

const (
	// FeeUnknown represents an invalid or undefined fee status.
	FeeUnknown FeeStatus = iota

	// FeePending means the booking fee has not been paid yet.
	FeePending

	// FeePaid means the booking fee was captured; the job may be broadcast.
	FeePaid

	// FeeRefundRequested means the customer asked for the fee back.
	FeeRefundRequested

	// FeeRefunded means the fee was returned to the customer.
	FeeRefunded

	// FeeRefundFailed means a refund attempt failed and needs a retry.
	FeeRefundFailed
)

func feeStatusStrings() map[FeeStatus]string {
	return map[FeeStatus]string{
		FeeUnknown:         "Unknown",
		FeePending:         "Pending",
		FeePaid:            "Paid",
		FeeRefundRequested: "RefundRequested",
		FeeRefunded:        "Refunded",
		FeeRefundFailed:    "RefundFailed",
	}
}

// Validate checks the FeeStatus is one of the defined states.
func (s FeeStatus) Validate() error {
	if s <= FeeUnknown || s > FeeRefundFailed {
		return errs.NewValueIsInvalidErrorWithCause("fee status",
			fmt.Errorf("%d is not a valid booking fee status", int(s)))
	}
	return nil
}

// String implements fmt.Stringer. Safe to call on any value.
func (s FeeStatus) String() string {
	if str, ok := feeStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// MarkPaid transitions Pending into Paid. Marking an already Paid fee is a
// no-op transition error so duplicate webhook deliveries surface clearly.
func (s FeeStatus) MarkPaid() (FeeStatus, error) {
	if s != FeePending {
		return 0, errs.NewValueIsInvalidErrorWithCause("fee status",
			fmt.Errorf("%s is not a valid fee status to mark paid", s))
	}
	return FeePaid, nil
}

// RequestRefund transitions Paid (or a failed refund) into RefundRequested.
func (s FeeStatus) RequestRefund() (FeeStatus, error) {
	if s != FeePaid && s != FeeRefundFailed {
		return 0, errs.NewValueIsInvalidErrorWithCause("fee status",
			fmt.Errorf("%s is not a valid fee status to request a refund", s))
	}
	return FeeRefundRequested, nil
}
