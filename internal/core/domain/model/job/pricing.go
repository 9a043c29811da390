package job

import (
	"errors"
	"fmt"

	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/pkg/errs"
	"roadside/internal/pkg/guard"
)

// ErrPricingIsNotConstructed is returned when using an improperly initialized
// Pricing value.
var ErrPricingIsNotConstructed = errors.New("Pricing must be created via NewPricing constructor")

// Pricing is the monetary view of a job at dispatch time. Tow-truck jobs are
// quoted up front, so several pricing fields may exist with different levels
// of authority; mechanic jobs are priced only after diagnosis, so no figure
// is trustworthy before the work starts.
//
// The amounts are optional and prioritized: the final (agreed) amount wins
// over the quote, which wins over the rough estimate.
type Pricing struct { //nolint:recvcheck //using for validation
	finalAmount     *float64
	quotedAmount    *float64
	estimatedAmount *float64
	bookingFee      float64
	guard           guard.ConstructorGuard
}

// NewPricing creates a Pricing value. Any amount pointer may be nil; set
// amounts and the booking fee must be non-negative.
func NewPricing(finalAmount, quotedAmount, estimatedAmount *float64, bookingFee float64) (Pricing, error) {
	p := Pricing{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setAmount(&p.finalAmount, finalAmount, "final amount"),
		p.setAmount(&p.quotedAmount, quotedAmount, "quoted amount"),
		p.setAmount(&p.estimatedAmount, estimatedAmount, "estimated amount"),
		p.setBookingFee(bookingFee),
	); err != nil {
		return Pricing{}, err
	}

	return p, nil
}

// ZeroPricing returns a valid Pricing with no amounts and a zero booking fee.
func ZeroPricing() Pricing {
	p, _ := NewPricing(nil, nil, nil, 0)
	return p
}

// Validate checks the Pricing was created via NewPricing.
func (p Pricing) Validate() error {
	return p.guard.Validate(ErrPricingIsNotConstructed)
}

// FinalAmount returns the agreed final amount, or nil.
func (p Pricing) FinalAmount() *float64 { return p.finalAmount }

// QuotedAmount returns the quoted amount, or nil.
func (p Pricing) QuotedAmount() *float64 { return p.quotedAmount }

// EstimatedAmount returns the rough estimate, or nil.
func (p Pricing) EstimatedAmount() *float64 { return p.estimatedAmount }

// BookingFee returns the upfront booking fee.
func (p Pricing) BookingFee() float64 { return p.bookingFee }

// TotalFee resolves the display total for a tow-truck job: the first defined
// amount in priority order final > quoted > estimated, falling back to 0 when
// nothing is set.
func (p Pricing) TotalFee() float64 {
	for _, amount := range []*float64{p.finalAmount, p.quotedAmount, p.estimatedAmount} {
		if amount != nil {
			return *amount
		}
	}
	return 0
}

// ProviderPayout is the amount the provider earns after the booking fee is
// deducted, floored at zero.
func (p Pricing) ProviderPayout() float64 {
	payout := p.TotalFee() - p.bookingFee
	if payout < 0 {
		return 0
	}
	return payout
}

// DisplayFor resolves the (total, payout) pair shown in dispatch
// notifications for the given role. Mechanic jobs always display 0/0: the
// final price is undetermined at dispatch time, and showing a premature
// payout figure would mislead providers.
func (p Pricing) DisplayFor(role kernel.Role) (total, payout float64) {
	if role == kernel.RoleMechanic {
		return 0, 0
	}
	return p.TotalFee(), p.ProviderPayout()
}

func (p *Pricing) setAmount(dst **float64, value *float64, name string) error {
	if value == nil {
		*dst = nil
		return nil
	}
	if *value < 0 {
		return errs.NewValueIsInvalidErrorWithCause(name,
			fmt.Errorf("%g is negative", *value))
	}
	v := *value
	*dst = &v
	return nil
}

func (p *Pricing) setBookingFee(fee float64) error {
	if fee < 0 {
		return errs.NewValueIsInvalidErrorWithCause("booking fee",
			fmt.Errorf("%g is negative", fee))
	}
	p.bookingFee = fee
	return nil
}
