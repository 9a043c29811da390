package ports

import (
	"context"

	"roadside/internal/core/domain/model/kernel"
)

// Failure reasons a push delivery can report per token. The dead-token
// reasons mean the token will never work again and should be removed from
// the provider record.
const (
	// ReasonTokenNotRegistered means the device uninstalled the app or the
	// token was rotated.
	ReasonTokenNotRegistered = "registration-token-not-registered"

	// ReasonTokenInvalid means the token never was a valid registration.
	ReasonTokenInvalid = "invalid-registration-token"
)

// Recipient pairs a provider with the push token a batch delivers to, so
// outcomes and token cleanup can name the affected provider.
type Recipient struct {
	ProviderID kernel.UUID
	Token      string
}

// Notification is a rendered push message: the visible title/body pair and
// the opaque data payload the mobile app routes on.
type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// SendOutcome is the delivery result for a single recipient.
type SendOutcome struct {
	ProviderID kernel.UUID
	Token      string
	Delivered  bool

	// Reason is the failure classification when Delivered is false.
	Reason string
}

// BatchResult aggregates the per-recipient outcomes of one fan-out.
type BatchResult struct {
	Outcomes []SendOutcome
}

// SuccessCount returns the number of delivered messages.
func (r BatchResult) SuccessCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Delivered {
			n++
		}
	}
	return n
}

// FailureCount returns the number of failed deliveries.
func (r BatchResult) FailureCount() int {
	return len(r.Outcomes) - r.SuccessCount()
}

// DeadRecipients returns the recipients whose token the push service reported
// as permanently unusable. Callers should clear those tokens from the
// providers' records.
func (r BatchResult) DeadRecipients() []Recipient {
	var dead []Recipient
	for _, o := range r.Outcomes {
		if o.Reason == ReasonTokenNotRegistered || o.Reason == ReasonTokenInvalid {
			dead = append(dead, Recipient{ProviderID: o.ProviderID, Token: o.Token})
		}
	}
	return dead
}

// NotificationGateway is the outbound push-delivery port. Delivery is best
// effort: a failed or partially failed batch must never fail the business
// operation that triggered it.
type NotificationGateway interface {
	// SendBatch delivers the notification to every recipient and reports
	// per-recipient outcomes. An error is returned only when the batch could
	// not be attempted at all.
	SendBatch(ctx context.Context, recipients []Recipient, message Notification) (BatchResult, error)
}
