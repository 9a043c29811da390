// Package push implements the outbound notification port against the FCM
// legacy HTTP API: one POST per batch with registration_ids fan-out and
// per-token results.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"roadside/internal/core/ports"
	"roadside/internal/pkg/errs"
)

const defaultTimeout = 10 * time.Second

// Error strings the FCM legacy API reports for tokens that will never work
// again.
const (
	fcmErrorNotRegistered       = "NotRegistered"
	fcmErrorInvalidRegistration = "InvalidRegistration"
	fcmErrorMismatchSenderID    = "MismatchSenderId"
)

// FCMGateway sends push notifications through the FCM legacy HTTP endpoint.
type FCMGateway struct {
	endpoint  string
	serverKey string
	client    *http.Client
}

// NewFCMGateway creates a gateway for the given endpoint and server key. A
// nil client falls back to one with a 10 second timeout.
func NewFCMGateway(endpoint, serverKey string, client *http.Client) (*FCMGateway, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errs.NewValueIsRequiredError("endpoint")
	}
	if strings.TrimSpace(serverKey) == "" {
		return nil, errs.NewValueIsRequiredError("server key")
	}

	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &FCMGateway{
		endpoint:  endpoint,
		serverKey: serverKey,
		client:    client,
	}, nil
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmRequest struct {
	RegistrationIDs []string          `json:"registration_ids"`
	Notification    fcmNotification   `json:"notification"`
	Data            map[string]string `json:"data,omitempty"`
}

type fcmResult struct {
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

type fcmResponse struct {
	Success int         `json:"success"`
	Failure int         `json:"failure"`
	Results []fcmResult `json:"results"`
}

// SendBatch delivers the notification to every recipient in one request.
// Returns an error only when the batch itself could not be attempted;
// per-recipient failures are reported in the result.
func (g *FCMGateway) SendBatch(
	ctx context.Context, recipients []ports.Recipient, message ports.Notification,
) (ports.BatchResult, error) {
	if len(recipients) == 0 {
		return ports.BatchResult{}, nil
	}

	tokens := make([]string, 0, len(recipients))
	for _, recipient := range recipients {
		tokens = append(tokens, recipient.Token)
	}

	payload, err := json.Marshal(fcmRequest{
		RegistrationIDs: tokens,
		Notification:    fcmNotification{Title: message.Title, Body: message.Body},
		Data:            message.Data,
	})
	if err != nil {
		return ports.BatchResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return ports.BatchResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+g.serverKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return ports.BatchResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.BatchResult{}, fmt.Errorf("push service returned status %d", resp.StatusCode)
	}

	var decoded fcmResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.BatchResult{}, fmt.Errorf("decoding push service response: %w", err)
	}

	return buildResult(recipients, decoded), nil
}

// buildResult pairs response results with recipients positionally, the
// contract of the legacy API. A short results array leaves the remaining
// recipients marked undelivered without a classification.
func buildResult(recipients []ports.Recipient, decoded fcmResponse) ports.BatchResult {
	outcomes := make([]ports.SendOutcome, 0, len(recipients))
	for i, recipient := range recipients {
		outcome := ports.SendOutcome{
			ProviderID: recipient.ProviderID,
			Token:      recipient.Token,
		}

		if i < len(decoded.Results) {
			result := decoded.Results[i]
			outcome.Delivered = result.Error == ""
			outcome.Reason = classifyError(result.Error)
		} else {
			outcome.Reason = "missing-result"
		}

		outcomes = append(outcomes, outcome)
	}
	return ports.BatchResult{Outcomes: outcomes}
}

func classifyError(fcmError string) string {
	switch fcmError {
	case "":
		return ""
	case fcmErrorNotRegistered, fcmErrorMismatchSenderID:
		return ports.ReasonTokenNotRegistered
	case fcmErrorInvalidRegistration:
		return ports.ReasonTokenInvalid
	default:
		return fcmError
	}
}
