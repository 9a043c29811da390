package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"roadside/internal/core/domain/model/job"
	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/core/domain/model/provider"
	"roadside/internal/core/domain/services"
	"roadside/internal/core/ports"
	"roadside/internal/metrics"
)

// BroadcastJobCommandHandler runs the dispatch workflow: gate on the booking
// fee and pickup coordinates, atomically claim the Created to Broadcasted
// transition, select eligible nearby candidates, record the dispatch ledger
// and fan out push notifications.
//
// The claim is a conditional storage update, so two concurrent broadcasts of
// the same job resolve deterministically: one wins and mutates the job, the
// other observes OutcomeAlreadyBroadcasted and touches nothing.
//
// Notification delivery is best effort and happens after the transaction
// commits. A push failure never rolls back a broadcast.
type BroadcastJobCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.NotificationGateway
	logger     *slog.Logger
}

// NewBroadcastJobCommandHandler creates the broadcast handler.
func NewBroadcastJobCommandHandler(
	uowFactory UoWFactory,
	notifier ports.NotificationGateway,
	logger *slog.Logger,
) BroadcastJobCommandHandler {
	return BroadcastJobCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "broadcast_job"),
	}
}

// Handle processes one broadcast attempt and reports its outcome. Gate
// rejections (unpaid fee, missing coordinates, lost claim) are outcomes, not
// errors; errors mean the attempt itself could not run.
func (h *BroadcastJobCommandHandler) Handle(
	ctx context.Context, cmd BroadcastJobCommand,
) (DispatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return DispatchResult{}, err
	}

	result, j, candidates, err := h.broadcast(ctx, cmd)
	if err != nil {
		return DispatchResult{}, err
	}

	metrics.BroadcastsTotal.WithLabelValues(result.Outcome).Inc()
	if result.Outcome != OutcomeBroadcasted {
		h.logger.Info("broadcast rejected",
			"job_id", cmd.JobID().String(), "outcome", result.Outcome)
		return result, nil
	}

	metrics.BroadcastCandidates.Observe(float64(result.CandidateCount))
	h.logger.Info("job broadcasted",
		"job_id", cmd.JobID().String(), "candidates", result.CandidateCount)

	h.notifyCandidates(ctx, j, candidates)
	return result, nil
}

// broadcast runs the transactional part of the workflow and returns the
// broadcast job and its candidates for post-commit notification.
func (h *BroadcastJobCommandHandler) broadcast(
	ctx context.Context, cmd BroadcastJobCommand,
) (DispatchResult, *job.Job, []provider.Candidate, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DispatchResult{}, nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()
	j, err := jobRepo.Get(ctx, cmd.JobID())
	if err != nil {
		return DispatchResult{}, nil, nil, err
	}

	if !j.IsBookingFeePaid() {
		return DispatchResult{Outcome: OutcomeFeeNotPaid}, nil, nil, nil
	}

	pickup := j.Pickup()
	if pickup == nil || pickup.IsOrigin() {
		return DispatchResult{Outcome: OutcomeMissingCoordinates}, nil, nil, nil
	}

	claimed, err := jobRepo.ClaimForBroadcast(ctx, cmd.JobID())
	if err != nil {
		return DispatchResult{}, nil, nil, err
	}
	if !claimed {
		return DispatchResult{Outcome: OutcomeAlreadyBroadcasted}, nil, nil, nil
	}

	selector, err := services.NewCandidateSelector(uow.ProviderRepository(), jobRepo)
	if err != nil {
		return DispatchResult{}, nil, nil, err
	}

	candidates, err := selector.SelectForJob(ctx, j, cmd.Limit())
	if err != nil {
		if errors.Is(err, services.ErrNoCoordinates) {
			return DispatchResult{Outcome: OutcomeMissingCoordinates}, nil, nil, nil
		}
		return DispatchResult{}, nil, nil, err
	}

	candidateIDs := make([]kernel.UUID, 0, len(candidates))
	for _, c := range candidates {
		candidateIDs = append(candidateIDs, c.Provider.ID())
	}

	if err = j.Broadcast(candidateIDs, time.Now().UTC()); err != nil {
		return DispatchResult{}, nil, nil, err
	}

	if err = jobRepo.Update(ctx, j); err != nil {
		return DispatchResult{}, nil, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DispatchResult{}, nil, nil, err
	}

	return DispatchResult{
		Outcome:        OutcomeBroadcasted,
		CandidateCount: len(candidates),
	}, j, candidates, nil
}

// notifyCandidates fans the job offer out to every candidate with a push
// token and clears tokens the push service reports dead. Failures are logged
// and counted but never returned.
func (h *BroadcastJobCommandHandler) notifyCandidates(
	ctx context.Context, j *job.Job, candidates []provider.Candidate,
) {
	recipients := make([]ports.Recipient, 0, len(candidates))
	for _, c := range candidates {
		if token := c.Provider.PushToken(); token != nil {
			recipients = append(recipients, ports.Recipient{
				ProviderID: c.Provider.ID(),
				Token:      *token,
			})
		}
	}
	if len(recipients) == 0 {
		return
	}

	result, err := h.notifier.SendBatch(ctx, recipients, buildOfferMessage(j))
	if err != nil {
		h.logger.Error("notification fan-out failed",
			"job_id", j.ID().String(), "recipients", len(recipients), "error", err)
		metrics.NotificationsTotal.WithLabelValues("failed").Add(float64(len(recipients)))
		return
	}

	metrics.NotificationsTotal.WithLabelValues("delivered").Add(float64(result.SuccessCount()))
	metrics.NotificationsTotal.WithLabelValues("failed").Add(float64(result.FailureCount()))

	if dead := result.DeadRecipients(); len(dead) > 0 {
		h.clearDeadTokens(ctx, dead)
	}
}

// buildOfferMessage renders the push payload for the job. The displayed
// amounts follow the role rules: mechanics see no figures before diagnosis.
func buildOfferMessage(j *job.Job) ports.Notification {
	total, payout := j.Pricing().DisplayFor(j.Role())
	body := j.Details().Problem
	if body == "" {
		body = j.Details().PickupAddress
	}

	data := map[string]string{
		"type":            "job_offer",
		"job_id":          j.ID().String(),
		"role":            j.Role().String(),
		"pickup_address":  j.Details().PickupAddress,
		"dropoff_address": j.Details().DropoffAddress,
		"problem":         j.Details().Problem,
		"total_fee":       strconv.FormatFloat(total, 'f', -1, 64),
		"provider_payout": strconv.FormatFloat(payout, 'f', -1, 64),
	}

	switch j.Role() {
	case kernel.RoleMechanic:
		data["category"] = j.Requirements().Category
	default:
		data["tow_truck_type"] = j.Requirements().TowTruckType
		data["vehicle_type"] = j.Requirements().VehicleType
	}

	return ports.Notification{
		Title: "New job nearby",
		Body:  body,
		Data:  data,
	}
}

// clearDeadTokens removes permanently unusable tokens in their own
// transaction, after the broadcast already committed.
func (h *BroadcastJobCommandHandler) clearDeadTokens(ctx context.Context, dead []ports.Recipient) {
	tokens := make([]string, 0, len(dead))
	providerIDs := make([]string, 0, len(dead))
	for _, recipient := range dead {
		tokens = append(tokens, recipient.Token)
		providerIDs = append(providerIDs, recipient.ProviderID.String())
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.logger.Error("dead token cleanup failed", "error", err)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cleared, err := uow.ProviderRepository().ClearPushTokens(ctx, tokens)
	if err == nil {
		err = uow.Commit(ctx)
	}
	if err != nil {
		h.logger.Error("dead token cleanup failed",
			"tokens", len(tokens), "error", fmt.Errorf("clearing push tokens: %w", err))
		return
	}

	metrics.DeadTokensClearedTotal.Add(float64(cleared))
	h.logger.Info("dead push tokens cleared", "count", cleared, "providers", providerIDs)
}
