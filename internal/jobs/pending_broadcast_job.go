package jobs

import (
	"context"
	"errors"
	"log/slog"

	"roadside/internal/core/application/usecases/commands"
	"roadside/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// PendingBroadcastJob sweeps for paid jobs stuck in Created status and
// broadcasts them. It backstops the API-triggered broadcast: jobs whose
// broadcast call failed, and jobs reopened after a whole round of declines,
// get picked up on the next sweep.
//
// The sweep processes one job per tick. The broadcast claim is atomic, so a
// sweep racing an API broadcast of the same job is harmless.
type PendingBroadcastJob struct {
	uowFactory commands.JobUoWFactory
	handler    commands.BroadcastJobCommandHandler
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewPendingBroadcastJob creates the sweeper. Uses BroadcastJobCommandHandler
// to dispatch the oldest paid pending job every five seconds.
func NewPendingBroadcastJob(
	uowFactory commands.JobUoWFactory,
	handler commands.BroadcastJobCommandHandler,
	logger *slog.Logger,
) *PendingBroadcastJob {
	return &PendingBroadcastJob{
		uowFactory: uowFactory,
		handler:    handler,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "pending_broadcast_job"),
	}
}

// Start begins the sweep to run every five seconds.
func (j *PendingBroadcastJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		ctx := context.Background()

		if err := j.sweep(ctx); err != nil {
			// An empty queue is the normal case, not a failure.
			if !errors.Is(err, errs.ErrObjectNotFound) {
				j.logger.ErrorContext(ctx, "Pending broadcast sweep failed", "error", err)
			}
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(),
		"Pending broadcast job started (running every five seconds)")
	return nil
}

// Stop stops the sweep.
func (j *PendingBroadcastJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Pending broadcast job stopped")
}

// sweep finds the oldest broadcast-eligible job and runs one dispatch attempt
// for it with the default candidate limit.
func (j *PendingBroadcastJob) sweep(ctx context.Context) error {
	uow := j.uowFactory.Create()

	pending, err := uow.JobRepository().GetFirstPaidInCreatedStatus(ctx)
	if err != nil {
		return err
	}

	cmd, err := commands.NewBroadcastJobCommand(pending.ID(), 0)
	if err != nil {
		return err
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		return err
	}

	j.logger.InfoContext(ctx, "Pending job swept",
		"job_id", pending.ID().String(),
		"outcome", result.Outcome,
		"candidates", result.CandidateCount)
	return nil
}
