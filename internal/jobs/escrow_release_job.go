package jobs

import (
	"context"
	"log/slog"

	"fastdispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultReleaseSchedule runs the sweep at the top of every minute.
const DefaultReleaseSchedule = "0 * * * * *"

// EscrowReleaseJob periodically releases held escrows whose confirmation
// window has lapsed without a customer response.
type EscrowReleaseJob struct {
	handler  commands.ReleaseDueEscrowsCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewEscrowReleaseJob creates the sweep job. An empty schedule falls back to
// DefaultReleaseSchedule.
func NewEscrowReleaseJob(
	handler commands.ReleaseDueEscrowsCommandHandler,
	schedule string,
	logger *slog.Logger,
) *EscrowReleaseJob {
	if schedule == "" {
		schedule = DefaultReleaseSchedule
	}
	return &EscrowReleaseJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "escrow_release_job"),
	}
}

// Start schedules the sweep. Individual escrow failures are handled inside
// the command; only a failure of the sweep itself is logged here.
func (j *EscrowReleaseJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		if _, err := j.handler.Handle(ctx, commands.NewReleaseDueEscrowsCommand()); err != nil {
			j.logger.ErrorContext(ctx, "escrow release sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("escrow release job started", "schedule", j.schedule)
	return nil
}

// Stop stops the sweep. Already running invocations finish on their own.
func (j *EscrowReleaseJob) Stop() {
	j.cron.Stop()
	j.logger.Info("escrow release job stopped")
}
