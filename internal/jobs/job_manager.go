// Package jobs holds the scheduled background work of the engine. Jobs are
// cron-driven wrappers around application commands; all business rules stay
// in the command handlers.
package jobs

import (
	"fmt"
	"log/slog"

	"fastdispatch/internal/core/application/usecases/commands"
)

// JobManager starts and stops every scheduled job as one unit.
type JobManager struct {
	escrowReleaseJob *EscrowReleaseJob
}

// NewJobManager wires the scheduled jobs to their command handlers.
func NewJobManager(
	releaseDueEscrowsHandler commands.ReleaseDueEscrowsCommandHandler,
	releaseSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		escrowReleaseJob: NewEscrowReleaseJob(releaseDueEscrowsHandler, releaseSchedule, logger),
	}
}

// StartAll starts every scheduled job.
func (jm *JobManager) StartAll() error {
	if err := jm.escrowReleaseJob.Start(); err != nil {
		return fmt.Errorf("failed to start escrow release job: %w", err)
	}
	return nil
}

// StopAll stops every scheduled job.
func (jm *JobManager) StopAll() {
	jm.escrowReleaseJob.Stop()
}
