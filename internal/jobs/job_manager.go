// Package jobs holds the background schedulers that drive the order flow
// when no inbound request does: today only the auto-dispatch loop.
package jobs

import (
	"fmt"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	dispatchJob *DispatchJob
}

// NewJobManager creates a job manager wiring the dispatch handler to its
// schedule.
func NewJobManager(
	assignCourierHandler commands.AssignCourierCommandHandler,
	dispatchSpec string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		dispatchJob: NewDispatchJob(assignCourierHandler, dispatchSpec, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.dispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start dispatch job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.dispatchJob.Stop()
}
