package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fooddelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DispatchJob periodically matches the oldest unassigned order with an
// available courier. An empty dispatch queue and an empty courier pool are
// normal outcomes, not errors.
type DispatchJob struct {
	handler commands.AssignCourierCommandHandler
	cron    *cron.Cron
	spec    string
	logger  *slog.Logger
}

// NewDispatchJob creates the auto-dispatch job. The spec is a cron
// expression with a seconds field, e.g. "*/5 * * * * *".
func NewDispatchJob(handler commands.AssignCourierCommandHandler, spec string, logger *slog.Logger) *DispatchJob {
	return &DispatchJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		spec:    spec,
		logger:  logger.With("component", "dispatch_job"),
	}
}

// Start schedules the job.
func (j *DispatchJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx := context.Background()
		cmd := commands.NewAssignCourierCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			if !errors.Is(err, commands.ErrNoOrderFound) && !errors.Is(err, commands.ErrNoAgentsAvailable) {
				j.logger.ErrorContext(ctx, "dispatch job failed", "error", err)
			}
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "dispatch job started", "spec", j.spec)
	return nil
}

// Stop stops the job.
func (j *DispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "dispatch job stopped")
}
