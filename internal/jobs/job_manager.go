package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	statusAutomationJob *StatusAutomationJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	advancer StatusAdvancer,
	automationSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		statusAutomationJob: NewStatusAutomationJob(advancer, automationSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.statusAutomationJob.Start(); err != nil {
		return fmt.Errorf("failed to start status automation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully, waiting for running ticks.
func (jm *JobManager) StopAll() {
	jm.statusAutomationJob.Stop()
}
