package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultAutomationSchedule runs the tick at the start of every minute.
const DefaultAutomationSchedule = "0 * * * * *"

// StatusAdvancer runs one automation tick.
type StatusAdvancer interface {
	Handle(ctx context.Context, cmd commands.AdvanceStatusesCommand) (commands.TickReport, error)
}

// StatusAutomationJob advances orders through the preparation stages on a
// cron schedule with a seconds field. A tick that is still running when the
// next one is due makes the next one skip.
type StatusAutomationJob struct {
	handler  StatusAdvancer
	schedule string
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewStatusAutomationJob creates the job. An empty schedule means DefaultAutomationSchedule.
func NewStatusAutomationJob(handler StatusAdvancer, schedule string, logger *slog.Logger) *StatusAutomationJob {
	if schedule == "" {
		schedule = DefaultAutomationSchedule
	}

	return &StatusAutomationJob{
		handler:  handler,
		schedule: schedule,
		now:      time.Now,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With("component", "status_automation_job"),
	}
}

// Start schedules the tick. The schedule is validated here.
func (j *StatusAutomationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Status automation tick failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid automation schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Status automation job started", "schedule", j.schedule)
	return nil
}

// RunOnce executes a single tick synchronously.
func (j *StatusAutomationJob) RunOnce(ctx context.Context) (commands.TickReport, error) {
	cmd, err := commands.NewAdvanceStatusesCommand(j.now())
	if err != nil {
		return commands.TickReport{}, err
	}
	return j.handler.Handle(ctx, cmd)
}

// Stop unschedules the tick and waits for a running one to finish.
func (j *StatusAutomationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Status automation job stopped")
}
