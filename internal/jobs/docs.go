// Package jobs provides scheduled background tasks for the fulfillment service.
//
// Jobs are built on github.com/robfig/cron/v3 with a seconds field.
//
// # Available Jobs
//
// StatusAutomationJob runs AdvanceStatusesCommand on AUTOMATION_SCHEDULE
// (default "0 * * * * *", once a minute). Each tick moves every order whose
// age crossed a stage threshold one hop forward.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(&advanceHandler, cfg.AutomationSchedule, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Shutdown
//
// StopAll returns once a tick in progress has finished, so the queue is never
// left halfway through a batch.
package jobs
