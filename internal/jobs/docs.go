// Package jobs provides scheduled background tasks for the lot tracking service.
//
// Jobs are cron-based using github.com/robfig/cron/v3 with a seconds field.
//
// # Available Jobs
//
// 1. OverdueReworkJob - hourly by default, sends one reminder per unit held for
// rework longer than the configured threshold (7 days by default)
//
// # Usage
//
//	job := jobs.NewOverdueReworkJob(flagHandler, threshold, "0 0 * * * *", metrics, logger)
//	jobManager := jobs.NewJobManager(job)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A failed scan is logged and recorded; the next scheduled run retries
// - Failed job starts will stop any already running jobs
package jobs
