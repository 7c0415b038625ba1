// Package jobs provides scheduled background tasks for the fulfillment service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. PayoutSubmissionJob - claims pending payouts and submits them to the payment rail
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(submitPayoutsHandler, "*/10 * * * * *", 100, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are six-field cron expressions with a leading seconds field.
// Overlapping runs are skipped, and each payout is claimed in its own
// transaction, so two service instances never submit the same payout twice.
//
// # Error Handling
//
// - A failed pass is logged at error level; the next tick retries the remaining pending payouts
// - Rail rejections are recorded on the payout and counted, not logged as pass failures
// - An invalid schedule or batch size fails StartAll
package jobs
