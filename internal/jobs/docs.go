// Package jobs provides scheduled background tasks for the fleet status engine.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field expressions with
// seconds).
//
// # Available Jobs
//
//  1. ConsistencySweepJob - walks every vehicle, driver and trip and forces a
//     drifted live status back to the newest history record
//  2. HistoryRetentionJob - deletes history older than the retention period
//
// # Usage
//
//	jobManager := jobs.NewJobManager(sweepJob, retentionJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A sweep never stops at the first bad entity: failures are counted in the
// SweepReport and logged. A failed purge is logged and retried on the next tick.
package jobs
