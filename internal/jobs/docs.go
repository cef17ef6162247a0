// Package jobs runs the periodic sweeps of the order lifecycle on github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. OfferExpiryJob returns offers left unanswered past the offer timeout to ready for delivery.
// 2. DisputeSweepJob flags arrivals the patient has not confirmed within the dispute grace window.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(expireHandler, flagHandler, jobs.Schedules{
//		OfferExpiry:  "@every 30s",
//		DisputeSweep: "@every 1m",
//	}, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A sweep keeps going past orders that fail; the joined error is logged once per run.
// Orders that moved on concurrently are counted as skipped and are not errors.
package jobs
