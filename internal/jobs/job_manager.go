package jobs

import (
	"fmt"
	"log/slog"
)

// Schedules are cron specs with an optional seconds field, or descriptors such as
// "@every 30s".
type Schedules struct {
	OfferExpiry  string
	DisputeSweep string
}

// JobManager starts and stops the sweeps together.
type JobManager struct {
	offerExpiryJob  *OfferExpiryJob
	disputeSweepJob *DisputeSweepJob
}

func NewJobManager(
	expireOffers OfferExpirer,
	flagArrivals ArrivalFlagger,
	schedules Schedules,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		offerExpiryJob:  NewOfferExpiryJob(expireOffers, schedules.OfferExpiry, logger),
		disputeSweepJob: NewDisputeSweepJob(flagArrivals, schedules.DisputeSweep, logger),
	}
}

// StartAll starts every job. If one fails to start, the ones already running are stopped.
func (jm *JobManager) StartAll() error {
	if err := jm.offerExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start offer expiry job: %w", err)
	}

	if err := jm.disputeSweepJob.Start(); err != nil {
		jm.offerExpiryJob.Stop()
		return fmt.Errorf("failed to start dispute sweep job: %w", err)
	}

	return nil
}

// StopAll stops the jobs and waits for running sweeps to finish.
func (jm *JobManager) StopAll() {
	jm.disputeSweepJob.Stop()
	jm.offerExpiryJob.Stop()
}
