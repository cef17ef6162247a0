package jobs

import (
	"context"
	"log/slog"

	"pharmacy/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OfferExpirer is satisfied by commands.ExpireOffersCommandHandler.
type OfferExpirer interface {
	Handle(ctx context.Context, cmd commands.ExpireOffersCommand) (commands.SweepResult, error)
}

// OfferExpiryJob expires stale courier offers on a cron schedule.
type OfferExpiryJob struct {
	handler  OfferExpirer
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewOfferExpiryJob(handler OfferExpirer, schedule string, logger *slog.Logger) *OfferExpiryJob {
	return &OfferExpiryJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "offer_expiry_job"),
	}
}

func (j *OfferExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer expiry job started", "schedule", j.schedule)
	return nil
}

// Run performs one sweep.
func (j *OfferExpiryJob) Run(ctx context.Context) {
	result, err := j.handler.Handle(ctx, commands.NewExpireOffersCommand())
	logSweep(ctx, j.logger, "offer expiry", result, err)
}

func (j *OfferExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Offer expiry job stopped")
}

func logSweep(ctx context.Context, logger *slog.Logger, name string, result commands.SweepResult, err error) {
	if err != nil {
		logger.ErrorContext(ctx, "Sweep failed", "sweep", name,
			"processed", result.Processed, "skipped", result.Skipped, "error", err)
		return
	}
	if result.Processed > 0 || result.Skipped > 0 {
		logger.InfoContext(ctx, "Sweep finished", "sweep", name,
			"processed", result.Processed, "skipped", result.Skipped)
	}
}
