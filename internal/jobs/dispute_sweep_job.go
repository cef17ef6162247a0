package jobs

import (
	"context"
	"log/slog"

	"pharmacy/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ArrivalFlagger is satisfied by commands.FlagStaleArrivalsCommandHandler.
type ArrivalFlagger interface {
	Handle(ctx context.Context, cmd commands.FlagStaleArrivalsCommand) (commands.SweepResult, error)
}

// DisputeSweepJob flags unconfirmed arrivals on a cron schedule.
type DisputeSweepJob struct {
	handler  ArrivalFlagger
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewDisputeSweepJob(handler ArrivalFlagger, schedule string, logger *slog.Logger) *DisputeSweepJob {
	return &DisputeSweepJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "dispute_sweep_job"),
	}
}

func (j *DisputeSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispute sweep job started", "schedule", j.schedule)
	return nil
}

func (j *DisputeSweepJob) Run(ctx context.Context) {
	result, err := j.handler.Handle(ctx, commands.NewFlagStaleArrivalsCommand())
	logSweep(ctx, j.logger, "dispute", result, err)
}

func (j *DisputeSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Dispute sweep job stopped")
}
