package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OfferTimeoutJob sweeps expired rider offers. Runs every second so an offer
// is treated as rejected within about a second of its deadline passing.
type OfferTimeoutJob struct {
	handler commands.ExpireOffersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOfferTimeoutJob creates a new job for expiring rider offers.
// Uses ExpireOffersCommandHandler to process the sweep every second.
func NewOfferTimeoutJob(handler commands.ExpireOffersCommandHandler, logger *slog.Logger) *OfferTimeoutJob {
	return &OfferTimeoutJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "offer_timeout_job"),
	}
}

// Start begins the offer timeout sweep to run every second.
func (j *OfferTimeoutJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		cmd, cmdErr := commands.NewExpireOffersCommand()
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Offer timeout command construction failed", "error", cmdErr)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Offer timeout sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer timeout job started (running every second)")
	return nil
}

// Stop stops the offer timeout job.
func (j *OfferTimeoutJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Offer timeout job stopped")
}
