package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// ExpireOffersCommandHandler treats expired offers as rejections: the silent
// rider joins the exclusion list and the next offer round runs.
//
// Each expired request is processed in its own transaction so one poisoned
// row cannot stall the whole sweep. The status-guarded update makes the
// sweep race-safe against concurrent acceptance: whoever flips the status
// away from offered first wins, the other side is a no-op. Requests
// cancelled after their order was cancelled never show up as expired.
type ExpireOffersCommandHandler struct {
	uowFactory AssignmentUoWFactory
	ranker     services.CandidateRanker
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewExpireOffersCommandHandler creates a handler for the timeout sweep.
func NewExpireOffersCommandHandler(
	uowFactory AssignmentUoWFactory,
	ranker services.CandidateRanker,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ExpireOffersCommandHandler {
	return ExpireOffersCommandHandler{
		uowFactory: uowFactory,
		ranker:     ranker,
		publisher:  publisher,
		logger:     logger.With("component", "expire_offers"),
	}
}

// Handle runs one sweep over all expired offers. Failures on individual
// requests are logged and do not stop the rest of the sweep.
func (h *ExpireOffersCommandHandler) Handle(ctx context.Context, cmd ExpireOffersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	expired, err := h.listExpired(ctx)
	if err != nil {
		return err
	}

	for _, request := range expired {
		if err := h.expireOne(ctx, request.ID()); err != nil {
			h.logger.Error("expire offer",
				"requestId", request.ID().String(),
				"orderId", request.OrderID().String(),
				"error", err)
		}
	}

	return nil
}

func (h *ExpireOffersCommandHandler) listExpired(ctx context.Context) ([]*assignment.Request, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.AssignmentRepository().GetExpiredOffers(ctx)
}

// expireOne converts one expired offer into a rejection and re-offers. A
// lost race against acceptance or an earlier sweep is a clean no-op.
func (h *ExpireOffersCommandHandler) expireOne(ctx context.Context, requestID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	assignmentRepo := uow.AssignmentRepository()
	request, err := assignmentRepo.Get(ctx, requestID)
	if err != nil {
		return err
	}
	if !request.IsOfferExpired(time.Now()) {
		return nil
	}

	won, err := assignmentRepo.UpdateStatusGuarded(ctx,
		request.ID(), assignment.Offered, assignment.Timeout)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	silentRider := request.OfferedRider()
	if silentRider == nil {
		return nil
	}
	if err = request.RegisterRejection(*silentRider, time.Now()); err != nil {
		return err
	}

	if request.Status() == assignment.Pending {
		if _, err = runOfferRound(ctx, uow, h.ranker, request, time.Now()); err != nil {
			return err
		}
	}

	if err = assignmentRepo.Update(ctx, request); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if request.Status() == assignment.Exhausted {
		h.publisher.PublishRequestExhausted(ctx, assignment.RequestExhausted{
			RequestID:  request.ID(),
			OrderID:    request.OrderID(),
			Attempts:   request.Attempts(),
			OccurredAt: time.Now(),
		})
	}

	return nil
}
