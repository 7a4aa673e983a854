package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// RespondToOfferCommandHandler resolves a rider's answer to an offer.
//
// Acceptance races against the timeout sweep: both compete on a
// status-guarded update away from offered, and exactly one wins. A rider
// whose acceptance lost the race gets assignment.ErrOfferAlreadyResolved,
// surfaced to the rider app as "offer no longer available".
type RespondToOfferCommandHandler struct {
	uowFactory AssignmentUoWFactory
	ranker     services.CandidateRanker
	publisher  ports.EventPublisher
}

// NewRespondToOfferCommandHandler creates a handler for offer responses.
func NewRespondToOfferCommandHandler(
	uowFactory AssignmentUoWFactory,
	ranker services.CandidateRanker,
	publisher ports.EventPublisher,
) RespondToOfferCommandHandler {
	return RespondToOfferCommandHandler{
		uowFactory: uowFactory,
		ranker:     ranker,
		publisher:  publisher,
	}
}

// Handle applies the response. On acceptance the rider is attached to the
// order and its active-order count moves up; on rejection the rider joins
// the exclusion list and the next offer round runs immediately.
func (h *RespondToOfferCommandHandler) Handle(ctx context.Context, cmd RespondToOfferCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	request, err := uow.AssignmentRepository().GetActiveByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if request.Status() != assignment.Offered || request.OfferedRider() == nil ||
		!request.OfferedRider().IsEqual(cmd.RiderID()) {
		return assignment.ErrOfferAlreadyResolved
	}

	if cmd.Accept() {
		return h.accept(ctx, uow, request, cmd)
	}
	return h.reject(ctx, uow, request, cmd)
}

func (h *RespondToOfferCommandHandler) accept(
	ctx context.Context,
	uow AssignmentUoW,
	request *assignment.Request,
	cmd RespondToOfferCommand,
) error {
	won, err := uow.AssignmentRepository().UpdateStatusGuarded(ctx,
		request.ID(), assignment.Offered, assignment.Accepted)
	if err != nil {
		return err
	}
	if !won {
		return assignment.ErrOfferAlreadyResolved
	}

	if err = request.Accept(cmd.RiderID(), time.Now()); err != nil {
		return err
	}
	if err = uow.AssignmentRepository().Update(ctx, request); err != nil {
		return err
	}

	riderRepo := uow.RiderRepository()
	courier, err := riderRepo.GetForUpdate(ctx, cmd.RiderID())
	if err != nil {
		return err
	}
	if err = courier.TakeOrder(); err != nil {
		return err
	}
	if err = riderRepo.Update(ctx, courier); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = aggregate.AssignRider(cmd.RiderID()); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishRiderAssigned(ctx, assignment.RiderAssigned{
		RequestID:  request.ID(),
		OrderID:    request.OrderID(),
		RiderID:    cmd.RiderID(),
		OccurredAt: time.Now(),
	})

	return nil
}

func (h *RespondToOfferCommandHandler) reject(
	ctx context.Context,
	uow AssignmentUoW,
	request *assignment.Request,
	cmd RespondToOfferCommand,
) error {
	won, err := uow.AssignmentRepository().UpdateStatusGuarded(ctx,
		request.ID(), assignment.Offered, assignment.Rejected)
	if err != nil {
		return err
	}
	if !won {
		return assignment.ErrOfferAlreadyResolved
	}

	if err = request.RegisterRejection(cmd.RiderID(), time.Now()); err != nil {
		return err
	}

	if request.Status() == assignment.Pending {
		if _, err = runOfferRound(ctx, uow, h.ranker, request, time.Now()); err != nil {
			return err
		}
	}

	if err = uow.AssignmentRepository().Update(ctx, request); err != nil {
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
