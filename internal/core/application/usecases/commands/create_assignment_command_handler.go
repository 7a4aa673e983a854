package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ErrOrderNotReadyForAssignment is returned when matching is requested for an
// order whose status does not call for a rider.
var ErrOrderNotReadyForAssignment = errors.New("order is not ready for rider assignment")

// CreateAssignmentCommandHandler opens an assignment request for a ready
// order and makes the first offer.
//
// Creation is idempotent per order: if a non-terminal request already exists
// the handler is a no-op, keeping the one-active-request invariant when the
// same status event is delivered twice.
type CreateAssignmentCommandHandler struct {
	uowFactory AssignmentUoWFactory
	ranker     services.CandidateRanker
	policy     assignment.Policy
	publisher  ports.EventPublisher
}

// NewCreateAssignmentCommandHandler creates a handler for opening assignment
// requests.
func NewCreateAssignmentCommandHandler(
	uowFactory AssignmentUoWFactory,
	ranker services.CandidateRanker,
	policy assignment.Policy,
	publisher ports.EventPublisher,
) CreateAssignmentCommandHandler {
	return CreateAssignmentCommandHandler{
		uowFactory: uowFactory,
		ranker:     ranker,
		policy:     policy,
		publisher:  publisher,
	}
}

// Handle opens the request, searches for candidates and offers to the best
// one. When no rider is found anywhere inside the radius cap the request is
// created already exhausted and the ops alert is published.
func (h *CreateAssignmentCommandHandler) Handle(ctx context.Context, cmd CreateAssignmentCommand) error {
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

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if !aggregate.Status().RequiresCourier() {
		return fmt.Errorf("%w: order %s is %s", ErrOrderNotReadyForAssignment,
			aggregate.ID(), aggregate.Status())
	}

	assignmentRepo := uow.AssignmentRepository()
	if _, err = assignmentRepo.GetActiveByOrder(ctx, cmd.OrderID()); err == nil {
		return nil
	} else if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	request, err := assignment.NewRequest(
		kernel.NewUUID(),
		cmd.OrderID(),
		assignment.PriorityFromOrderTotal(aggregate.TotalCents()),
		aggregate.PickupLocation(),
		aggregate.DeliveryLocation(),
		h.policy,
		time.Now(),
	)
	if err != nil {
		return err
	}

	if _, err = runOfferRound(ctx, uow, h.ranker, request, time.Now()); err != nil {
		return err
	}

	if err = assignmentRepo.Add(ctx, request); err != nil {
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
