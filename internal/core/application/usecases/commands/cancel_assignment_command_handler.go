package commands

import (
	"context"
	"errors"

	"dispatch/internal/pkg/errs"
)

// CancelAssignmentCommandHandler marks the active request of a cancelled
// order as cancelled. The timeout sweep skips cancelled requests, so the
// pending offer deadline dies with the request.
type CancelAssignmentCommandHandler struct {
	uowFactory AssignmentUoWFactory
}

// NewCancelAssignmentCommandHandler creates a handler for assignment
// cancellation.
func NewCancelAssignmentCommandHandler(uowFactory AssignmentUoWFactory) CancelAssignmentCommandHandler {
	return CancelAssignmentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle cancels the active request if one exists. An order with no request
// in flight is a no-op.
func (h *CancelAssignmentCommandHandler) Handle(ctx context.Context, cmd CancelAssignmentCommand) error {
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

	assignmentRepo := uow.AssignmentRepository()
	request, err := assignmentRepo.GetActiveByOrder(ctx, cmd.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err = request.Cancel(); err != nil {
		return err
	}
	if err = assignmentRepo.Update(ctx, request); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
