package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrTransitionOrderCommandIsNotConstructed is returned when the command was
// not created via its constructor.
var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand requests one order status change on behalf of an
// actor (order service, restaurant, rider app or support staff).
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	to      order.Status
	actorID string
	notes   string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to move an order to a new
// status. The target status must be a defined lifecycle status and the actor
// must be identified; whether the edge is legal is decided by the aggregate
// inside the transaction.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	to order.Status,
	actorID string,
	notes string,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTo(to),
		cmd.setActorID(actorID),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// To returns the requested target status.
func (c TransitionOrderCommand) To() order.Status {
	return c.to
}

// ActorID returns who requested the change.
func (c TransitionOrderCommand) ActorID() string {
	return c.actorID
}

// Notes returns the optional free-form note for the history entry.
func (c TransitionOrderCommand) Notes() string {
	return c.notes
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTo(to order.Status) error {
	if err := to.Validate(); err != nil {
		return err
	}

	c.to = to
	return nil
}

func (c *TransitionOrderCommand) setActorID(actorID string) error {
	if actorID == "" {
		return errs.NewValueIsRequiredError("actorID")
	}

	c.actorID = actorID
	return nil
}
