package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrNotifyOrderEventCommandIsNotConstructed is returned when the command was
// not created via its constructor.
var ErrNotifyOrderEventCommandIsNotConstructed = errors.New(
	"NotifyOrderEventCommand must be created via NewNotifyOrderEventCommand constructor",
)

// NotifyOrderEventCommand asks the orchestrator to notify a set of
// recipients about one order event.
type NotifyOrderEventCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	recipientIDs []kernel.UUID
	trigger      notification.Trigger

	guard guard.ConstructorGuard
}

// NewNotifyOrderEventCommand creates a command to route an order event to
// its recipients through their preferred channels.
func NewNotifyOrderEventCommand(
	orderID kernel.UUID,
	recipientIDs []kernel.UUID,
	trigger notification.Trigger,
) (NotifyOrderEventCommand, error) {
	cmd := NotifyOrderEventCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRecipientIDs(recipientIDs),
		cmd.setTrigger(trigger),
	); err != nil {
		return NotifyOrderEventCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c NotifyOrderEventCommand) Validate() error {
	return c.guard.Validate(ErrNotifyOrderEventCommandIsNotConstructed)
}

// OrderID returns the order the event belongs to.
func (c NotifyOrderEventCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RecipientIDs returns the users to notify.
func (c NotifyOrderEventCommand) RecipientIDs() []kernel.UUID {
	out := make([]kernel.UUID, len(c.recipientIDs))
	copy(out, c.recipientIDs)
	return out
}

// Trigger returns the notification trigger of the event.
func (c NotifyOrderEventCommand) Trigger() notification.Trigger {
	return c.trigger
}

func (c *NotifyOrderEventCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *NotifyOrderEventCommand) setRecipientIDs(recipientIDs []kernel.UUID) error {
	if len(recipientIDs) == 0 {
		return errs.NewValueIsRequiredError("recipientIDs")
	}
	for _, id := range recipientIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.recipientIDs = make([]kernel.UUID, len(recipientIDs))
	copy(c.recipientIDs, recipientIDs)
	return nil
}

func (c *NotifyOrderEventCommand) setTrigger(trigger notification.Trigger) error {
	if err := trigger.Validate(); err != nil {
		return err
	}

	c.trigger = trigger
	return nil
}
