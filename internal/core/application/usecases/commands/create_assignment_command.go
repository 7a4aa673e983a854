package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

// ErrCreateAssignmentCommandIsNotConstructed is returned when the command was
// not created via its constructor.
var ErrCreateAssignmentCommandIsNotConstructed = errors.New(
	"CreateAssignmentCommand must be created via NewCreateAssignmentCommand constructor",
)

// CreateAssignmentCommand starts rider matching for an order that just
// became ready for pickup.
type CreateAssignmentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateAssignmentCommand creates a command to open an assignment request
// for an order.
func NewCreateAssignmentCommand(orderID kernel.UUID) (CreateAssignmentCommand, error) {
	cmd := CreateAssignmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return CreateAssignmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateAssignmentCommandIsNotConstructed)
}

// OrderID returns the order to match a rider for.
func (c CreateAssignmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *CreateAssignmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
