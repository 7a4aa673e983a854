package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

// ErrRespondToOfferCommandIsNotConstructed is returned when the command was
// not created via its constructor.
var ErrRespondToOfferCommandIsNotConstructed = errors.New(
	"RespondToOfferCommand must be created via NewRespondToOfferCommand constructor",
)

// RespondToOfferCommand carries a rider's answer to an outstanding offer.
type RespondToOfferCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	riderID kernel.UUID
	accept  bool

	guard guard.ConstructorGuard
}

// NewRespondToOfferCommand creates a command recording that a rider accepted
// or declined the offer for an order.
func NewRespondToOfferCommand(orderID, riderID kernel.UUID, accept bool) (RespondToOfferCommand, error) {
	cmd := RespondToOfferCommand{
		accept: accept,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRiderID(riderID),
	); err != nil {
		return RespondToOfferCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RespondToOfferCommand) Validate() error {
	return c.guard.Validate(ErrRespondToOfferCommandIsNotConstructed)
}

// OrderID returns the order the offer belongs to.
func (c RespondToOfferCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RiderID returns the responding rider.
func (c RespondToOfferCommand) RiderID() kernel.UUID {
	return c.riderID
}

// Accept reports whether the rider took the order.
func (c RespondToOfferCommand) Accept() bool {
	return c.accept
}

func (c *RespondToOfferCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RespondToOfferCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	c.riderID = riderID
	return nil
}
