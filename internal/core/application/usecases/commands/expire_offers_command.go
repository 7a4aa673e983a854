package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

// ErrExpireOffersCommandIsNotConstructed is returned when the command was not
// created via its constructor.
var ErrExpireOffersCommandIsNotConstructed = errors.New(
	"ExpireOffersCommand must be created via NewExpireOffersCommand constructor",
)

// ExpireOffersCommand sweeps offers that passed their response deadline. It
// is issued by the scheduler on every tick and carries no parameters.
type ExpireOffersCommand struct {
	guard guard.ConstructorGuard
}

// NewExpireOffersCommand creates a command to run one timeout sweep.
func NewExpireOffersCommand() (ExpireOffersCommand, error) {
	return ExpireOffersCommand{
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ExpireOffersCommand) Validate() error {
	return c.guard.Validate(ErrExpireOffersCommandIsNotConstructed)
}
