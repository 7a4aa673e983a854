package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrBroadcastNotificationCommandIsNotConstructed is returned when the
// command was not created via its constructor.
var ErrBroadcastNotificationCommandIsNotConstructed = errors.New(
	"BroadcastNotificationCommand must be created via NewBroadcastNotificationCommand constructor",
)

// BroadcastNotificationCommand sends one announcement to many users, each
// evaluated against their own preferences.
type BroadcastNotificationCommand struct { //nolint:recvcheck //using for validation
	userIDs []kernel.UUID
	subject string
	message string

	guard guard.ConstructorGuard
}

// NewBroadcastNotificationCommand creates a command to fan an announcement
// out to the given users.
func NewBroadcastNotificationCommand(
	userIDs []kernel.UUID,
	subject string,
	message string,
) (BroadcastNotificationCommand, error) {
	cmd := BroadcastNotificationCommand{
		subject: subject,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserIDs(userIDs),
		cmd.setMessage(message),
	); err != nil {
		return BroadcastNotificationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c BroadcastNotificationCommand) Validate() error {
	return c.guard.Validate(ErrBroadcastNotificationCommandIsNotConstructed)
}

// UserIDs returns the broadcast targets.
func (c BroadcastNotificationCommand) UserIDs() []kernel.UUID {
	out := make([]kernel.UUID, len(c.userIDs))
	copy(out, c.userIDs)
	return out
}

// Subject returns the announcement subject.
func (c BroadcastNotificationCommand) Subject() string {
	return c.subject
}

// Message returns the announcement body.
func (c BroadcastNotificationCommand) Message() string {
	return c.message
}

func (c *BroadcastNotificationCommand) setUserIDs(userIDs []kernel.UUID) error {
	if len(userIDs) == 0 {
		return errs.NewValueIsRequiredError("userIDs")
	}
	for _, id := range userIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.userIDs = make([]kernel.UUID, len(userIDs))
	copy(c.userIDs, userIDs)
	return nil
}

func (c *BroadcastNotificationCommand) setMessage(message string) error {
	if message == "" {
		return errs.NewValueIsRequiredError("message")
	}

	c.message = message
	return nil
}
