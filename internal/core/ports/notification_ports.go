package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
)

// PreferenceStore loads stored notification preferences.
type PreferenceStore interface {
	// GetUserNotificationPreferences retrieves the stored preference for a
	// user, or nil when none exists. A nil preference means the all-enabled
	// defaults apply.
	GetUserNotificationPreferences(ctx context.Context, userID kernel.UUID) (*notification.Preference, error)
}

// RecipientDirectory resolves user IDs to their contact details.
type RecipientDirectory interface {
	// GetRecipient retrieves the contact-book view of a user.
	// Returns errs.ErrObjectNotFound when no such user exists.
	GetRecipient(ctx context.Context, userID kernel.UUID) (notification.Recipient, error)
}

// NotificationStore is the write-only sink for delivery records.
type NotificationStore interface {
	// CreateOrderNotification persists one delivery attempt. Records are
	// immutable once written.
	CreateOrderNotification(ctx context.Context, record notification.Record) error
}

// ChannelProvider sends one message through one external channel. Email, SMS
// and push are three independent implementations behind this contract; the
// orchestrator is written once against it.
type ChannelProvider interface {
	// Channel identifies which channel this provider serves.
	Channel() notification.Channel

	// Send delivers the message to the given address. A non-nil error is
	// recorded as a failed attempt and never propagates to the order
	// pipeline.
	Send(ctx context.Context, contact string, subject string, body string) error
}
