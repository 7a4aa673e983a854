package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/ports"
)

// NotifyOrderEventCommandHandler routes one order event to its recipients.
//
// Per recipient it loads the stored preference (absent means all-enabled
// defaults), runs the trigger/urgency/quiet-hours decision, and sends over
// every allowed channel concurrently. Every send attempt is persisted as a
// delivery record, sent or failed; provider failures are recorded and
// swallowed, never retried and never surfaced to the order pipeline.
type NotifyOrderEventCommandHandler struct {
	preferences ports.PreferenceStore
	recipients  ports.RecipientDirectory
	store       ports.NotificationStore
	providers   map[notification.Channel]ports.ChannelProvider
	logger      *slog.Logger
}

// NewNotifyOrderEventCommandHandler creates the orchestrator handler over
// the given channel providers.
func NewNotifyOrderEventCommandHandler(
	preferences ports.PreferenceStore,
	recipients ports.RecipientDirectory,
	store ports.NotificationStore,
	providers []ports.ChannelProvider,
	logger *slog.Logger,
) NotifyOrderEventCommandHandler {
	byChannel := make(map[notification.Channel]ports.ChannelProvider, len(providers))
	for _, provider := range providers {
		byChannel[provider.Channel()] = provider
	}

	return NotifyOrderEventCommandHandler{
		preferences: preferences,
		recipients:  recipients,
		store:       store,
		providers:   byChannel,
		logger:      logger.With("component", "notification_orchestrator"),
	}
}

// Handle notifies every recipient of the command. Recipient-level failures
// are logged and do not affect the other recipients.
func (h *NotifyOrderEventCommandHandler) Handle(ctx context.Context, cmd NotifyOrderEventCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	orderID := cmd.OrderID()
	content, ok := notification.RenderContent(cmd.Trigger(), shortOrderRef(orderID))
	if !ok {
		h.logger.Warn("no content template for trigger", "trigger", cmd.Trigger().String())
		return nil
	}

	for _, recipientID := range cmd.RecipientIDs() {
		h.notifyRecipient(ctx, &orderID, recipientID, cmd.Trigger(), content)
	}

	return nil
}

// notifyRecipient runs the channel decision for one recipient and fires the
// allowed channels concurrently.
func (h *NotifyOrderEventCommandHandler) notifyRecipient(
	ctx context.Context,
	orderID *kernel.UUID,
	recipientID kernel.UUID,
	trigger notification.Trigger,
	content notification.Content,
) {
	recipient, err := h.recipients.GetRecipient(ctx, recipientID)
	if err != nil {
		h.logger.Error("resolve recipient", "recipientId", recipientID.String(), "error", err)
		return
	}

	pref, err := h.preferences.GetUserNotificationPreferences(ctx, recipientID)
	if err != nil {
		h.logger.Error("load preferences", "recipientId", recipientID.String(), "error", err)
		pref = nil
	}

	channels := notification.MergeDefaults(pref).PlanChannels(trigger, time.Now())
	if len(channels) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, channel := range channels {
		contact, ok := recipient.ContactFor(channel)
		if !ok {
			continue
		}
		provider, ok := h.providers[channel]
		if !ok {
			h.logger.Warn("no provider for channel", "channel", channel.String())
			continue
		}

		wg.Add(1)
		go func(channel notification.Channel, provider ports.ChannelProvider, contact string) {
			defer wg.Done()
			h.deliver(ctx, orderID, recipient.ID, channel, provider, contact, trigger, content)
		}(channel, provider, contact)
	}
	wg.Wait()
}

// deliver makes one send attempt and persists its record.
func (h *NotifyOrderEventCommandHandler) deliver(
	ctx context.Context,
	orderID *kernel.UUID,
	recipientID kernel.UUID,
	channel notification.Channel,
	provider ports.ChannelProvider,
	contact string,
	trigger notification.Trigger,
	content notification.Content,
) {
	var record notification.Record
	if err := provider.Send(ctx, contact, content.Subject, content.Body); err != nil {
		h.logger.Warn("channel delivery failed",
			"channel", channel.String(),
			"recipientId", recipientID.String(),
			"error", err)
		record = notification.NewFailedRecord(orderID, recipientID, channel, trigger,
			content.Subject, content.Body, err.Error(), time.Now())
	} else {
		record = notification.NewSentRecord(orderID, recipientID, channel, trigger,
			content.Subject, content.Body, time.Now())
	}

	if err := h.store.CreateOrderNotification(ctx, record); err != nil {
		h.logger.Error("persist notification record",
			"recipientId", recipientID.String(),
			"channel", channel.String(),
			"error", err)
	}
}

// shortOrderRef renders the customer-facing short reference of an order.
func shortOrderRef(orderID kernel.UUID) string {
	s := orderID.String()
	if len(s) > 8 {
		s = s[:8]
	}
	return "#" + s
}
