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

// BroadcastResult aggregates the outcome of a broadcast per attempted
// channel: sent, provider-failed, or skipped for a missing contact or a
// disabled preference. The three counts sum to the number of
// (user, channel) pairs considered.
type BroadcastResult struct {
	Successful int
	Failed     int
	Skipped    int
}

// BroadcastNotificationCommandHandler fans an announcement out to many
// users. Each user is evaluated independently: one user's failure never
// fails the batch. Fan-out runs with bounded concurrency to respect
// provider rate limits.
type BroadcastNotificationCommandHandler struct {
	preferences   ports.PreferenceStore
	recipients    ports.RecipientDirectory
	store         ports.NotificationStore
	providers     map[notification.Channel]ports.ChannelProvider
	maxConcurrent int
	logger        *slog.Logger
}

// NewBroadcastNotificationCommandHandler creates a broadcast handler with
// the given fan-out concurrency bound.
func NewBroadcastNotificationCommandHandler(
	preferences ports.PreferenceStore,
	recipients ports.RecipientDirectory,
	store ports.NotificationStore,
	providers []ports.ChannelProvider,
	maxConcurrent int,
	logger *slog.Logger,
) BroadcastNotificationCommandHandler {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	byChannel := make(map[notification.Channel]ports.ChannelProvider, len(providers))
	for _, provider := range providers {
		byChannel[provider.Channel()] = provider
	}

	return BroadcastNotificationCommandHandler{
		preferences:   preferences,
		recipients:    recipients,
		store:         store,
		providers:     byChannel,
		maxConcurrent: maxConcurrent,
		logger:        logger.With("component", "broadcast"),
	}
}

// Handle runs the broadcast and returns the aggregated counts.
func (h *BroadcastNotificationCommandHandler) Handle(
	ctx context.Context,
	cmd BroadcastNotificationCommand,
) (BroadcastResult, error) {
	if err := cmd.Validate(); err != nil {
		return BroadcastResult{}, err
	}

	content := notification.Content{Subject: cmd.Subject(), Body: cmd.Message()}

	var (
		mu     sync.Mutex
		total  BroadcastResult
		wg     sync.WaitGroup
		tokens = make(chan struct{}, h.maxConcurrent)
	)

	for _, userID := range cmd.UserIDs() {
		wg.Add(1)
		tokens <- struct{}{}
		go func(userID kernel.UUID) {
			defer wg.Done()
			defer func() { <-tokens }()

			result := h.broadcastToUser(ctx, userID, content)

			mu.Lock()
			total.Successful += result.Successful
			total.Failed += result.Failed
			total.Skipped += result.Skipped
			mu.Unlock()
		}(userID)
	}
	wg.Wait()

	return total, nil
}

// broadcastToUser applies the per-user channel decision and attempts every
// persistent channel once.
func (h *BroadcastNotificationCommandHandler) broadcastToUser(
	ctx context.Context,
	userID kernel.UUID,
	content notification.Content,
) BroadcastResult {
	var result BroadcastResult

	recipient, err := h.recipients.GetRecipient(ctx, userID)
	if err != nil {
		h.logger.Warn("resolve broadcast target", "userId", userID.String(), "error", err)
		result.Skipped += len(notification.AllChannels())
		return result
	}

	pref, err := h.preferences.GetUserNotificationPreferences(ctx, userID)
	if err != nil {
		h.logger.Error("load preferences", "userId", userID.String(), "error", err)
		pref = nil
	}

	allowed := map[notification.Channel]bool{}
	eff := notification.MergeDefaults(pref)
	for _, channel := range eff.PlanChannels(notification.TriggerAnnouncement, time.Now()) {
		allowed[channel] = true
	}

	for _, channel := range notification.AllChannels() {
		if !allowed[channel] {
			result.Skipped++
			continue
		}
		contact, ok := recipient.ContactFor(channel)
		if !ok {
			result.Skipped++
			continue
		}
		provider, ok := h.providers[channel]
		if !ok {
			result.Skipped++
			continue
		}

		var record notification.Record
		if err := provider.Send(ctx, contact, content.Subject, content.Body); err != nil {
			result.Failed++
			record = notification.NewFailedRecord(nil, userID, channel,
				notification.TriggerAnnouncement, content.Subject, content.Body,
				err.Error(), time.Now())
		} else {
			result.Successful++
			record = notification.NewSentRecord(nil, userID, channel,
				notification.TriggerAnnouncement, content.Subject, content.Body, time.Now())
		}

		if err := h.store.CreateOrderNotification(ctx, record); err != nil {
			h.logger.Error("persist notification record",
				"userId", userID.String(), "channel", channel.String(), "error", err)
		}
	}

	return result
}
