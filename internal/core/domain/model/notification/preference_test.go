package notification_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func stringPtr(v string) *string { return &v }

// at builds a clock reading on an arbitrary day.
func at(t *testing.T, hhmm string) time.Time {
	t.Helper()

	parsed, err := time.Parse("15:04", hhmm)
	require.NoError(t, err)
	return time.Date(2025, 6, 15, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
}

func quietNights() notification.EffectivePreference {
	return notification.MergeDefaults(&notification.Preference{
		QuietHoursEnabled: boolPtr(true),
		QuietStart:        stringPtr("22:00"),
		QuietEnd:          stringPtr("08:00"),
	})
}

func TestMergeDefaults(t *testing.T) {
	t.Run("absent record means everything enabled and quiet hours off", func(t *testing.T) {
		eff := notification.MergeDefaults(nil)

		for _, channel := range notification.AllChannels() {
			assert.True(t, eff.ChannelEnabled(channel))
		}
		assert.True(t, eff.TriggerEnabled(notification.TriggerOrderDelivered))
		assert.False(t, eff.QuietHoursEnabled())
		assert.False(t, eff.InQuietHours(at(t, "23:30")))
	})

	t.Run("set fields override defaults, unset fields keep them", func(t *testing.T) {
		eff := notification.MergeDefaults(&notification.Preference{
			SMSEnabled: boolPtr(false),
			Triggers:   map[notification.Trigger]bool{notification.TriggerOrderPreparing: false},
		})

		assert.False(t, eff.ChannelEnabled(notification.ChannelSMS))
		assert.True(t, eff.ChannelEnabled(notification.ChannelEmail))
		assert.False(t, eff.TriggerEnabled(notification.TriggerOrderPreparing))
		assert.True(t, eff.TriggerEnabled(notification.TriggerOrderConfirmed))
	})
}

func TestEffectivePreference_InQuietHours(t *testing.T) {
	t.Run("window wrapping midnight", func(t *testing.T) {
		eff := quietNights()

		tests := []struct {
			clock string
			want  bool
		}{
			{"23:30", true},
			{"02:00", true},
			{"22:00", true},
			{"09:00", false},
			{"21:59", false},
			{"08:00", false}, // end is exclusive
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, eff.InQuietHours(at(t, tt.clock)), "at %s", tt.clock)
		}
	})

	t.Run("window inside one day", func(t *testing.T) {
		eff := notification.MergeDefaults(&notification.Preference{
			QuietHoursEnabled: boolPtr(true),
			QuietStart:        stringPtr("13:00"),
			QuietEnd:          stringPtr("15:00"),
		})

		assert.False(t, eff.InQuietHours(at(t, "12:59")))
		assert.True(t, eff.InQuietHours(at(t, "13:00")))
		assert.True(t, eff.InQuietHours(at(t, "14:30")))
		assert.False(t, eff.InQuietHours(at(t, "15:00")))
	})

	t.Run("disabled window is never quiet", func(t *testing.T) {
		eff := notification.MergeDefaults(&notification.Preference{
			QuietStart: stringPtr("22:00"),
			QuietEnd:   stringPtr("08:00"),
		})

		assert.False(t, eff.InQuietHours(at(t, "23:30")))
	})

	t.Run("unparseable bound fails open", func(t *testing.T) {
		eff := notification.MergeDefaults(&notification.Preference{
			QuietHoursEnabled: boolPtr(true),
			QuietStart:        stringPtr("late"),
		})

		assert.False(t, eff.InQuietHours(at(t, "23:30")))
	})
}

func TestEffectivePreference_PlanChannels(t *testing.T) {
	t.Run("outside quiet hours every enabled channel fires", func(t *testing.T) {
		channels := quietNights().PlanChannels(notification.TriggerOrderConfirmed, at(t, "12:00"))

		assert.ElementsMatch(t, notification.AllChannels(), channels)
	})

	t.Run("medium urgency is fully suppressed in quiet hours", func(t *testing.T) {
		channels := quietNights().PlanChannels(notification.TriggerOrderConfirmed, at(t, "23:00"))

		assert.Empty(t, channels)
	})

	t.Run("high urgency keeps sms and push in quiet hours, gates email", func(t *testing.T) {
		channels := quietNights().PlanChannels(notification.TriggerOrderInTransit, at(t, "23:00"))

		assert.ElementsMatch(t,
			[]notification.Channel{notification.ChannelSMS, notification.ChannelPush}, channels)
	})

	t.Run("disabled trigger yields no channels", func(t *testing.T) {
		eff := notification.MergeDefaults(&notification.Preference{
			Triggers: map[notification.Trigger]bool{notification.TriggerOrderDelivered: false},
		})

		assert.Empty(t, eff.PlanChannels(notification.TriggerOrderDelivered, at(t, "12:00")))
	})

	t.Run("cancellation overrides a disabled trigger switch", func(t *testing.T) {
		eff := notification.MergeDefaults(&notification.Preference{
			Triggers: map[notification.Trigger]bool{notification.TriggerOrderCancelled: false},
		})

		channels := eff.PlanChannels(notification.TriggerOrderCancelled, at(t, "12:00"))

		assert.NotEmpty(t, channels)
	})

	t.Run("channel toggles apply after the matrix", func(t *testing.T) {
		eff := notification.MergeDefaults(&notification.Preference{
			EmailEnabled: boolPtr(false),
			PushEnabled:  boolPtr(false),
		})

		channels := eff.PlanChannels(notification.TriggerOrderDelivered, at(t, "12:00"))

		assert.Equal(t, []notification.Channel{notification.ChannelSMS}, channels)
	})
}

func TestTriggerForStatus(t *testing.T) {
	t.Run("maps lifecycle statuses to triggers and urgencies", func(t *testing.T) {
		trigger, err := notification.TriggerForStatus(order.Delivered)
		require.NoError(t, err)
		assert.Equal(t, notification.TriggerOrderDelivered, trigger)
		assert.Equal(t, notification.UrgencyHigh, trigger.Urgency())

		trigger, err = notification.TriggerForStatus(order.Preparing)
		require.NoError(t, err)
		assert.Equal(t, notification.TriggerOrderPreparing, trigger)
		assert.Equal(t, notification.UrgencyMedium, trigger.Urgency())
	})

	t.Run("rejects a status without a trigger", func(t *testing.T) {
		_, err := notification.TriggerForStatus(order.Unknown)

		require.Error(t, err)
	})
}

func TestRecipient_ContactFor(t *testing.T) {
	r := notification.Recipient{Email: "a@b.c", Phone: ""}

	email, ok := r.ContactFor(notification.ChannelEmail)
	assert.True(t, ok)
	assert.Equal(t, "a@b.c", email)

	_, ok = r.ContactFor(notification.ChannelSMS)
	assert.False(t, ok)
}
