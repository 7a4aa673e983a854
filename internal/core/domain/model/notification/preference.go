package notification

import (
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
)

// quietTimeLayout is the time-of-day format of quiet-hours bounds.
const quietTimeLayout = "15:04"

// Preference is a stored, possibly partially populated notification
// preference. Nil fields mean "not set"; an absent record altogether means
// everything enabled. MergeDefaults turns either into an EffectivePreference.
type Preference struct {
	EmailEnabled      *bool
	SMSEnabled        *bool
	PushEnabled       *bool
	Triggers          map[Trigger]bool
	QuietHoursEnabled *bool
	QuietStart        *string
	QuietEnd          *string
}

// EffectivePreference is a fully resolved preference: every switch has a
// concrete value. "Absent means enabled" is applied exactly once, in
// MergeDefaults, instead of being re-decided at every check site.
type EffectivePreference struct {
	emailEnabled      bool
	smsEnabled        bool
	pushEnabled       bool
	triggers          map[Trigger]bool
	quietHoursEnabled bool
	quietStart        string
	quietEnd          string
}

// MergeDefaults resolves a stored preference against the all-enabled
// defaults. A nil preference (no stored record) yields the defaults: every
// channel and trigger on, quiet hours off.
func MergeDefaults(p *Preference) EffectivePreference {
	eff := EffectivePreference{
		emailEnabled: true,
		smsEnabled:   true,
		pushEnabled:  true,
		triggers:     map[Trigger]bool{},
		quietStart:   "22:00",
		quietEnd:     "08:00",
	}
	if p == nil {
		return eff
	}

	if p.EmailEnabled != nil {
		eff.emailEnabled = *p.EmailEnabled
	}
	if p.SMSEnabled != nil {
		eff.smsEnabled = *p.SMSEnabled
	}
	if p.PushEnabled != nil {
		eff.pushEnabled = *p.PushEnabled
	}
	for trigger, enabled := range p.Triggers {
		eff.triggers[trigger] = enabled
	}
	if p.QuietHoursEnabled != nil {
		eff.quietHoursEnabled = *p.QuietHoursEnabled
	}
	if p.QuietStart != nil {
		eff.quietStart = *p.QuietStart
	}
	if p.QuietEnd != nil {
		eff.quietEnd = *p.QuietEnd
	}
	return eff
}

// ChannelEnabled reports the recipient's own toggle for a channel.
func (e EffectivePreference) ChannelEnabled(channel Channel) bool {
	switch channel {
	case ChannelEmail:
		return e.emailEnabled
	case ChannelSMS:
		return e.smsEnabled
	case ChannelPush:
		return e.pushEnabled
	default:
		return false
	}
}

// TriggerEnabled reports the recipient's switch for a trigger. Triggers the
// recipient never configured default to enabled.
func (e EffectivePreference) TriggerEnabled(trigger Trigger) bool {
	if enabled, ok := e.triggers[trigger]; ok {
		return enabled
	}
	return true
}

// QuietHoursEnabled reports whether the quiet-hours window is active at all.
func (e EffectivePreference) QuietHoursEnabled() bool {
	return e.quietHoursEnabled
}

// InQuietHours reports whether now falls inside the recipient's quiet-hours
// window. A window whose start is later than its end wraps midnight
// (now >= start || now < end); otherwise start <= now < end. The end bound
// is exclusive either way. A disabled window is never quiet. Unparseable
// bounds fail open.
func (e EffectivePreference) InQuietHours(now time.Time) bool {
	if !e.quietHoursEnabled {
		return false
	}

	start, err := minutesOfDay(e.quietStart)
	if err != nil {
		return false
	}
	end, err := minutesOfDay(e.quietEnd)
	if err != nil {
		return false
	}
	current := now.Hour()*60 + now.Minute()

	if start > end {
		return current >= start || current < end
	}
	return current >= start && current < end
}

// minutesOfDay parses an HH:MM bound into minutes since midnight.
func minutesOfDay(s string) (int, error) {
	t, err := time.Parse(quietTimeLayout, s)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("quiet hours bound is invalid",
			fmt.Errorf("parse %q: %w", s, err))
	}
	return t.Hour()*60 + t.Minute(), nil
}

// PlanChannels computes which persistent channels to use for a trigger at a
// given moment. It applies, in order: the recipient's trigger switch (with
// the cancellation hard override), the urgency/quiet-hours decision matrix,
// and the recipient's per-channel toggles. An empty plan means nothing is
// sent; the realtime feed is unaffected either way.
//
// The matrix: critical forces every channel through quiet hours; high keeps
// SMS and push and gates only email; medium and low gate everything.
func (e EffectivePreference) PlanChannels(trigger Trigger, now time.Time) []Channel {
	if !e.TriggerEnabled(trigger) && !trigger.IsHardOverride() {
		return nil
	}

	quiet := e.InQuietHours(now)
	var allowed []Channel
	for _, channel := range AllChannels() {
		if !e.ChannelEnabled(channel) {
			continue
		}
		if quiet && !passesQuietHours(trigger.Urgency(), channel) {
			continue
		}
		allowed = append(allowed, channel)
	}
	return allowed
}

// passesQuietHours reports whether a channel may fire inside quiet hours for
// the given urgency tier.
func passesQuietHours(urgency Urgency, channel Channel) bool {
	switch urgency {
	case UrgencyCritical:
		return true
	case UrgencyHigh:
		return channel == ChannelSMS || channel == ChannelPush
	default:
		return false
	}
}
