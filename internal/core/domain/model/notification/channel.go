package notification

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Channel identifies a persistent delivery channel. The realtime feed is not
// a Channel: it is never gated by preferences or quiet hours and leaves no
// delivery record.
type Channel int

const (
	// ChannelUnknown represents an invalid or undefined channel.
	ChannelUnknown Channel = iota

	// ChannelEmail delivers via the email gateway.
	ChannelEmail

	// ChannelSMS delivers via the SMS gateway.
	ChannelSMS

	// ChannelPush delivers via the mobile push gateway.
	ChannelPush
)

// AllChannels returns the persistent channels in a stable order.
func AllChannels() []Channel {
	return []Channel{ChannelEmail, ChannelSMS, ChannelPush}
}

// getChannelStrings returns a map of Channel values to their wire names.
func getChannelStrings() map[Channel]string {
	return map[Channel]string{
		ChannelUnknown: "unknown",
		ChannelEmail:   "email",
		ChannelSMS:     "sms",
		ChannelPush:    "push",
	}
}

// ChannelFromString parses a wire name into a Channel.
func ChannelFromString(s string) (Channel, error) {
	for channel, name := range getChannelStrings() {
		if name == s && channel != ChannelUnknown {
			return channel, nil
		}
	}
	return ChannelUnknown, errs.NewValueIsInvalidErrorWithCause("channel is invalid",
		fmt.Errorf("%q is not a valid channel", s))
}

// Validate checks if the Channel value is one of the defined channels.
func (c Channel) Validate() error {
	if c <= ChannelUnknown || c > ChannelPush {
		return errs.NewValueIsInvalidErrorWithCause("channel is invalid",
			fmt.Errorf("%d is not a valid channel", c))
	}
	return nil
}

// String returns the wire name of the channel. Implements fmt.Stringer.
func (c Channel) String() string {
	if str, ok := getChannelStrings()[c]; ok {
		return str
	}
	return "unknown"
}
