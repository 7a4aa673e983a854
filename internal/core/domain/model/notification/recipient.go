package notification

import "dispatch/internal/core/domain/model/kernel"

// Recipient is the contact-book view of a user: where each channel can reach
// them. Empty fields mean the channel has no address and is skipped.
type Recipient struct {
	ID        kernel.UUID
	Name      string
	Email     string
	Phone     string
	PushToken string
	Role      string
}

// ContactFor returns the channel address of the recipient and whether one
// exists.
func (r Recipient) ContactFor(channel Channel) (string, bool) {
	var contact string
	switch channel {
	case ChannelEmail:
		contact = r.Email
	case ChannelSMS:
		contact = r.Phone
	case ChannelPush:
		contact = r.PushToken
	}
	return contact, contact != ""
}
