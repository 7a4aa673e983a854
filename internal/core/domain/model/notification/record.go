package notification

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// DeliveryStatus is the outcome of one channel delivery attempt.
type DeliveryStatus string

const (
	// DeliverySent means the channel provider accepted the message.
	DeliverySent DeliveryStatus = "sent"

	// DeliveryFailed means the channel provider returned an error.
	DeliveryFailed DeliveryStatus = "failed"
)

// Record is one delivery attempt, written regardless of outcome and
// immutable afterwards. Retries produce additional records rather than
// updating earlier ones.
type Record struct {
	ID            kernel.UUID
	OrderID       *kernel.UUID
	RecipientID   kernel.UUID
	Channel       Channel
	Trigger       Trigger
	Subject       string
	Message       string
	Status        DeliveryStatus
	FailureReason string
	SentAt        time.Time
}

// NewSentRecord creates the record of a successful delivery attempt.
func NewSentRecord(
	orderID *kernel.UUID,
	recipientID kernel.UUID,
	channel Channel,
	trigger Trigger,
	subject string,
	message string,
	sentAt time.Time,
) Record {
	return Record{
		ID:          kernel.NewUUID(),
		OrderID:     orderID,
		RecipientID: recipientID,
		Channel:     channel,
		Trigger:     trigger,
		Subject:     subject,
		Message:     message,
		Status:      DeliverySent,
		SentAt:      sentAt,
	}
}

// NewFailedRecord creates the record of a failed delivery attempt.
func NewFailedRecord(
	orderID *kernel.UUID,
	recipientID kernel.UUID,
	channel Channel,
	trigger Trigger,
	subject string,
	message string,
	reason string,
	sentAt time.Time,
) Record {
	record := NewSentRecord(orderID, recipientID, channel, trigger, subject, message, sentAt)
	record.Status = DeliveryFailed
	record.FailureReason = reason
	return record
}
