// Package notificationrepo provides persistence for delivery records and
// stored notification preferences.
package notificationrepo

import (
	"time"

	"dispatch/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

// RecordDTO represents the database structure for one delivery attempt. Rows
// are inserted once and never updated. The trigger column is named
// trigger_key because TRIGGER is a reserved word in postgres.
type RecordDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID       *uuid.UUID `gorm:"type:uuid;index"`
	RecipientID   uuid.UUID  `gorm:"type:uuid;index"`
	Channel       string
	TriggerKey    string
	Subject       string
	Message       string
	Status        string
	FailureReason string
	SentAt        time.Time
}

// TableName specifies the database table name for delivery records.
func (RecordDTO) TableName() string {
	return "order_notifications"
}

// PreferenceDTO represents the database structure for stored notification
// preferences. Nullable columns map to the absent switches of the domain
// preference: NULL means the recipient never configured that switch.
type PreferenceDTO struct {
	UserID            uuid.UUID                          `gorm:"type:uuid;primaryKey"`
	EmailEnabled      *bool
	SMSEnabled        *bool
	PushEnabled       *bool
	Triggers          map[notification.Trigger]bool      `gorm:"serializer:json;type:jsonb"`
	QuietHoursEnabled *bool
	QuietStart        *string
	QuietEnd          *string
	UpdatedAt         time.Time
}

// TableName specifies the database table name for stored preferences.
func (PreferenceDTO) TableName() string {
	return "notification_preferences"
}

// recordFromDomain converts a delivery record to its database representation.
func recordFromDomain(record notification.Record) RecordDTO {
	var orderID *uuid.UUID
	if record.OrderID != nil {
		raw := record.OrderID.Bytes()
		orderID = &raw
	}

	return RecordDTO{
		ID:            record.ID.Bytes(),
		OrderID:       orderID,
		RecipientID:   record.RecipientID.Bytes(),
		Channel:       record.Channel.String(),
		TriggerKey:    string(record.Trigger),
		Subject:       record.Subject,
		Message:       record.Message,
		Status:        string(record.Status),
		FailureReason: record.FailureReason,
		SentAt:        record.SentAt,
	}
}

// preferenceToDomain converts a database row back into a domain preference.
func preferenceToDomain(dto PreferenceDTO) *notification.Preference {
	return &notification.Preference{
		EmailEnabled:      dto.EmailEnabled,
		SMSEnabled:        dto.SMSEnabled,
		PushEnabled:       dto.PushEnabled,
		Triggers:          dto.Triggers,
		QuietHoursEnabled: dto.QuietHoursEnabled,
		QuietStart:        dto.QuietStart,
		QuietEnd:          dto.QuietEnd,
	}
}
