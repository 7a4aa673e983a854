// Package userrepo resolves user IDs to their contact details for the
// notification orchestrator.
package userrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

// UserDTO represents the database structure for user contact details.
type UserDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	Email     string
	Phone     string
	PushToken string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for user entities.
func (UserDTO) TableName() string {
	return "users"
}

// toRecipient converts a user row into the contact-book view.
func toRecipient(dto UserDTO) (notification.Recipient, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return notification.Recipient{}, err
	}

	return notification.Recipient{
		ID:        id,
		Name:      dto.Name,
		Email:     dto.Email,
		Phone:     dto.Phone,
		PushToken: dto.PushToken,
		Role:      dto.Role,
	}, nil
}
