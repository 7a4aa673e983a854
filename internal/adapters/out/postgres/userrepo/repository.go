package userrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormUserRepository implements RecipientDirectory using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetRecipient retrieves the contact-book view of a user.
func (r *GormUserRepository) GetRecipient(ctx context.Context, userID kernel.UUID) (notification.Recipient, error) {
	if err := userID.Validate(); err != nil {
		return notification.Recipient{}, err
	}

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", userID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notification.Recipient{}, errs.NewObjectNotFoundError("user", userID.String())
		}
		return notification.Recipient{}, err
	}

	return toRecipient(dto)
}
