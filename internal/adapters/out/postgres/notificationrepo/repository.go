package notificationrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"

	"gorm.io/gorm"
)

// GormNotificationRepository implements NotificationStore and PreferenceStore
// using GORM. Delivery records and preferences share a repository because
// both live outside any aggregate transaction.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification repository.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// CreateOrderNotification persists one delivery attempt.
func (r *GormNotificationRepository) CreateOrderNotification(ctx context.Context, record notification.Record) error {
	dto := recordFromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetUserNotificationPreferences retrieves the stored preference for a user,
// or nil when the user never configured one.
func (r *GormNotificationRepository) GetUserNotificationPreferences(
	ctx context.Context,
	userID kernel.UUID,
) (*notification.Preference, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	var dto PreferenceDTO
	if err := r.db.WithContext(ctx).First(&dto, "user_id = ?", userID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return preferenceToDomain(dto), nil
}
