package assignmentrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAssignmentRepository implements AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAssignmentRepository creates a new GORM assignment repository.
func NewGormAssignmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAssignmentRepository {
	return &GormAssignmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new assignment request to the database.
func (r *GormAssignmentRepository) Add(ctx context.Context, aggregate *assignment.Request) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing assignment request to the database. Offer and
// rejection rounds clear nullable columns, so the full row is written with
// Select("*") rather than a sparse update.
func (r *GormAssignmentRepository) Update(ctx context.Context, aggregate *assignment.Request) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&RequestDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an assignment request by ID.
func (r *GormAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Request, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RequestDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assignmentRequest", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByOrder retrieves the single non-terminal request for an order.
func (r *GormAssignmentRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*assignment.Request, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto RequestDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status NOT IN ?", orderID.Bytes(), terminalStatusNames()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetExpiredOffers retrieves requests whose outstanding offer passed its
// deadline, oldest deadline first.
func (r *GormAssignmentRepository) GetExpiredOffers(ctx context.Context) ([]*assignment.Request, error) {
	var dtos []RequestDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND timeout_at <= ?", assignment.Offered.String(), time.Now().UTC()).
		Order("timeout_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	requests := make([]*assignment.Request, 0, len(dtos))
	for _, dto := range dtos {
		request, dtoErr := toDomain(dto)
		if dtoErr != nil {
			return nil, dtoErr
		}
		requests = append(requests, request)
	}

	return requests, nil
}

// UpdateStatusGuarded flips the request status only if it still holds the
// expected value. The affected-row count decides the acceptance-vs-timeout
// race: exactly one caller moves the row away from offered.
func (r *GormAssignmentRepository) UpdateStatusGuarded(
	ctx context.Context,
	id kernel.UUID,
	from, to assignment.Status,
) (bool, error) {
	if err := errors.Join(id.Validate(), from.Validate(), to.Validate()); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Model(&RequestDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), from.String()).
		Update("status", to.String())
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// terminalStatusNames returns the wire names of the terminal statuses.
func terminalStatusNames() []string {
	return []string{
		assignment.Accepted.String(),
		assignment.Exhausted.String(),
		assignment.Cancelled.String(),
	}
}
