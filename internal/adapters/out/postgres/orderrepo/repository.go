package orderrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order and its initial history rows to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	if err := r.appendHistory(ctx, aggregate, 0); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order and appends any new history rows. History
// rows already on disk are never touched.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	var persisted int64
	if err := r.db.WithContext(ctx).Model(&HistoryDTO{}).
		Where("order_id = ?", dto.ID).Count(&persisted).Error; err != nil {
		return err
	}
	if err := r.appendHistory(ctx, aggregate, int(persisted)); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves an order by ID holding a row lock until the
// surrounding transaction ends. Callers must run inside a unit of work.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, id, true)
}

func (r *GormOrderRepository) get(ctx context.Context, id kernel.UUID, forUpdate bool) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto OrderDTO
	if err := query.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	var historyRows []HistoryDTO
	if err := r.db.WithContext(ctx).
		Order("created_at, id").
		Find(&historyRows, "order_id = ?", id.Bytes()).Error; err != nil {
		return nil, err
	}

	return toDomain(dto, historyRows)
}

// GetActiveDeliveriesByRider retrieves the orders the rider is carrying to
// the customer. The result set is bounded by the rider's concurrent-order
// capacity, so history is loaded per order.
func (r *GormOrderRepository) GetActiveDeliveriesByRider(
	ctx context.Context,
	riderID kernel.UUID,
) ([]*order.Order, error) {
	if err := riderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Where("rider_id = ? AND status IN ?", riderID.Bytes(),
			[]string{order.PickedUp.String(), order.InTransit.String()}).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		var historyRows []HistoryDTO
		if err := r.db.WithContext(ctx).
			Order("created_at, id").
			Find(&historyRows, "order_id = ?", dto.ID).Error; err != nil {
			return nil, err
		}

		aggregate, err := toDomain(dto, historyRows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, aggregate)
	}

	return orders, nil
}

// appendHistory inserts the aggregate's history entries beyond the count
// already persisted.
func (r *GormOrderRepository) appendHistory(ctx context.Context, aggregate *order.Order, persisted int) error {
	history := aggregate.History()
	if persisted >= len(history) {
		return nil
	}

	rows := make([]HistoryDTO, 0, len(history)-persisted)
	for _, entry := range history[persisted:] {
		rows = append(rows, historyFromDomain(entry))
	}

	return r.db.WithContext(ctx).Create(&rows).Error
}
