package riderrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// haversineKm computes the great-circle distance in kilometers between the
// bound pickup point and each rider row. least() clamps rounding noise so
// acos never sees a value above 1.
const haversineKm = `6371 * acos(least(1.0,
	cos(radians(?)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?)) +
	sin(radians(?)) * sin(radians(latitude))))`

// GormRiderRepository implements RiderRepository using GORM.
type GormRiderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRiderRepository creates a new GORM rider repository.
func NewGormRiderRepository(db *gorm.DB, tracker aggregateTracker) *GormRiderRepository {
	return &GormRiderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Get retrieves a rider by ID.
func (r *GormRiderRepository) Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves a rider by ID holding a row lock until the
// surrounding transaction ends. Callers must run inside a unit of work.
func (r *GormRiderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*rider.Rider, error) {
	return r.get(ctx, id, true)
}

func (r *GormRiderRepository) get(ctx context.Context, id kernel.UUID, forUpdate bool) (*rider.Rider, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto RiderDTO
	if err := query.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("rider", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Update saves an existing rider to the database.
func (r *GormRiderRepository) Update(ctx context.Context, aggregate *rider.Rider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&RiderDTO{}).
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

// FindCandidates retrieves online riders with spare capacity within radius
// kilometers of the pickup point, excluding riders that already declined.
// Distance is computed in SQL with the haversine formula, so the candidate
// set never leaves the database unfiltered.
func (r *GormRiderRepository) FindCandidates(
	ctx context.Context,
	pickup kernel.GeoPoint,
	radius kernel.Kilometers,
	excluding []kernel.UUID,
) ([]*rider.Rider, error) {
	if err := pickup.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Where("online AND active_orders < max_concurrent").
		Where(haversineKm+" <= ?",
			pickup.Latitude(), pickup.Longitude(), pickup.Latitude(), float64(radius))

	if len(excluding) > 0 {
		excluded := make([]uuid.UUID, 0, len(excluding))
		for _, id := range excluding {
			excluded = append(excluded, id.Bytes())
		}
		query = query.Where("id NOT IN ?", excluded)
	}

	var dtos []RiderDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	riders := make([]*rider.Rider, 0, len(dtos))
	for _, dto := range dtos {
		candidate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		riders = append(riders, candidate)
	}

	return riders, nil
}
