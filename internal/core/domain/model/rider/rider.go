package rider

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// MinRating and MaxRating bound the rider star rating.
	MinRating float64 = 0
	MaxRating float64 = 5

	// MinPerformanceScore and MaxPerformanceScore bound the internal
	// performance score used to break ranking ties.
	MinPerformanceScore float64 = 0
	MaxPerformanceScore float64 = 100
)

// Domain errors for rider operations.
var (
	// ErrRiderIsNotConstructed is returned when using an improperly initialized Rider.
	ErrRiderIsNotConstructed = errors.New("Rider must be created via NewRider or RestoreRider constructor")
	// ErrRiderNotAvailable is returned when taking an order would exceed the
	// rider's concurrent-order capacity or the rider is offline.
	ErrRiderNotAvailable = errors.New("rider is not available")
)

// Rider represents a courier as seen by the assignment queue: an online flag,
// a current location, and capacity/quality figures used for candidate ranking.
//
// From this core's perspective the rider state is read-only except for the
// active-order count, which is incremented when the rider accepts an offer.
type Rider struct {
	id               kernel.UUID
	name             string
	online           bool
	location         kernel.GeoPoint
	activeOrders     int
	maxConcurrent    int
	rating           float64
	performanceScore float64
	guard            guard.ConstructorGuard
}

// NewRider creates a rider with no active orders. Used when a rider first
// registers with the directory.
func NewRider(
	id kernel.UUID,
	name string,
	location kernel.GeoPoint,
	maxConcurrent int,
	rating float64,
	performanceScore float64,
) (*Rider, error) {
	return RestoreRider(id, name, false, location, 0, maxConcurrent, rating, performanceScore)
}

// RestoreRider reconstructs a rider from persistent storage, including the
// online flag and the current active-order count.
func RestoreRider(
	id kernel.UUID,
	name string,
	online bool,
	location kernel.GeoPoint,
	activeOrders int,
	maxConcurrent int,
	rating float64,
	performanceScore float64,
) (*Rider, error) {
	r := &Rider{
		online: online,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setLocation(location),
		r.setActiveOrders(activeOrders),
		r.setMaxConcurrent(maxConcurrent),
		r.setRating(rating),
		r.setPerformanceScore(performanceScore),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks the Rider was created via a constructor.
func (r *Rider) Validate() error {
	if r == nil {
		return ErrRiderIsNotConstructed
	}
	return r.guard.Validate(ErrRiderIsNotConstructed)
}

// IsEqual compares two riders by their unique identifiers.
func (r *Rider) IsEqual(other *Rider) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the rider's unique identifier.
func (r *Rider) ID() kernel.UUID {
	return r.id
}

// Name returns the rider's display name.
func (r *Rider) Name() string {
	return r.name
}

// IsOnline reports whether the rider is currently on shift.
func (r *Rider) IsOnline() bool {
	return r.online
}

// Location returns the rider's last reported position.
func (r *Rider) Location() kernel.GeoPoint {
	return r.location
}

// ActiveOrders returns the number of orders the rider is currently carrying.
func (r *Rider) ActiveOrders() int {
	return r.activeOrders
}

// MaxConcurrent returns the maximum number of orders the rider may carry at once.
func (r *Rider) MaxConcurrent() int {
	return r.maxConcurrent
}

// Rating returns the rider's customer star rating.
func (r *Rider) Rating() float64 {
	return r.rating
}

// PerformanceScore returns the rider's internal performance score.
func (r *Rider) PerformanceScore() float64 {
	return r.performanceScore
}

// IsAvailable reports whether the rider can be offered a new order: online
// and below the concurrent-order capacity.
func (r *Rider) IsAvailable() bool {
	return r.online && r.activeOrders < r.maxConcurrent
}

// MoveTo records a position report from the rider's device.
func (r *Rider) MoveTo(location kernel.GeoPoint) error {
	if err := r.Validate(); err != nil {
		return err
	}

	return r.setLocation(location)
}

// TakeOrder increments the active-order count when the rider accepts an
// offer. Returns ErrRiderNotAvailable if the rider is offline or at capacity.
func (r *Rider) TakeOrder() error {
	if err := r.Validate(); err != nil {
		return err
	}

	if !r.IsAvailable() {
		return ErrRiderNotAvailable
	}

	r.activeOrders++
	return nil
}

// setID validates and sets the rider identifier.
func (r *Rider) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

// setName validates and sets the display name.
func (r *Rider) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	r.name = name
	return nil
}

// setLocation validates and sets the rider position.
func (r *Rider) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	r.location = location
	return nil
}

// setActiveOrders validates and sets the active-order count.
func (r *Rider) setActiveOrders(activeOrders int) error {
	if activeOrders < 0 {
		return errs.NewValueIsInvalidError("activeOrders")
	}
	r.activeOrders = activeOrders
	return nil
}

// setMaxConcurrent validates and sets the concurrent-order capacity.
func (r *Rider) setMaxConcurrent(maxConcurrent int) error {
	if maxConcurrent <= 0 {
		return errs.NewValueIsRequiredError("maxConcurrent")
	}
	r.maxConcurrent = maxConcurrent
	return nil
}

// setRating validates and sets the star rating.
func (r *Rider) setRating(rating float64) error {
	if rating < MinRating || rating > MaxRating {
		return errs.NewValueIsOutOfRangeError("rating", rating, MinRating, MaxRating)
	}
	r.rating = rating
	return nil
}

// setPerformanceScore validates and sets the performance score.
func (r *Rider) setPerformanceScore(score float64) error {
	if score < MinPerformanceScore || score > MaxPerformanceScore {
		return errs.NewValueIsOutOfRangeError("performanceScore", score, MinPerformanceScore, MaxPerformanceScore)
	}
	r.performanceScore = score
	return nil
}
