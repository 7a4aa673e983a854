package assignment

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// MinPriority and MaxPriority bound the request priority. Higher is more urgent.
	MinPriority = 1
	MaxPriority = 5
)

// Priority thresholds in cents against the order total.
const (
	priorityTier2Cents int64 = 1000
	priorityTier3Cents int64 = 2500
	priorityTier4Cents int64 = 5000
	priorityTier5Cents int64 = 10000
)

// Domain errors for assignment operations.
var (
	// ErrRequestIsNotConstructed is returned when using an improperly initialized Request.
	ErrRequestIsNotConstructed = errors.New("Request must be created via NewRequest or RestoreRequest constructor")
	// ErrNoOutstandingOffer is returned when accepting or rejecting a request
	// that has no offer in flight.
	ErrNoOutstandingOffer = errors.New("request has no outstanding offer")
	// ErrOfferAlreadyResolved is returned when a response arrives for an offer
	// that was already accepted, rejected or timed out.
	ErrOfferAlreadyResolved = errors.New("offer is no longer available")
	// ErrRequestIsTerminal is returned when mutating a request that already
	// reached a final state.
	ErrRequestIsTerminal = errors.New("assignment request is in a terminal state")
)

// Policy holds the tuning knobs of the matching loop: the starting search
// radius, how it widens, where it stops, how many offers may be made, and how
// long each offer stays open.
type Policy struct {
	InitialRadius Kilometers
	MaxRadius     Kilometers
	GrowthFactor  float64
	MaxAttempts   int
	OfferTTL      time.Duration
}

// Kilometers is a distance expressed in kilometers.
type Kilometers = kernel.Kilometers

// DefaultPolicy returns the standard matching policy: search 5 km around the
// restaurant, widen by half each round up to 20 km, make at most 5 offers,
// each open for 45 seconds.
func DefaultPolicy() Policy {
	return Policy{
		InitialRadius: 5,
		MaxRadius:     20,
		GrowthFactor:  1.5,
		MaxAttempts:   5,
		OfferTTL:      45 * time.Second,
	}
}

// Validate checks the policy values are usable.
func (p Policy) Validate() error {
	return errors.Join(
		validatePositive("initialRadius", float64(p.InitialRadius)),
		validatePositive("maxRadius", float64(p.MaxRadius)),
		validatePositive("maxAttempts", float64(p.MaxAttempts)),
		validatePositive("offerTTL", p.OfferTTL.Seconds()),
		func() error {
			if p.GrowthFactor <= 1 {
				return errs.NewValueIsOutOfRangeError("growthFactor", p.GrowthFactor, 1, 10)
			}
			return nil
		}(),
	)
}

func validatePositive(name string, v float64) error {
	if v <= 0 {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

// PriorityFromOrderTotal maps the order total to a priority tier. Larger
// orders are matched first when several requests compete for riders.
func PriorityFromOrderTotal(totalCents int64) int {
	switch {
	case totalCents >= priorityTier5Cents:
		return 5
	case totalCents >= priorityTier4Cents:
		return 4
	case totalCents >= priorityTier3Cents:
		return 3
	case totalCents >= priorityTier2Cents:
		return 2
	default:
		return 1
	}
}

// Request is the aggregate driving rider matching for a single order.
//
// It tracks the current search radius, the riders that already declined, the
// offer in flight (if any) and the number of offers made so far. The matching
// loop widens the radius after every failed round until either a rider
// accepts or both the radius and attempt caps are hit, at which point the
// request exhausts and the order falls back to manual dispatch.
//
// Invariants:
//   - rejectedBy is append-only and never offered to again;
//   - radius never exceeds Policy.MaxRadius;
//   - attempts never exceeds Policy.MaxAttempts;
//   - a terminal request (accepted, exhausted, cancelled) never changes again.
type Request struct {
	id            kernel.UUID
	orderID       kernel.UUID
	priority      int
	status        Status
	policy        Policy
	radius        Kilometers
	restaurantLoc kernel.GeoPoint
	deliveryLoc   kernel.GeoPoint
	offeredRider  *kernel.UUID
	rejectedBy    []kernel.UUID
	attempts      int
	createdAt     time.Time
	offeredAt     *time.Time
	timeoutAt     *time.Time
	guard         guard.ConstructorGuard
}

// NewRequest creates a pending assignment request for an order that just
// became ready for pickup.
func NewRequest(
	id kernel.UUID,
	orderID kernel.UUID,
	priority int,
	restaurantLoc kernel.GeoPoint,
	deliveryLoc kernel.GeoPoint,
	policy Policy,
	now time.Time,
) (*Request, error) {
	return RestoreRequest(id, orderID, priority, Pending, policy, policy.InitialRadius,
		restaurantLoc, deliveryLoc, nil, nil, 0, now, nil, nil)
}

// RestoreRequest reconstructs a request from persistent storage.
func RestoreRequest(
	id kernel.UUID,
	orderID kernel.UUID,
	priority int,
	status Status,
	policy Policy,
	radius Kilometers,
	restaurantLoc kernel.GeoPoint,
	deliveryLoc kernel.GeoPoint,
	offeredRider *kernel.UUID,
	rejectedBy []kernel.UUID,
	attempts int,
	createdAt time.Time,
	offeredAt *time.Time,
	timeoutAt *time.Time,
) (*Request, error) {
	r := &Request{
		rejectedBy: rejectedBy,
		attempts:   attempts,
		createdAt:  createdAt,
		offeredAt:  offeredAt,
		timeoutAt:  timeoutAt,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setOrderID(orderID),
		r.setPriority(priority),
		r.setStatus(status),
		r.setPolicy(policy),
		r.setRadius(radius),
		r.setRestaurantLocation(restaurantLoc),
		r.setDeliveryLocation(deliveryLoc),
		r.setOfferedRider(offeredRider),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks the Request was created via a constructor.
func (r *Request) Validate() error {
	if r == nil {
		return ErrRequestIsNotConstructed
	}
	return r.guard.Validate(ErrRequestIsNotConstructed)
}

// ID returns the request's unique identifier.
func (r *Request) ID() kernel.UUID {
	return r.id
}

// OrderID returns the order this request matches a rider for.
func (r *Request) OrderID() kernel.UUID {
	return r.orderID
}

// Priority returns the request priority, 1 (lowest) to 5 (highest).
func (r *Request) Priority() int {
	return r.priority
}

// Status returns the current request status.
func (r *Request) Status() Status {
	return r.status
}

// Policy returns the matching policy the request was created with.
func (r *Request) Policy() Policy {
	return r.policy
}

// Radius returns the current search radius.
func (r *Request) Radius() Kilometers {
	return r.radius
}

// RestaurantLocation returns the pickup point the search is centered on.
func (r *Request) RestaurantLocation() kernel.GeoPoint {
	return r.restaurantLoc
}

// DeliveryLocation returns the drop-off point.
func (r *Request) DeliveryLocation() kernel.GeoPoint {
	return r.deliveryLoc
}

// OfferedRider returns the rider holding the outstanding offer, or nil.
func (r *Request) OfferedRider() *kernel.UUID {
	return r.offeredRider
}

// RejectedBy returns the riders that declined or timed out on this request.
// They are never offered the same order again.
func (r *Request) RejectedBy() []kernel.UUID {
	out := make([]kernel.UUID, len(r.rejectedBy))
	copy(out, r.rejectedBy)
	return out
}

// Attempts returns the number of offers made so far.
func (r *Request) Attempts() int {
	return r.attempts
}

// CreatedAt returns the request creation time.
func (r *Request) CreatedAt() time.Time {
	return r.createdAt
}

// OfferedAt returns when the outstanding offer was made, or nil.
func (r *Request) OfferedAt() *time.Time {
	return r.offeredAt
}

// TimeoutAt returns the deadline of the outstanding offer, or nil.
func (r *Request) TimeoutAt() *time.Time {
	return r.timeoutAt
}

// IsTerminal reports whether the request reached a final state.
func (r *Request) IsTerminal() bool {
	return r.status.IsTerminal()
}

// HasRejected reports whether the given rider already declined this request.
func (r *Request) HasRejected(riderID kernel.UUID) bool {
	for _, rejected := range r.rejectedBy {
		if rejected.IsEqual(riderID) {
			return true
		}
	}
	return false
}

// Offer extends the order to the given rider and arms the response deadline.
// The request must be pending and the rider must not have declined before.
func (r *Request) Offer(riderID kernel.UUID, now time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := riderID.Validate(); err != nil {
		return err
	}
	if r.status != Pending {
		if r.IsTerminal() {
			return ErrRequestIsTerminal
		}
		return ErrOfferAlreadyResolved
	}
	if r.HasRejected(riderID) {
		return errs.NewValueIsInvalidError("riderID: rider already rejected this order")
	}

	deadline := now.Add(r.policy.OfferTTL)
	r.status = Offered
	r.offeredRider = &riderID
	r.offeredAt = &now
	r.timeoutAt = &deadline
	return nil
}

// Accept resolves the outstanding offer in the rider's favor. The request
// becomes terminal. Returns ErrOfferAlreadyResolved when the offer went to a
// different rider or already expired.
func (r *Request) Accept(riderID kernel.UUID, now time.Time) error {
	if err := r.validateResponse(riderID); err != nil {
		return err
	}

	r.status = Accepted
	r.offeredAt = nil
	r.timeoutAt = nil
	return nil
}

// RegisterRejection records a decline or a timeout of the outstanding offer.
// The rider joins the exclusion list, the search radius widens, and the
// request returns to pending for the next round. Once the attempt cap is hit
// and the radius can no longer grow, the request exhausts instead.
func (r *Request) RegisterRejection(riderID kernel.UUID, now time.Time) error {
	if err := r.validateResponse(riderID); err != nil {
		return err
	}

	r.rejectedBy = append(r.rejectedBy, riderID)
	r.attempts++
	r.offeredRider = nil
	r.offeredAt = nil
	r.timeoutAt = nil
	r.widenRadius()

	if r.attempts >= r.policy.MaxAttempts {
		r.status = Exhausted
		return nil
	}
	r.status = Pending
	return nil
}

// IsOfferExpired reports whether the outstanding offer passed its deadline.
func (r *Request) IsOfferExpired(now time.Time) bool {
	return r.status == Offered && r.timeoutAt != nil && !now.Before(*r.timeoutAt)
}

// CanWiden reports whether the search radius can still grow.
func (r *Request) CanWiden() bool {
	return r.radius < r.policy.MaxRadius
}

// WidenSearch grows the search radius after a round found no candidates.
// Returns false when the radius is already at its cap, in which case the
// caller should exhaust the request.
func (r *Request) WidenSearch() bool {
	if r.status != Pending || !r.CanWiden() {
		return false
	}
	r.widenRadius()
	return true
}

// MarkExhausted finalizes the request after the search space ran out with no
// acceptance. The order falls back to manual dispatch.
func (r *Request) MarkExhausted() error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.IsTerminal() {
		return ErrRequestIsTerminal
	}

	r.status = Exhausted
	r.offeredRider = nil
	r.offeredAt = nil
	r.timeoutAt = nil
	return nil
}

// Cancel finalizes the request because its order was cancelled while
// matching was in flight.
func (r *Request) Cancel() error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.IsTerminal() {
		return ErrRequestIsTerminal
	}

	r.status = Cancelled
	r.offeredRider = nil
	r.offeredAt = nil
	r.timeoutAt = nil
	return nil
}

// validateResponse checks a rider response against the outstanding offer.
func (r *Request) validateResponse(riderID kernel.UUID) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := riderID.Validate(); err != nil {
		return err
	}
	if r.IsTerminal() {
		return ErrRequestIsTerminal
	}
	if r.status != Offered {
		return ErrNoOutstandingOffer
	}
	if r.offeredRider == nil || !r.offeredRider.IsEqual(riderID) {
		return ErrOfferAlreadyResolved
	}
	return nil
}

// widenRadius multiplies the radius by the growth factor, capped at the max.
func (r *Request) widenRadius() {
	widened := Kilometers(float64(r.radius) * r.policy.GrowthFactor)
	if widened > r.policy.MaxRadius {
		widened = r.policy.MaxRadius
	}
	r.radius = widened
}

// setID validates and sets the request identifier.
func (r *Request) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

// setOrderID validates and sets the order identifier.
func (r *Request) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	r.orderID = orderID
	return nil
}

// setPriority validates and sets the priority tier.
func (r *Request) setPriority(priority int) error {
	if priority < MinPriority || priority > MaxPriority {
		return errs.NewValueIsOutOfRangeError("priority", priority, MinPriority, MaxPriority)
	}
	r.priority = priority
	return nil
}

// setStatus validates and sets the request status.
func (r *Request) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	r.status = status
	return nil
}

// setPolicy validates and sets the matching policy.
func (r *Request) setPolicy(policy Policy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	r.policy = policy
	return nil
}

// setRadius validates and sets the current search radius.
func (r *Request) setRadius(radius Kilometers) error {
	if radius <= 0 {
		return errs.NewValueIsRequiredError("radius")
	}
	r.radius = radius
	return nil
}

// setRestaurantLocation validates and sets the pickup point.
func (r *Request) setRestaurantLocation(loc kernel.GeoPoint) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	r.restaurantLoc = loc
	return nil
}

// setDeliveryLocation validates and sets the drop-off point.
func (r *Request) setDeliveryLocation(loc kernel.GeoPoint) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	r.deliveryLoc = loc
	return nil
}

// setOfferedRider validates and sets the rider holding the outstanding offer.
func (r *Request) setOfferedRider(riderID *kernel.UUID) error {
	if riderID == nil {
		return nil
	}
	if err := riderID.Validate(); err != nil {
		return err
	}
	r.offeredRider = riderID
	return nil
}
