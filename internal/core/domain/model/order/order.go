package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory functions.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

// Item is a single order line: a named menu item with a quantity and a unit
// price in minor currency units.
type Item struct {
	Name       string
	Quantity   int
	PriceCents int64
}

// HistoryEntry is one row of the append-only status audit trail. One entry is
// created per successful transition and is never mutated or deleted. Once
// any transition occurred, the order status equals the status of the last
// entry.
type HistoryEntry struct {
	OrderID   kernel.UUID
	Status    Status
	ActorID   string
	Notes     string
	Timestamp time.Time
}

// Order represents a customer order moving through the delivery lifecycle.
// It is the aggregate root that owns the canonical status and its history.
//
// Order follows these invariants:
//   - Must have valid identifiers for itself, the customer and the restaurant
//   - Must have at least one line item with positive quantity and price
//   - Status changes pass through TransitionTo, which enforces the fixed
//     transition graph and appends exactly one history entry per change
//   - After any transition, the status equals the status of the last entry
//   - Terminal statuses (delivered, cancelled) admit no further changes
type Order struct {
	id               kernel.UUID
	customerID       kernel.UUID
	restaurantID     kernel.UUID
	riderID          *kernel.UUID
	items            []Item
	totalCents       int64
	pickupLocation   kernel.GeoPoint
	deliveryLocation kernel.GeoPoint
	status           Status
	history          []HistoryEntry
	createdAt        time.Time
	updatedAt        time.Time
	guard            guard.ConstructorGuard
}

// NewOrder creates a new Order in pending status with an empty history; the
// history grows by exactly one entry per successful transition. The total is
// computed from the line items.
//
// Parameters:
//   - id: unique order identifier
//   - customerID: the ordering customer
//   - restaurantID: the fulfilling restaurant
//   - items: at least one line item, each with positive quantity and price
//   - pickupLocation: the restaurant's position, where matching searches start
//   - deliveryLocation: the customer's drop-off position
//   - now: creation timestamp
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	items []Item,
	pickupLocation kernel.GeoPoint,
	deliveryLocation kernel.GeoPoint,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:    Pending,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setItems(items),
		o.setPickupLocation(pickupLocation),
		o.setDeliveryLocation(deliveryLocation),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage,
// including its status history. The restored order behaves identically to one
// created through normal domain operations.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	riderID *kernel.UUID,
	items []Item,
	pickupLocation kernel.GeoPoint,
	deliveryLocation kernel.GeoPoint,
	status Status,
	history []HistoryEntry,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setItems(items),
		o.setPickupLocation(pickupLocation),
		o.setDeliveryLocation(deliveryLocation),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if riderID != nil {
		if err := riderID.Validate(); err != nil {
			return nil, err
		}
		o.riderID = riderID
	}

	o.status = status
	o.history = make([]HistoryEntry, len(history))
	copy(o.history, history)

	return o, nil
}

// Validate ensures the Order was created via a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// RestaurantID returns the fulfilling restaurant's identifier.
func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// RiderID returns the assigned rider's identifier, or nil if unassigned.
func (o *Order) RiderID() *kernel.UUID {
	return o.riderID
}

// Items returns a copy of the order's line items.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// TotalCents returns the order total in minor currency units.
func (o *Order) TotalCents() int64 {
	return o.totalCents
}

// PickupLocation returns the restaurant's position.
func (o *Order) PickupLocation() kernel.GeoPoint {
	return o.pickupLocation
}

// DeliveryLocation returns the customer's drop-off position.
func (o *Order) DeliveryLocation() kernel.GeoPoint {
	return o.deliveryLocation
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// History returns a copy of the append-only status history, oldest first.
func (o *Order) History() []HistoryEntry {
	out := make([]HistoryEntry, len(o.history))
	copy(out, o.history)
	return out
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last modification timestamp.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// TransitionTo moves the order to a new status along one edge of the
// transition graph and appends the corresponding history entry.
//
// On an illegal edge the order is left completely unchanged and an
// *InvalidTransitionError is returned; the caller surfaces it synchronously.
//
// Returns the appended history entry on success.
func (o *Order) TransitionTo(to Status, actorID, notes string, now time.Time) (HistoryEntry, error) {
	if err := o.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	if actorID == "" {
		return HistoryEntry{}, errs.NewValueIsRequiredError("actorID")
	}

	newStatus, err := o.status.TransitionTo(to)
	if err != nil {
		return HistoryEntry{}, err
	}

	entry := HistoryEntry{
		OrderID:   o.id,
		Status:    newStatus,
		ActorID:   actorID,
		Notes:     notes,
		Timestamp: now,
	}

	o.status = newStatus
	o.history = append(o.history, entry)
	o.updatedAt = now

	return entry, nil
}

// AssignRider records the rider matched to this order by the assignment
// queue. Terminal orders cannot receive a rider.
func (o *Order) AssignRider(riderID kernel.UUID) error {
	if err := errors.Join(o.Validate(), riderID.Validate()); err != nil {
		return err
	}

	if o.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("%s order cannot be assigned a rider", o.status))
	}

	o.riderID = &riderID
	return nil
}

// setID validates and sets the order's unique identifier.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setCustomerID validates and sets the customer reference.
func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}
	o.customerID = id
	return nil
}

// setRestaurantID validates and sets the restaurant reference.
func (o *Order) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurantID", err)
	}
	o.restaurantID = id
	return nil
}

// setItems validates the line items and computes the order total.
func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	var total int64
	for _, item := range items {
		if item.Name == "" {
			return errs.NewValueIsRequiredError("item name")
		}
		if item.Quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("item quantity",
				fmt.Errorf("%d is not greater than 0", item.Quantity))
		}
		if item.PriceCents <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("item price",
				fmt.Errorf("%d is not greater than 0", item.PriceCents))
		}
		total += int64(item.Quantity) * item.PriceCents
	}

	o.items = make([]Item, len(items))
	copy(o.items, items)
	o.totalCents = total
	return nil
}

// setPickupLocation validates and sets the restaurant position.
func (o *Order) setPickupLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("pickupLocation", err)
	}
	o.pickupLocation = location
	return nil
}

// setDeliveryLocation validates and sets the drop-off position.
func (o *Order) setDeliveryLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("deliveryLocation", err)
	}
	o.deliveryLocation = location
	return nil
}
