package order

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. It implements a state
// machine with a fixed transition graph to ensure orders follow the correct
// business workflow.
//
// State transitions:
//
//	pending ──> confirmed ──> preparing ──> ready ──> picked_up ──> in_transit ──> delivered
//	   │            │             │
//	   └────────────┴─────────────┴──────> cancelled
//
// delivered and cancelled are terminal: no further transitions are allowed.
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first placed.
	Pending

	// Confirmed indicates the restaurant accepted the order.
	Confirmed

	// Preparing indicates the restaurant is preparing the order.
	Preparing

	// Ready indicates the order is ready for pickup and needs a courier.
	Ready

	// PickedUp indicates the assigned rider collected the order.
	PickedUp

	// InTransit indicates the rider is on the way to the customer.
	InTransit

	// Delivered indicates the order reached the customer. Terminal.
	Delivered

	// Cancelled indicates the order was cancelled before pickup. Terminal.
	Cancelled
)

// ErrInvalidTransition is the sentinel wrapped by InvalidTransitionError.
var ErrInvalidTransition = errors.New("invalid status transition")

// InvalidTransitionError reports a requested transition that is not an edge
// of the transition graph. The order is left unchanged when it is returned.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the edge.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// getStatusStrings returns a map of Status values to their wire names.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Confirmed: "confirmed",
		Preparing: "preparing",
		Ready:     "ready",
		PickedUp:  "picked_up",
		InTransit: "in_transit",
		Delivered: "delivered",
		Cancelled: "cancelled",
	}
}

// getTransitions returns the fixed transition graph: for each status, the set
// of statuses reachable in one legal transition.
func getTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Confirmed, Cancelled},
		Confirmed: {Preparing, Cancelled},
		Preparing: {Ready, Cancelled},
		Ready:     {PickedUp},
		PickedUp:  {InTransit},
		InTransit: {Delivered},
		Delivered: {},
		Cancelled: {},
	}
}

// StatusFromString parses a wire name ("pending", "picked_up", ...) into a
// Status. Returns a validation error for unrecognized names.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined order statuses.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status ("pending", "in_transit", ...).
// Invalid values render as "unknown". Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// CanTransitionTo reports whether the edge (s -> to) exists in the graph.
func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range getTransitions()[s] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTo validates and performs a transition along one edge of the
// graph.
//
// Returns:
//   - (to, nil) when the edge exists
//   - (0, *InvalidTransitionError) when it does not
//
// This method is used by Order.TransitionTo to enforce the state machine.
func (s Status) TransitionTo(to Status) (Status, error) {
	if err := errors.Join(s.Validate(), to.Validate()); err != nil {
		return 0, err
	}

	if !s.CanTransitionTo(to) {
		return 0, NewInvalidTransitionError(s, to)
	}

	return to, nil
}

// IsTerminal reports whether the status admits no further transitions.
// Terminal orders accept neither transitions nor assignment requests.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// RequiresCourier reports whether an order entering this status needs a
// courier matched to it. Reaching this status triggers the assignment queue.
func (s Status) RequiresCourier() bool {
	return s == Ready
}
