package assignment

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an assignment request.
//
// A request starts pending, alternates between pending and offered while
// candidates are tried, and ends in exactly one of the terminal states:
// accepted, exhausted or cancelled. rejected and timeout describe the two
// ways an individual offer can fail; the request itself returns to pending
// (or exhausts) immediately afterwards.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending means the request is waiting for the next candidate search.
	Pending

	// Offered means an offer is outstanding to one rider and a timeout is armed.
	Offered

	// Accepted means a rider took the order. Terminal.
	Accepted

	// Rejected records an explicit decline of the current offer.
	Rejected

	// Timeout records an offer expiring without a response.
	Timeout

	// Exhausted means the radius and attempt caps were hit with no acceptance;
	// the order awaits manual dispatch. Terminal.
	Exhausted

	// Cancelled means the order was cancelled while matching was in flight. Terminal.
	Cancelled
)

// getStatusStrings returns a map of Status values to their wire names.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Offered:   "offered",
		Accepted:  "accepted",
		Rejected:  "rejected",
		Timeout:   "timeout",
		Exhausted: "exhausted",
		Cancelled: "cancelled",
	}
}

// Validate checks if the Status value is one of the defined request statuses.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("assignment status is invalid",
			fmt.Errorf("%d is not a valid assignment status", s))
	}
	return nil
}

// String returns the wire name of the status. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the request reached a final state. At most one
// non-terminal request may exist per order.
func (s Status) IsTerminal() bool {
	return s == Accepted || s == Exhausted || s == Cancelled
}

// StatusFromString parses the wire name of a status.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid assignment status", s))
}
