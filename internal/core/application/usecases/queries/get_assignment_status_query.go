package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

// ErrGetAssignmentStatusQueryIsNotConstructed is returned when the query was
// not created via its constructor.
var ErrGetAssignmentStatusQueryIsNotConstructed = errors.New(
	"GetAssignmentStatusQuery must be created via NewGetAssignmentStatusQuery constructor",
)

// GetAssignmentStatusQuery retrieves the latest assignment request of an
// order for tracking screens and support tooling.
type GetAssignmentStatusQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetAssignmentStatusQuery creates a query for an order's matching state.
func NewGetAssignmentStatusQuery(orderID kernel.UUID) (GetAssignmentStatusQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetAssignmentStatusQuery{}, err
	}

	return GetAssignmentStatusQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAssignmentStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetAssignmentStatusQueryIsNotConstructed)
}

// OrderID returns the order whose matching state is requested.
func (q GetAssignmentStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetAssignmentStatusQueryResponse is the tracking view of a request.
type GetAssignmentStatusQueryResponse struct {
	RequestID     kernel.UUID
	Status        string
	Priority      int
	RadiusKm      float64
	Attempts      int
	RejectedCount int
	OfferedRider  *kernel.UUID
	TimeoutAt     *time.Time
}
