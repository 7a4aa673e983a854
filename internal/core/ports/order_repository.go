// Package ports defines the contracts between the application core and its
// adapters: repositories, directories, external channel providers and the
// event publisher. Implementations live under internal/adapters.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, including any
	// history entries appended since it was loaded.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate with its full status history.
	// Returns errs.ErrObjectNotFound when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order while taking a row lock inside the
	// current transaction. Order transitions are serialized through it: two
	// concurrent transition requests for one order never both observe the
	// same source status.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetActiveDeliveriesByRider retrieves the orders the rider is currently
	// carrying toward the customer (picked up or in transit). Returns an
	// empty slice, not an error, when the rider has none.
	GetActiveDeliveriesByRider(ctx context.Context, riderID kernel.UUID) ([]*order.Order, error)
}
