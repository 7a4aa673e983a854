package order

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// StatusChanged is emitted after a transition commits. It feeds the rider
// assignment queue, the notification orchestrator, the realtime hub and the
// order-events topic; consumers run asynchronously relative to the pipeline
// that committed the transition.
type StatusChanged struct {
	OrderID      kernel.UUID
	CustomerID   kernel.UUID
	RestaurantID kernel.UUID
	From         Status
	To           Status
	OccurredAt   time.Time
}
