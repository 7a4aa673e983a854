package ports

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
)

// EventPublisher hands domain events to the outside world after the owning
// transaction commits. The in-process bus fans them out to the assignment
// loop, the notification orchestrator, the realtime hub and the Kafka
// publisher; none of those may block the caller.
type EventPublisher interface {
	// PublishStatusChanged announces a committed order status transition.
	PublishStatusChanged(ctx context.Context, event order.StatusChanged)

	// PublishRiderAssigned announces an accepted offer.
	PublishRiderAssigned(ctx context.Context, event assignment.RiderAssigned)

	// PublishRequestExhausted announces that matching gave up on an order.
	PublishRequestExhausted(ctx context.Context, event assignment.RequestExhausted)

	// PublishRiderLocationUpdated announces a committed rider position report.
	PublishRiderLocationUpdated(ctx context.Context, event rider.LocationUpdated)
}
