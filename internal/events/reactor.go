package events

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
)

// Reactor wires domain events to the downstream pipeline: the matching loop,
// the notification orchestrator and the realtime hub. Each reaction runs on
// a bus goroutine; failures are logged and never propagate back to the
// command that raised the event.
type Reactor struct {
	createAssignment commands.CreateAssignmentCommandHandler
	cancelAssignment commands.CancelAssignmentCommandHandler
	notify           commands.NotifyOrderEventCommandHandler
	uowFactory       commands.OrderUoWFactory
	hub              *ws.Hub
	logger           *slog.Logger
}

// NewReactor creates the reactor over the downstream handlers.
func NewReactor(
	createAssignment commands.CreateAssignmentCommandHandler,
	cancelAssignment commands.CancelAssignmentCommandHandler,
	notify commands.NotifyOrderEventCommandHandler,
	uowFactory commands.OrderUoWFactory,
	hub *ws.Hub,
	logger *slog.Logger,
) *Reactor {
	return &Reactor{
		createAssignment: createAssignment,
		cancelAssignment: cancelAssignment,
		notify:           notify,
		uowFactory:       uowFactory,
		hub:              hub,
		logger:           logger.With("component", "event_reactor"),
	}
}

// Subscribe registers every reaction on the bus.
func (r *Reactor) Subscribe(bus *Bus) {
	bus.SubscribeStatusChanged(r.onStatusChanged)
	bus.SubscribeRiderAssigned(r.onRiderAssigned)
	bus.SubscribeRequestExhausted(r.onRequestExhausted)
	bus.SubscribeRiderLocationUpdated(r.onRiderLocationUpdated)
}

// onStatusChanged drives the three consequences of a committed transition:
// the matching loop opens or cancels, the customer is notified, and tracking
// screens get a frame.
func (r *Reactor) onStatusChanged(ctx context.Context, event order.StatusChanged) {
	switch event.To {
	case order.Ready:
		r.openAssignment(ctx, event.OrderID)
	case order.Cancelled:
		r.closeAssignment(ctx, event.OrderID)
	}

	if trigger, err := notification.TriggerForStatus(event.To); err == nil {
		r.notifyRecipients(ctx, event.OrderID, []kernel.UUID{event.CustomerID}, trigger)
	}

	r.hub.Broadcast(ws.OrderTopic(event.OrderID), ws.Frame{
		Type:      ws.FrameOrderStatus,
		OrderID:   event.OrderID.String(),
		Status:    event.To.String(),
		Timestamp: event.OccurredAt,
	})
}

// onRiderAssigned notifies the customer and pushes the frame.
func (r *Reactor) onRiderAssigned(ctx context.Context, event assignment.RiderAssigned) {
	if customerID, ok := r.lookupCustomer(ctx, event.OrderID); ok {
		r.notifyRecipients(ctx, event.OrderID, []kernel.UUID{customerID}, notification.TriggerRiderAssigned)
	}

	r.hub.Broadcast(ws.OrderTopic(event.OrderID), ws.Frame{
		Type:      ws.FrameOrderStatus,
		OrderID:   event.OrderID.String(),
		Status:    "rider_assigned",
		Timestamp: event.OccurredAt,
	})
}

// onRequestExhausted alerts the dispatcher screens. The order stays ready
// and waits for manual dispatch.
func (r *Reactor) onRequestExhausted(_ context.Context, event assignment.RequestExhausted) {
	r.logger.Warn("assignment exhausted, manual dispatch needed",
		"orderId", event.OrderID.String(), "attempts", event.Attempts)

	r.hub.Broadcast(ws.RoleTopic("dispatcher"), ws.Frame{
		Type:      ws.FrameAnnouncement,
		OrderID:   event.OrderID.String(),
		Message:   "no rider found, order needs manual dispatch",
		Timestamp: event.OccurredAt,
	})
}

// onRiderLocationUpdated streams the position to tracking screens and, when
// the report carried the rider inside the arriving radius of a delivery,
// notifies the waiting customers.
func (r *Reactor) onRiderLocationUpdated(ctx context.Context, event rider.LocationUpdated) {
	r.hub.Broadcast(ws.RiderLocationTopic(event.RiderID), ws.Frame{
		Type: ws.FrameRiderLocation,
		Location: &ws.Location{
			Latitude:  event.Location.Latitude(),
			Longitude: event.Location.Longitude(),
		},
		Timestamp: event.OccurredAt,
	})

	for _, arriving := range event.Arriving {
		r.notifyRecipients(ctx, arriving.OrderID,
			[]kernel.UUID{arriving.CustomerID}, notification.TriggerRiderArriving)
	}
}

func (r *Reactor) openAssignment(ctx context.Context, orderID kernel.UUID) {
	cmd, err := commands.NewCreateAssignmentCommand(orderID)
	if err != nil {
		r.logger.Error("build create assignment command", "orderId", orderID.String(), "error", err)
		return
	}
	if err := r.createAssignment.Handle(ctx, cmd); err != nil {
		r.logger.Error("open assignment", "orderId", orderID.String(), "error", err)
	}
}

func (r *Reactor) closeAssignment(ctx context.Context, orderID kernel.UUID) {
	cmd, err := commands.NewCancelAssignmentCommand(orderID)
	if err != nil {
		r.logger.Error("build cancel assignment command", "orderId", orderID.String(), "error", err)
		return
	}
	if err := r.cancelAssignment.Handle(ctx, cmd); err != nil {
		r.logger.Error("cancel assignment", "orderId", orderID.String(), "error", err)
	}
}

func (r *Reactor) notifyRecipients(
	ctx context.Context,
	orderID kernel.UUID,
	recipientIDs []kernel.UUID,
	trigger notification.Trigger,
) {
	cmd, err := commands.NewNotifyOrderEventCommand(orderID, recipientIDs, trigger)
	if err != nil {
		r.logger.Error("build notify command", "orderId", orderID.String(), "error", err)
		return
	}

	notifyCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := r.notify.Handle(notifyCtx, cmd); err != nil {
		r.logger.Error("notify recipients", "orderId", orderID.String(),
			"trigger", trigger.String(), "error", err)
	}
}

// lookupCustomer reads the customer of an order outside any transaction.
func (r *Reactor) lookupCustomer(ctx context.Context, orderID kernel.UUID) (kernel.UUID, bool) {
	aggregate, err := r.uowFactory.Create().OrderRepository().Get(ctx, orderID)
	if err != nil {
		r.logger.Error("lookup order customer", "orderId", orderID.String(), "error", err)
		return kernel.UUID{}, false
	}
	return aggregate.CustomerID(), true
}
