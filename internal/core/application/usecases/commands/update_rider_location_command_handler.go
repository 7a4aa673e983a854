package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// DefaultArrivingRadius is the distance to the drop-off point under which a
// delivery counts as arriving.
const DefaultArrivingRadius kernel.Kilometers = 0.5

// UpdateRiderLocationCommandHandler applies a rider position report.
//
// The report moves the rider on the map for the realtime location stream.
// When it carries the rider across the arriving radius of a delivery's
// drop-off point the event also names the arriving orders. Arrival is
// detected on the crossing, against the previous report: a rider idling next
// to the customer does not fire again on every report.
type UpdateRiderLocationCommandHandler struct {
	uowFactory     AssignmentUoWFactory
	distance       services.DistanceProvider
	arrivingRadius kernel.Kilometers
	publisher      ports.EventPublisher
}

// NewUpdateRiderLocationCommandHandler creates a handler for rider position
// reports with the given arriving radius.
func NewUpdateRiderLocationCommandHandler(
	uowFactory AssignmentUoWFactory,
	distance services.DistanceProvider,
	arrivingRadius kernel.Kilometers,
	publisher ports.EventPublisher,
) UpdateRiderLocationCommandHandler {
	if arrivingRadius <= 0 {
		arrivingRadius = DefaultArrivingRadius
	}

	return UpdateRiderLocationCommandHandler{
		uowFactory:     uowFactory,
		distance:       distance,
		arrivingRadius: arrivingRadius,
		publisher:      publisher,
	}
}

// Handle persists the position and publishes the location event after the
// transaction committed.
func (h *UpdateRiderLocationCommandHandler) Handle(ctx context.Context, cmd UpdateRiderLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	riderRepo := uow.RiderRepository()
	courier, err := riderRepo.GetForUpdate(ctx, cmd.RiderID())
	if err != nil {
		return err
	}

	previous := courier.Location()
	if err = courier.MoveTo(cmd.Location()); err != nil {
		return err
	}
	if err = riderRepo.Update(ctx, courier); err != nil {
		return err
	}

	deliveries, err := uow.OrderRepository().GetActiveDeliveriesByRider(ctx, cmd.RiderID())
	if err != nil {
		return err
	}

	var arriving []rider.ArrivingOrder
	for _, delivery := range deliveries {
		dropoff := delivery.DeliveryLocation()
		wasOutside := h.distance.Distance(previous, dropoff) > h.arrivingRadius
		if wasOutside && h.distance.Distance(cmd.Location(), dropoff) <= h.arrivingRadius {
			arriving = append(arriving, rider.ArrivingOrder{
				OrderID:    delivery.ID(),
				CustomerID: delivery.CustomerID(),
			})
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishRiderLocationUpdated(ctx, rider.LocationUpdated{
		RiderID:    cmd.RiderID(),
		Location:   cmd.Location(),
		Arriving:   arriving,
		OccurredAt: time.Now(),
	})

	return nil
}
