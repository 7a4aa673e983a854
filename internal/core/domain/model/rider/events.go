package rider

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// LocationUpdated is raised after a rider position report commits. It feeds
// the realtime location stream; when the report moved the rider inside the
// arriving radius of a delivery it also carries the orders to notify.
type LocationUpdated struct {
	RiderID    kernel.UUID
	Location   kernel.GeoPoint
	Arriving   []ArrivingOrder
	OccurredAt time.Time
}

// ArrivingOrder identifies a delivery whose rider just crossed inside the
// arriving radius of the drop-off point.
type ArrivingOrder struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
}
