package assignment

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// RiderAssigned is raised when a rider accepts an offer. It drives the order
// status transition, customer notifications and realtime updates.
type RiderAssigned struct {
	RequestID  kernel.UUID
	OrderID    kernel.UUID
	RiderID    kernel.UUID
	OccurredAt time.Time
}

// RequestExhausted is raised when matching gives up on an order. Operations
// pick these up for manual dispatch.
type RequestExhausted struct {
	RequestID  kernel.UUID
	OrderID    kernel.UUID
	Attempts   int
	OccurredAt time.Time
}
