package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"
)

// RiderDirectory is the read side of the rider pool: the candidate search
// the matching loop runs each round.
type RiderDirectory interface {
	// FindCandidates retrieves available riders within radius kilometers of
	// the pickup point, excluding the given rider IDs (riders that already
	// declined the order). Returns an empty slice, not an error, when
	// nothing matches.
	FindCandidates(ctx context.Context, pickup kernel.GeoPoint, radius kernel.Kilometers,
		excluding []kernel.UUID) ([]*rider.Rider, error)
}

// RiderRepository defines the persistence contract for rider state owned by
// this core: the active-order count moves when an offer is accepted.
type RiderRepository interface {
	RiderDirectory

	// Get retrieves a rider by its identifier.
	// Returns errs.ErrObjectNotFound when no such rider exists.
	Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error)

	// GetForUpdate retrieves a rider while taking a row lock inside the
	// current transaction. The active-order increment is a read-modify-write:
	// two concurrent accepts by the same rider must not both read the same
	// count.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*rider.Rider, error)

	// Update persists changes to an existing rider.
	Update(ctx context.Context, aggregate *rider.Rider) error
}
