package ports

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for assignment
// requests.
type AssignmentRepository interface {
	// Add persists a new assignment request.
	Add(ctx context.Context, request *assignment.Request) error

	// Update persists changes to an existing request.
	Update(ctx context.Context, request *assignment.Request) error

	// Get retrieves a request by its identifier.
	// Returns errs.ErrObjectNotFound when no such request exists.
	Get(ctx context.Context, id kernel.UUID) (*assignment.Request, error)

	// GetActiveByOrder retrieves the single non-terminal request for an
	// order, or errs.ErrObjectNotFound when none is in flight. At most one
	// active request exists per order.
	GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*assignment.Request, error)

	// GetExpiredOffers retrieves requests whose outstanding offer passed its
	// deadline. The timeout sweep treats each as a rejection.
	GetExpiredOffers(ctx context.Context) ([]*assignment.Request, error)

	// UpdateStatusGuarded flips the request status only if it still holds
	// the expected value, reporting whether this caller won. Rider
	// acceptance and the timeout sweep race through it: the first transition
	// away from offered wins and the loser's action is a no-op.
	UpdateStatusGuarded(ctx context.Context, id kernel.UUID, from, to assignment.Status) (bool, error)
}
