package queries

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAssignmentStatusQueryHandler reads the latest assignment request row of
// an order.
type GetAssignmentStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetAssignmentStatusQueryHandler creates a handler for assignment status
// queries.
func NewGetAssignmentStatusQueryHandler(db *gorm.DB) GetAssignmentStatusQueryHandler {
	return GetAssignmentStatusQueryHandler{db: db}
}

// Handle returns the newest request for the order, terminal or not.
// Returns errs.ErrObjectNotFound when matching never started for the order.
func (h GetAssignmentStatusQueryHandler) Handle(
	ctx context.Context,
	query GetAssignmentStatusQuery,
) (GetAssignmentStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAssignmentStatusQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			priority,
			radius_km,
			attempts,
			cardinality(rejected_by),
			offered_rider_id,
			timeout_at
		FROM assignment_requests
		WHERE order_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, query.OrderID().Bytes()).Row()

	var (
		response     GetAssignmentStatusQueryResponse
		id           uuid.UUID
		offeredRider uuid.NullUUID
		timeoutAt    sql.NullTime
	)

	err := row.Scan(&id, &response.Status, &response.Priority, &response.RadiusKm,
		&response.Attempts, &response.RejectedCount, &offeredRider, &timeoutAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GetAssignmentStatusQueryResponse{},
			errs.NewObjectNotFoundError("orderId", query.OrderID())
	}
	if err != nil {
		return GetAssignmentStatusQueryResponse{}, err
	}

	requestID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetAssignmentStatusQueryResponse{}, err
	}
	response.RequestID = requestID

	if offeredRider.Valid {
		riderID, riderErr := kernel.UUIDFromBytes(offeredRider.UUID[:])
		if riderErr != nil {
			return GetAssignmentStatusQueryResponse{}, riderErr
		}
		response.OfferedRider = &riderID
	}
	if timeoutAt.Valid {
		deadline := timeoutAt.Time.UTC()
		response.TimeoutAt = &deadline
	}

	return response, nil
}
