// Package http exposes the REST surface: order transitions, assignment
// tracking, rider offer responses and announcement broadcasts. Handlers are
// thin shells over the command and query handlers; domain errors map onto
// HTTP statuses here and nowhere else.
package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the JSON error body returned by every failing endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	transitionOrderHandler     commands.TransitionOrderCommandHandler
	respondToOfferHandler      commands.RespondToOfferCommandHandler
	riderLocationHandler       commands.UpdateRiderLocationCommandHandler
	broadcastHandler           commands.BroadcastNotificationCommandHandler
	getOrderHistoryHandler     queries.GetOrderHistoryQueryHandler
	getAssignmentStatusHandler queries.GetAssignmentStatusQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	respondToOfferHandler commands.RespondToOfferCommandHandler,
	riderLocationHandler commands.UpdateRiderLocationCommandHandler,
	broadcastHandler commands.BroadcastNotificationCommandHandler,
	getOrderHistoryHandler queries.GetOrderHistoryQueryHandler,
	getAssignmentStatusHandler queries.GetAssignmentStatusQueryHandler,
) *Server {
	return &Server{
		transitionOrderHandler:     transitionOrderHandler,
		respondToOfferHandler:      respondToOfferHandler,
		riderLocationHandler:       riderLocationHandler,
		broadcastHandler:           broadcastHandler,
		getOrderHistoryHandler:     getOrderHistoryHandler,
		getAssignmentStatusHandler: getAssignmentStatusHandler,
	}
}

// RegisterRoutes attaches every REST endpoint to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders/:id/transition", s.TransitionOrder)
	api.GET("/orders/:id/assignment", s.GetAssignmentStatus)
	api.GET("/orders/:id/history", s.GetOrderHistory)
	api.POST("/assignments/:orderId/response", s.RespondToOffer)
	api.POST("/riders/:id/location", s.UpdateRiderLocation)
	api.POST("/notifications/broadcast", s.BroadcastNotification)
}

// transitionRequest is the body of POST /api/v1/orders/:id/transition.
type transitionRequest struct {
	Status  string `json:"status"`
	ActorID string `json:"actorId"`
	Notes   string `json:"notes"`
}

// TransitionOrder handles POST /api/v1/orders/:id/transition - moves an
// order along one edge of the lifecycle graph.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req transitionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	status, err := order.StatusFromString(req.Status)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+req.Status)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, status, req.ActorID, req.Notes)
	if err != nil {
		return badRequest(ctx, "Invalid transition data: "+err.Error())
	}

	if err = s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		var invalidTransition *order.InvalidTransitionError
		switch {
		case errors.As(err, &invalidTransition):
			return ctx.JSON(http.StatusConflict, Error{
				Code:    http.StatusConflict,
				Message: invalidTransition.Error(),
			})
		case errors.Is(err, errs.ErrObjectNotFound):
			return notFound(ctx, "Order not found")
		default:
			return internalError(ctx, "Failed to transition order")
		}
	}

	return ctx.NoContent(http.StatusNoContent)
}

// historyEntry is one row of GET /api/v1/orders/:id/history.
type historyEntry struct {
	Status    string `json:"status"`
	ActorID   string `json:"actorId"`
	Notes     string `json:"notes,omitempty"`
	Timestamp string `json:"timestamp"`
}

// GetOrderHistory handles GET /api/v1/orders/:id/history - returns the
// status audit trail, oldest first.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderHistoryQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	entries, err := s.getOrderHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to retrieve order history")
	}

	response := make([]historyEntry, len(entries))
	for i, entry := range entries {
		response[i] = historyEntry{
			Status:    entry.Status,
			ActorID:   entry.ActorID,
			Notes:     entry.Notes,
			Timestamp: entry.Timestamp.UTC().Format(timeFormat),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// assignmentStatusResponse is the body of GET /api/v1/orders/:id/assignment.
type assignmentStatusResponse struct {
	RequestID     string  `json:"requestId"`
	Status        string  `json:"status"`
	Priority      int     `json:"priority"`
	RadiusKm      float64 `json:"radiusKm"`
	Attempts      int     `json:"attempts"`
	RejectedCount int     `json:"rejectedCount"`
	OfferedRider  *string `json:"offeredRiderId,omitempty"`
	TimeoutAt     *string `json:"timeoutAt,omitempty"`
}

// GetAssignmentStatus handles GET /api/v1/orders/:id/assignment - returns
// the latest matching state of an order.
func (s *Server) GetAssignmentStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetAssignmentStatusQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	status, err := s.getAssignmentStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return notFound(ctx, "No assignment request for order")
		}
		return internalError(ctx, "Failed to retrieve assignment status")
	}

	response := assignmentStatusResponse{
		RequestID:     status.RequestID.String(),
		Status:        status.Status,
		Priority:      status.Priority,
		RadiusKm:      status.RadiusKm,
		Attempts:      status.Attempts,
		RejectedCount: status.RejectedCount,
	}
	if status.OfferedRider != nil {
		rider := status.OfferedRider.String()
		response.OfferedRider = &rider
	}
	if status.TimeoutAt != nil {
		deadline := status.TimeoutAt.UTC().Format(timeFormat)
		response.TimeoutAt = &deadline
	}

	return ctx.JSON(http.StatusOK, response)
}

// offerResponseRequest is the body of POST /api/v1/assignments/:orderId/response.
type offerResponseRequest struct {
	RiderID string `json:"riderId"`
	Accept  bool   `json:"accept"`
}

// RespondToOffer handles POST /api/v1/assignments/:orderId/response - a
// rider accepting or declining the outstanding offer.
func (s *Server) RespondToOffer(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req offerResponseRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	riderID, err := kernel.UUIDFromString(req.RiderID)
	if err != nil {
		return badRequest(ctx, "Invalid rider id")
	}

	cmd, err := commands.NewRespondToOfferCommand(orderID, riderID, req.Accept)
	if err != nil {
		return badRequest(ctx, "Invalid response data: "+err.Error())
	}

	if err = s.respondToOfferHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		switch {
		case errors.Is(err, assignment.ErrOfferAlreadyResolved),
			errors.Is(err, assignment.ErrNoOutstandingOffer),
			errors.Is(err, assignment.ErrRequestIsTerminal):
			return ctx.JSON(http.StatusConflict, Error{
				Code:    http.StatusConflict,
				Message: "Offer is no longer available",
			})
		case errors.Is(err, errs.ErrObjectNotFound):
			return notFound(ctx, "No assignment request for order")
		default:
			return internalError(ctx, "Failed to process offer response")
		}
	}

	return ctx.NoContent(http.StatusNoContent)
}

// riderLocationRequest is the body of POST /api/v1/riders/:id/location.
type riderLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UpdateRiderLocation handles POST /api/v1/riders/:id/location - a position
// report from the rider's device.
func (s *Server) UpdateRiderLocation(ctx echo.Context) error {
	riderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid rider id")
	}

	var req riderLocationRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	location, err := kernel.NewGeoPoint(req.Latitude, req.Longitude)
	if err != nil {
		return badRequest(ctx, "Invalid coordinates: "+err.Error())
	}

	cmd, err := commands.NewUpdateRiderLocationCommand(riderID, location)
	if err != nil {
		return badRequest(ctx, "Invalid location data: "+err.Error())
	}

	if err = s.riderLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return notFound(ctx, "Rider not found")
		}
		return internalError(ctx, "Failed to update rider location")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// broadcastRequest is the body of POST /api/v1/notifications/broadcast.
type broadcastRequest struct {
	UserIDs []string `json:"userIds"`
	Subject string   `json:"subject"`
	Message string   `json:"message"`
}

// broadcastResponse reports the per-channel outcome counts of a broadcast.
type broadcastResponse struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// BroadcastNotification handles POST /api/v1/notifications/broadcast - an
// announcement fanned out to many users.
func (s *Server) BroadcastNotification(ctx echo.Context) error {
	var req broadcastRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	userIDs := make([]kernel.UUID, 0, len(req.UserIDs))
	for _, raw := range req.UserIDs {
		userID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return badRequest(ctx, "Invalid user id: "+raw)
		}
		userIDs = append(userIDs, userID)
	}

	cmd, err := commands.NewBroadcastNotificationCommand(userIDs, req.Subject, req.Message)
	if err != nil {
		return badRequest(ctx, "Invalid broadcast data: "+err.Error())
	}

	result, err := s.broadcastHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return internalError(ctx, "Failed to broadcast notification")
	}

	return ctx.JSON(http.StatusOK, broadcastResponse{
		Successful: result.Successful,
		Failed:     result.Failed,
		Skipped:    result.Skipped,
	})
}

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

func notFound(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusNotFound, Error{Code: http.StatusNotFound, Message: message})
}

func internalError(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusInternalServerError, Error{Code: http.StatusInternalServerError, Message: message})
}
