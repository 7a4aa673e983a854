package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades subscribe requests and pumps hub frames onto the socket.
type Handler struct {
	hub    *Hub
	logger *slog.Logger
}

// NewHandler creates the websocket subscribe handler.
func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger.With("component", "ws_handler"),
	}
}

// Subscribe handles GET /ws?topic=order:<id>. The connection receives every
// frame broadcast to the topic until either side closes.
func (h *Handler) Subscribe(c echo.Context) error {
	topic, err := ParseTopic(c.QueryParam("topic"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return nil
	}

	client := h.hub.Register(topic)
	go h.writeLoop(conn, client)
	go h.readLoop(conn, client)
	return nil
}

// writeLoop drains the client's frame queue onto the socket.
func (h *Handler) writeLoop(conn *websocket.Conn, client *Client) {
	defer conn.Close()

	for frame := range client.Frames() {
		if err := conn.WriteJSON(frame); err != nil {
			h.hub.Unregister(client)
			return
		}
	}
}

// readLoop discards inbound messages and unregisters on disconnect. The
// stream is one way; reading only detects the close.
func (h *Handler) readLoop(conn *websocket.Conn, client *Client) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.hub.Unregister(client)
			return
		}
	}
}
