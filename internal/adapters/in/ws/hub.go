// Package ws provides the realtime fan-out hub. Tracking screens subscribe
// to a topic over a websocket and receive JSON frames as events arrive.
// Delivery is best effort: a subscriber that cannot keep up loses frames, it
// never slows down the order pipeline or other subscribers.
package ws

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// Frame types on the wire.
const (
	FrameOrderStatus   = "order_status"
	FrameRiderLocation = "rider_location"
	FrameAnnouncement  = "announcement"
)

// sendBuffer is the per-client frame queue. A full queue drops new frames
// for that client instead of blocking the broadcast.
const sendBuffer = 16

// Topic identifies one broadcast stream. Subscribers of a topic receive every
// frame published to it and nothing else.
type Topic string

// OrderTopic is the stream of status frames for one order.
func OrderTopic(orderID kernel.UUID) Topic {
	return Topic("order:" + orderID.String())
}

// RiderLocationTopic is the stream of position frames for one rider.
func RiderLocationTopic(riderID kernel.UUID) Topic {
	return Topic("rider_location:" + riderID.String())
}

// RoleTopic is the stream of announcement frames for one role, e.g. every
// dispatcher screen.
func RoleTopic(role string) Topic {
	return Topic("role:" + role)
}

// Frame is one JSON message pushed to subscribers.
type Frame struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"orderId,omitempty"`
	Status    string    `json:"status,omitempty"`
	Location  *Location `json:"location,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Location is a rider position inside a frame.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Hub routes frames from publishers to topic subscribers. All registry
// access is mutex guarded; Broadcast never blocks on a slow client.
type Hub struct {
	mu      sync.Mutex
	clients map[Topic]map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[Topic]map[*Client]struct{}),
		logger:  logger.With("component", "ws_hub"),
	}
}

// Client is one subscriber connection. Frames are read from Frames() and
// written to the socket by the transport layer.
type Client struct {
	topic  Topic
	frames chan Frame
}

// Frames returns the client's frame queue. The channel is closed on
// unregister.
func (c *Client) Frames() <-chan Frame {
	return c.frames
}

// Topic returns the topic the client subscribed to.
func (c *Client) Topic() Topic {
	return c.topic
}

// Register subscribes a new client to the topic.
func (h *Hub) Register(topic Topic) *Client {
	client := &Client{
		topic:  topic,
		frames: make(chan Frame, sendBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[topic] == nil {
		h.clients[topic] = make(map[*Client]struct{})
	}
	h.clients[topic][client] = struct{}{}
	return client
}

// Unregister removes the client and closes its frame queue. Safe to call
// more than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers, ok := h.clients[client.topic]
	if !ok {
		return
	}
	if _, subscribed := subscribers[client]; !subscribed {
		return
	}

	delete(subscribers, client)
	if len(subscribers) == 0 {
		delete(h.clients, client.topic)
	}
	close(client.frames)
}

// Broadcast pushes a frame to every subscriber of the topic. Clients with a
// full queue miss this frame.
func (h *Hub) Broadcast(topic Topic, frame Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients[topic] {
		select {
		case client.frames <- frame:
		default:
			h.logger.Debug("dropping frame for slow subscriber", "topic", topic, "type", frame.Type)
		}
	}
}

// SubscriberCount returns the number of clients on the topic.
func (h *Hub) SubscriberCount(topic Topic) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[topic])
}

// ParseTopic validates a raw topic string from the subscribe request.
func ParseTopic(raw string) (Topic, error) {
	topic := Topic(raw)
	for _, prefix := range []string{"order:", "rider_location:", "role:"} {
		if len(raw) > len(prefix) && raw[:len(prefix)] == prefix {
			return topic, nil
		}
	}
	return "", fmt.Errorf("unknown topic %q", raw)
}
