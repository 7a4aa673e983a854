// Package events provides the in-process fan-out bus between the order
// pipeline and its subscribers: the assignment loop, the notification
// orchestrator, the realtime hub and the Kafka feed. Publishing returns
// immediately; each subscriber runs on its own goroutine and a slow or
// failing subscriber never stalls the publisher or its siblings.
package events

import (
	"context"
	"log/slog"
	"sync"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
)

// Subscriber callback types, one per domain event.
type (
	StatusChangedHandler        func(ctx context.Context, event order.StatusChanged)
	RiderAssignedHandler        func(ctx context.Context, event assignment.RiderAssigned)
	RequestExhaustedHandler     func(ctx context.Context, event assignment.RequestExhausted)
	RiderLocationUpdatedHandler func(ctx context.Context, event rider.LocationUpdated)
)

// Bus implements ports.EventPublisher by fanning each event out to its
// subscribers. Subscriptions happen at startup, before the first publish;
// the mutex only guards against a misbehaving late subscriber.
type Bus struct {
	mu                   sync.RWMutex
	statusChanged        []StatusChangedHandler
	riderAssigned        []RiderAssignedHandler
	requestExhausted     []RequestExhaustedHandler
	riderLocationUpdated []RiderLocationUpdatedHandler
	wg                   sync.WaitGroup
	logger               *slog.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logger.With("component", "event_bus")}
}

// SubscribeStatusChanged registers a handler for order status transitions.
func (b *Bus) SubscribeStatusChanged(handler StatusChangedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statusChanged = append(b.statusChanged, handler)
}

// SubscribeRiderAssigned registers a handler for accepted offers.
func (b *Bus) SubscribeRiderAssigned(handler RiderAssignedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.riderAssigned = append(b.riderAssigned, handler)
}

// SubscribeRequestExhausted registers a handler for exhausted matching.
func (b *Bus) SubscribeRequestExhausted(handler RequestExhaustedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requestExhausted = append(b.requestExhausted, handler)
}

// SubscribeRiderLocationUpdated registers a handler for rider position
// reports.
func (b *Bus) SubscribeRiderLocationUpdated(handler RiderLocationUpdatedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.riderLocationUpdated = append(b.riderLocationUpdated, handler)
}

// PublishStatusChanged fans a committed status transition out to all
// subscribers and returns without waiting for them.
func (b *Bus) PublishStatusChanged(ctx context.Context, event order.StatusChanged) {
	b.mu.RLock()
	handlers := b.statusChanged
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.dispatch(ctx, func(ctx context.Context) { handler(ctx, event) })
	}
}

// PublishRiderAssigned fans an accepted offer out to all subscribers.
func (b *Bus) PublishRiderAssigned(ctx context.Context, event assignment.RiderAssigned) {
	b.mu.RLock()
	handlers := b.riderAssigned
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.dispatch(ctx, func(ctx context.Context) { handler(ctx, event) })
	}
}

// PublishRequestExhausted fans an exhausted request out to all subscribers.
func (b *Bus) PublishRequestExhausted(ctx context.Context, event assignment.RequestExhausted) {
	b.mu.RLock()
	handlers := b.requestExhausted
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.dispatch(ctx, func(ctx context.Context) { handler(ctx, event) })
	}
}

// PublishRiderLocationUpdated fans a rider position report out to all
// subscribers.
func (b *Bus) PublishRiderLocationUpdated(ctx context.Context, event rider.LocationUpdated) {
	b.mu.RLock()
	handlers := b.riderLocationUpdated
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.dispatch(ctx, func(ctx context.Context) { handler(ctx, event) })
	}
}

// Wait blocks until all in-flight subscriber goroutines finish. Used on
// shutdown and in tests.
func (b *Bus) Wait() {
	b.wg.Wait()
}

// dispatch runs one handler on its own goroutine. The handler gets a context
// detached from the publisher's: the triggering request may complete long
// before the subscriber does.
func (b *Bus) dispatch(ctx context.Context, run func(ctx context.Context)) {
	detached := context.WithoutCancel(ctx)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("event subscriber panicked", "panic", r)
			}
		}()
		run(detached)
	}()
}
