package events_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/events"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBus_FansOutToAllSubscribers(t *testing.T) {
	bus := events.NewBus(discardLogger())

	var mu sync.Mutex
	var got []order.StatusChanged
	for i := 0; i < 3; i++ {
		bus.SubscribeStatusChanged(func(_ context.Context, event order.StatusChanged) {
			mu.Lock()
			got = append(got, event)
			mu.Unlock()
		})
	}

	event := order.StatusChanged{
		OrderID:    kernel.NewUUID(),
		CustomerID: kernel.NewUUID(),
		From:       order.Pending,
		To:         order.Confirmed,
		OccurredAt: time.Now().UTC(),
	}
	bus.PublishStatusChanged(context.Background(), event)
	bus.Wait()

	assert.Len(t, got, 3)
	for _, received := range got {
		assert.Equal(t, event, received)
	}
}

func TestBus_PublishReturnsBeforeSlowSubscriberFinishes(t *testing.T) {
	bus := events.NewBus(discardLogger())

	release := make(chan struct{})
	bus.SubscribeRiderAssigned(func(context.Context, assignment.RiderAssigned) {
		<-release
	})

	done := make(chan struct{})
	go func() {
		bus.PublishRiderAssigned(context.Background(), assignment.RiderAssigned{
			RequestID: kernel.NewUUID(),
			OrderID:   kernel.NewUUID(),
			RiderID:   kernel.NewUUID(),
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a subscriber")
	}
	close(release)
	bus.Wait()
}

func TestBus_SubscriberGetsContextDetachedFromPublisher(t *testing.T) {
	bus := events.NewBus(discardLogger())

	sawCancelled := make(chan bool, 1)
	bus.SubscribeRequestExhausted(func(ctx context.Context, _ assignment.RequestExhausted) {
		sawCancelled <- ctx.Err() != nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.PublishRequestExhausted(ctx, assignment.RequestExhausted{
		RequestID: kernel.NewUUID(),
		OrderID:   kernel.NewUUID(),
		Attempts:  5,
	})
	bus.Wait()

	assert.False(t, <-sawCancelled)
}

func TestBus_PanickingSubscriberDoesNotAffectOthers(t *testing.T) {
	bus := events.NewBus(discardLogger())

	reached := make(chan struct{}, 1)
	bus.SubscribeStatusChanged(func(context.Context, order.StatusChanged) {
		panic("subscriber bug")
	})
	bus.SubscribeStatusChanged(func(context.Context, order.StatusChanged) {
		reached <- struct{}{}
	})

	bus.PublishStatusChanged(context.Background(), order.StatusChanged{
		OrderID: kernel.NewUUID(),
		From:    order.Ready,
		To:      order.PickedUp,
	})
	bus.Wait()

	select {
	case <-reached:
	case <-time.After(time.Second):
		t.Fatal("second subscriber never ran")
	}
}
