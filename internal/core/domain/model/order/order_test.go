package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []order.Item {
	return []order.Item{
		{Name: "Margherita", Quantity: 2, PriceCents: 1250},
		{Name: "Cola", Quantity: 1, PriceCents: 300},
	}
}

func testPickup(t *testing.T) kernel.GeoPoint {
	t.Helper()

	p, err := kernel.NewGeoPoint(51.5007, -0.1246)
	require.NoError(t, err)
	return p
}

func testDropoff(t *testing.T) kernel.GeoPoint {
	t.Helper()

	p, err := kernel.NewGeoPoint(51.5194, -0.1270)
	require.NoError(t, err)
	return p
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), testItems(),
		testPickup(t), testDropoff(t), time.Now())
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create order in pending status with empty history", func(t *testing.T) {
		now := time.Now()
		id := kernel.NewUUID()

		o, err := order.NewOrder(id, kernel.NewUUID(), kernel.NewUUID(), testItems(),
			testPickup(t), testDropoff(t), now)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, id, o.ID())
		assert.Equal(t, order.Pending, o.Status())
		assert.Empty(t, o.History())
		assert.Nil(t, o.RiderID())
		assert.Equal(t, now, o.CreatedAt())
	})

	t.Run("should compute total from items", func(t *testing.T) {
		o := newTestOrder(t)

		// 2*1250 + 1*300
		assert.Equal(t, int64(2800), o.TotalCents())
	})

	t.Run("should reject empty items", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil,
			testPickup(t), testDropoff(t), time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject non-positive quantity and price", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			[]order.Item{{Name: "Margherita", Quantity: 0, PriceCents: 1250}},
			testPickup(t), testDropoff(t), time.Now())
		require.Error(t, err)

		_, err = order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			[]order.Item{{Name: "Margherita", Quantity: 1, PriceCents: -1}},
			testPickup(t), testDropoff(t), time.Now())
		require.Error(t, err)
	})

	t.Run("should reject zero-value identifiers", func(t *testing.T) {
		var missing kernel.UUID

		_, err := order.NewOrder(kernel.NewUUID(), missing, kernel.NewUUID(), testItems(),
			testPickup(t), testDropoff(t), time.Now())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "customerID")
	})

	t.Run("should reject zero-value locations", func(t *testing.T) {
		var missing kernel.GeoPoint

		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), testItems(),
			missing, testDropoff(t), time.Now())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pickupLocation")
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("zero value order fails validation", func(t *testing.T) {
		var o order.Order

		err := o.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})

	t.Run("nil order fails validation", func(t *testing.T) {
		var o *order.Order

		err := o.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("full lifecycle produces one history row per transition", func(t *testing.T) {
		o := newTestOrder(t)
		sequence := []order.Status{
			order.Confirmed, order.Preparing, order.Ready,
			order.PickedUp, order.InTransit, order.Delivered,
		}

		for _, next := range sequence {
			entry, err := o.TransitionTo(next, "actor-1", "", time.Now())

			require.NoError(t, err)
			assert.Equal(t, next, entry.Status)
			assert.Equal(t, o.ID(), entry.OrderID)
		}

		history := o.History()
		require.Len(t, history, len(sequence))
		assert.Equal(t, order.Delivered, o.Status())
		assert.Equal(t, o.Status(), history[len(history)-1].Status)
	})

	t.Run("cancel from preparing succeeds", func(t *testing.T) {
		o := newTestOrder(t)
		_, err := o.TransitionTo(order.Confirmed, "actor-1", "", time.Now())
		require.NoError(t, err)
		_, err = o.TransitionTo(order.Preparing, "actor-1", "", time.Now())
		require.NoError(t, err)

		entry, err := o.TransitionTo(order.Cancelled, "actor-1", "customer request", time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, "customer request", entry.Notes)
	})

	t.Run("cancel after pickup fails and leaves order unchanged", func(t *testing.T) {
		o := newTestOrder(t)
		for _, next := range []order.Status{order.Confirmed, order.Preparing, order.Ready, order.PickedUp} {
			_, err := o.TransitionTo(next, "actor-1", "", time.Now())
			require.NoError(t, err)
		}
		historyBefore := len(o.History())

		_, err := o.TransitionTo(order.Cancelled, "actor-1", "", time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.PickedUp, o.Status())
		assert.Len(t, o.History(), historyBefore)
	})

	t.Run("terminal order admits no further transitions", func(t *testing.T) {
		o := newTestOrder(t)
		_, err := o.TransitionTo(order.Cancelled, "actor-1", "", time.Now())
		require.NoError(t, err)

		_, err = o.TransitionTo(order.Confirmed, "actor-1", "", time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("requires an actor", func(t *testing.T) {
		o := newTestOrder(t)

		_, err := o.TransitionTo(order.Confirmed, "", "", time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Equal(t, order.Pending, o.Status())
	})
}

func TestOrder_AssignRider(t *testing.T) {
	t.Run("assigns rider to active order", func(t *testing.T) {
		o := newTestOrder(t)
		riderID := kernel.NewUUID()

		err := o.AssignRider(riderID)

		require.NoError(t, err)
		require.NotNil(t, o.RiderID())
		assert.True(t, o.RiderID().IsEqual(riderID))
	})

	t.Run("rejects assignment to terminal order", func(t *testing.T) {
		o := newTestOrder(t)
		_, err := o.TransitionTo(order.Cancelled, "actor-1", "", time.Now())
		require.NoError(t, err)

		err = o.AssignRider(kernel.NewUUID())

		require.Error(t, err)
		assert.Nil(t, o.RiderID())
	})

	t.Run("rejects zero-value rider id", func(t *testing.T) {
		o := newTestOrder(t)
		var missing kernel.UUID

		err := o.AssignRider(missing)

		require.Error(t, err)
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("restores order with history and rider", func(t *testing.T) {
		id := kernel.NewUUID()
		riderID := kernel.NewUUID()
		now := time.Now()
		history := []order.HistoryEntry{
			{OrderID: id, Status: order.Confirmed, ActorID: "actor-1", Timestamp: now},
			{OrderID: id, Status: order.Preparing, ActorID: "actor-1", Timestamp: now},
		}

		o, err := order.RestoreOrder(id, kernel.NewUUID(), kernel.NewUUID(), &riderID,
			testItems(), testPickup(t), testDropoff(t), order.Preparing, history, now, now)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, order.Preparing, o.Status())
		assert.Len(t, o.History(), 2)
		require.NotNil(t, o.RiderID())
		assert.True(t, o.RiderID().IsEqual(riderID))
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		_, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil,
			testItems(), testPickup(t), testDropoff(t), order.Unknown, nil, time.Now(), time.Now())

		require.Error(t, err)
	})
}
