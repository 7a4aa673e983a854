package assignment_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()

	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func newTestRequest(t *testing.T, policy assignment.Policy) *assignment.Request {
	t.Helper()

	r, err := assignment.NewRequest(kernel.NewUUID(), kernel.NewUUID(), 3,
		testPoint(t, 51.5007, -0.1246), testPoint(t, 51.5194, -0.1270), policy, time.Now())
	require.NoError(t, err)
	return r
}

func TestNewRequest(t *testing.T) {
	t.Run("starts pending at the initial radius", func(t *testing.T) {
		r := newTestRequest(t, assignment.DefaultPolicy())

		require.NoError(t, r.Validate())
		assert.Equal(t, assignment.Pending, r.Status())
		assert.Equal(t, assignment.Kilometers(5), r.Radius())
		assert.Zero(t, r.Attempts())
		assert.Empty(t, r.RejectedBy())
		assert.Nil(t, r.OfferedRider())
	})

	t.Run("rejects out-of-range priority", func(t *testing.T) {
		_, err := assignment.NewRequest(kernel.NewUUID(), kernel.NewUUID(), 6,
			testPoint(t, 51.5, -0.12), testPoint(t, 51.52, -0.13), assignment.DefaultPolicy(), time.Now())

		require.Error(t, err)
	})

	t.Run("rejects invalid policy", func(t *testing.T) {
		policy := assignment.DefaultPolicy()
		policy.GrowthFactor = 1

		_, err := assignment.NewRequest(kernel.NewUUID(), kernel.NewUUID(), 3,
			testPoint(t, 51.5, -0.12), testPoint(t, 51.52, -0.13), policy, time.Now())

		require.Error(t, err)
	})
}

func TestRequest_Offer(t *testing.T) {
	t.Run("moves request to offered and arms the deadline", func(t *testing.T) {
		r := newTestRequest(t, assignment.DefaultPolicy())
		riderID := kernel.NewUUID()
		now := time.Now()

		err := r.Offer(riderID, now)

		require.NoError(t, err)
		assert.Equal(t, assignment.Offered, r.Status())
		require.NotNil(t, r.OfferedRider())
		assert.True(t, r.OfferedRider().IsEqual(riderID))
		require.NotNil(t, r.TimeoutAt())
		assert.Equal(t, now.Add(45*time.Second), *r.TimeoutAt())
	})

	t.Run("refuses a second offer while one is outstanding", func(t *testing.T) {
		r := newTestRequest(t, assignment.DefaultPolicy())
		require.NoError(t, r.Offer(kernel.NewUUID(), time.Now()))

		err := r.Offer(kernel.NewUUID(), time.Now())

		require.ErrorIs(t, err, assignment.ErrOfferAlreadyResolved)
	})

	t.Run("never re-offers to a rider that declined", func(t *testing.T) {
		r := newTestRequest(t, assignment.DefaultPolicy())
		riderID := kernel.NewUUID()
		require.NoError(t, r.Offer(riderID, time.Now()))
		require.NoError(t, r.RegisterRejection(riderID, time.Now()))

		err := r.Offer(riderID, time.Now())

		require.Error(t, err)
	})
}

func TestRequest_Accept(t *testing.T) {
	t.Run("resolves the offer and terminates the request", func(t *testing.T) {
		r := newTestRequest(t, assignment.DefaultPolicy())
		riderID := kernel.NewUUID()
		require.NoError(t, r.Offer(riderID, time.Now()))

		err := r.Accept(riderID, time.Now())

		require.NoError(t, err)
		assert.Equal(t, assignment.Accepted, r.Status())
		assert.True(t, r.IsTerminal())
		assert.Nil(t, r.TimeoutAt())
	})

	t.Run("rejects a response from the wrong rider", func(t *testing.T) {
		r := newTestRequest(t, assignment.DefaultPolicy())
		require.NoError(t, r.Offer(kernel.NewUUID(), time.Now()))

		err := r.Accept(kernel.NewUUID(), time.Now())

		require.ErrorIs(t, err, assignment.ErrOfferAlreadyResolved)
		assert.Equal(t, assignment.Offered, r.Status())
	})

	t.Run("rejects a response with no offer in flight", func(t *testing.T) {
		r := newTestRequest(t, assignment.DefaultPolicy())

		err := r.Accept(kernel.NewUUID(), time.Now())

		require.ErrorIs(t, err, assignment.ErrNoOutstandingOffer)
	})

	t.Run("rejects a late response after the request timed out and exhausted", func(t *testing.T) {
		policy := assignment.DefaultPolicy()
		policy.MaxAttempts = 1
		r := newTestRequest(t, policy)
		riderID := kernel.NewUUID()
		require.NoError(t, r.Offer(riderID, time.Now()))
		require.NoError(t, r.RegisterRejection(riderID, time.Now()))

		err := r.Accept(riderID, time.Now())

		require.ErrorIs(t, err, assignment.ErrRequestIsTerminal)
		assert.Equal(t, assignment.Exhausted, r.Status())
	})
}

func TestRequest_RegisterRejection(t *testing.T) {
	t.Run("widens the radius and returns to pending", func(t *testing.T) {
		r := newTestRequest(t, assignment.DefaultPolicy())
		riderID := kernel.NewUUID()
		require.NoError(t, r.Offer(riderID, time.Now()))

		err := r.RegisterRejection(riderID, time.Now())

		require.NoError(t, err)
		assert.Equal(t, assignment.Pending, r.Status())
		assert.Equal(t, assignment.Kilometers(7.5), r.Radius())
		assert.Equal(t, 1, r.Attempts())
		assert.True(t, r.HasRejected(riderID))
		assert.Nil(t, r.OfferedRider())
	})

	t.Run("radius grows by half each round", func(t *testing.T) {
		r := newTestRequest(t, assignment.DefaultPolicy())

		first := kernel.NewUUID()
		require.NoError(t, r.Offer(first, time.Now()))
		require.NoError(t, r.RegisterRejection(first, time.Now()))
		assert.InDelta(t, 7.5, float64(r.Radius()), 1e-9)

		second := kernel.NewUUID()
		require.NoError(t, r.Offer(second, time.Now()))
		require.NoError(t, r.RegisterRejection(second, time.Now()))
		assert.InDelta(t, 11.25, float64(r.Radius()), 1e-9)
	})

	t.Run("radius never exceeds the cap", func(t *testing.T) {
		policy := assignment.DefaultPolicy()
		policy.InitialRadius = 18
		r := newTestRequest(t, policy)
		riderID := kernel.NewUUID()
		require.NoError(t, r.Offer(riderID, time.Now()))

		require.NoError(t, r.RegisterRejection(riderID, time.Now()))

		assert.Equal(t, assignment.Kilometers(20), r.Radius())
	})

	t.Run("exhausts after every candidate declines", func(t *testing.T) {
		policy := assignment.DefaultPolicy()
		policy.MaxAttempts = 3
		r := newTestRequest(t, policy)

		riders := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()}
		for _, riderID := range riders {
			require.NoError(t, r.Offer(riderID, time.Now()))
			require.NoError(t, r.RegisterRejection(riderID, time.Now()))
		}

		assert.Equal(t, assignment.Exhausted, r.Status())
		assert.True(t, r.IsTerminal())
		assert.Equal(t, 3, r.Attempts())
		assert.Len(t, r.RejectedBy(), 3)
		for _, riderID := range riders {
			assert.True(t, r.HasRejected(riderID))
		}
	})
}

func TestRequest_WidenSearch(t *testing.T) {
	t.Run("widens after an empty candidate round", func(t *testing.T) {
		r := newTestRequest(t, assignment.DefaultPolicy())

		require.True(t, r.WidenSearch())
		assert.InDelta(t, 7.5, float64(r.Radius()), 1e-9)

		require.True(t, r.WidenSearch())
		assert.InDelta(t, 11.25, float64(r.Radius()), 1e-9)

		assert.Zero(t, r.Attempts())
	})

	t.Run("stops at the radius cap", func(t *testing.T) {
		policy := assignment.DefaultPolicy()
		policy.InitialRadius = 20
		r := newTestRequest(t, policy)

		assert.False(t, r.WidenSearch())
		assert.Equal(t, assignment.Kilometers(20), r.Radius())
	})
}

func TestRequest_IsOfferExpired(t *testing.T) {
	r := newTestRequest(t, assignment.DefaultPolicy())
	now := time.Now()
	require.NoError(t, r.Offer(kernel.NewUUID(), now))

	assert.False(t, r.IsOfferExpired(now.Add(44*time.Second)))
	assert.True(t, r.IsOfferExpired(now.Add(45*time.Second)))
	assert.True(t, r.IsOfferExpired(now.Add(time.Minute)))
}

func TestRequest_Cancel(t *testing.T) {
	t.Run("cancels a request with an offer in flight", func(t *testing.T) {
		r := newTestRequest(t, assignment.DefaultPolicy())
		require.NoError(t, r.Offer(kernel.NewUUID(), time.Now()))

		require.NoError(t, r.Cancel())

		assert.Equal(t, assignment.Cancelled, r.Status())
		assert.Nil(t, r.OfferedRider())
	})

	t.Run("refuses to cancel a terminal request", func(t *testing.T) {
		r := newTestRequest(t, assignment.DefaultPolicy())
		riderID := kernel.NewUUID()
		require.NoError(t, r.Offer(riderID, time.Now()))
		require.NoError(t, r.Accept(riderID, time.Now()))

		require.ErrorIs(t, r.Cancel(), assignment.ErrRequestIsTerminal)
		assert.Equal(t, assignment.Accepted, r.Status())
	})
}

func TestPriorityFromOrderTotal(t *testing.T) {
	tests := []struct {
		totalCents int64
		want       int
	}{
		{500, 1},
		{999, 1},
		{1000, 2},
		{2500, 3},
		{5000, 4},
		{9999, 4},
		{10000, 5},
		{25000, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, assignment.PriorityFromOrderTotal(tt.totalCents), "total %d", tt.totalCents)
	}
}
