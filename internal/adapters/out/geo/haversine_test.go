package geo_test

import (
	"testing"

	"dispatch/internal/adapters/out/geo"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func TestHaversineDistance(t *testing.T) {
	provider := geo.NewHaversineDistance()

	t.Run("should return zero for identical points", func(t *testing.T) {
		p := point(t, 51.5007, -0.1246)
		assert.InDelta(t, 0, float64(provider.Distance(p, p)), 1e-9)
	})

	t.Run("should match known distance between cities", func(t *testing.T) {
		london := point(t, 51.5007, -0.1246)
		paris := point(t, 48.8566, 2.3522)

		// Westminster to central Paris is roughly 340 km.
		distance := float64(provider.Distance(london, paris))
		assert.InDelta(t, 340, distance, 5)
	})

	t.Run("should be symmetric", func(t *testing.T) {
		a := point(t, 51.5007, -0.1246)
		b := point(t, 51.5194, -0.1270)

		assert.InDelta(t, float64(provider.Distance(a, b)), float64(provider.Distance(b, a)), 1e-9)
	})

	t.Run("should measure short hops in fractions of a kilometer", func(t *testing.T) {
		a := point(t, 51.5007, -0.1246)
		b := point(t, 51.5097, -0.1246)

		// 0.009 degrees of latitude is close to one kilometer.
		assert.InDelta(t, 1.0, float64(provider.Distance(a, b)), 0.05)
	})
}
