// Package geo provides straight-line distance calculation between
// coordinates. The candidate ranker uses it to order riders by proximity;
// the radius filter itself runs in SQL with the same formula.
package geo

import (
	"math"

	"dispatch/internal/core/domain/model/kernel"
)

const earthRadiusKm = 6371

// HaversineDistance computes great-circle distances between coordinates.
// Implements the ranker's DistanceProvider.
type HaversineDistance struct{}

// NewHaversineDistance creates the haversine distance provider.
func NewHaversineDistance() HaversineDistance {
	return HaversineDistance{}
}

// Distance returns the great-circle distance between two points in kilometers.
func (HaversineDistance) Distance(from, to kernel.GeoPoint) kernel.Kilometers {
	lat1 := radians(from.Latitude())
	lat2 := radians(to.Latitude())
	dLat := radians(to.Latitude() - from.Latitude())
	dLon := radians(to.Longitude() - from.Longitude())

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return kernel.Kilometers(earthRadiusKm * c)
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
