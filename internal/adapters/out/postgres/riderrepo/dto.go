// Package riderrepo provides data transfer objects and mapping functions for
// rider persistence, including the radius-bounded candidate search.
package riderrepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"

	"github.com/google/uuid"
)

// RiderDTO represents the database structure for persisting riders.
type RiderDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string
	Online           bool `gorm:"index"`
	Latitude         float64
	Longitude        float64
	ActiveOrders     int
	MaxConcurrent    int
	Rating           float64
	PerformanceScore float64
}

// TableName specifies the database table name for rider entities.
func (RiderDTO) TableName() string {
	return "riders"
}

// fromDomain converts a rider aggregate to its database representation.
func fromDomain(aggregate *rider.Rider) RiderDTO {
	return RiderDTO{
		ID:               aggregate.ID().Bytes(),
		Name:             aggregate.Name(),
		Online:           aggregate.IsOnline(),
		Latitude:         aggregate.Location().Latitude(),
		Longitude:        aggregate.Location().Longitude(),
		ActiveOrders:     aggregate.ActiveOrders(),
		MaxConcurrent:    aggregate.MaxConcurrent(),
		Rating:           aggregate.Rating(),
		PerformanceScore: aggregate.PerformanceScore(),
	}
}

// toDomain converts a database row back into a rider aggregate.
func toDomain(dto RiderDTO) (*rider.Rider, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	return rider.RestoreRider(id, dto.Name, dto.Online, location,
		dto.ActiveOrders, dto.MaxConcurrent, dto.Rating, dto.PerformanceScore)
}
