// Package assignmentrepo provides data transfer objects and mapping functions
// for assignment request persistence.
package assignmentrepo

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RequestDTO represents the database structure for persisting assignment
// requests. The matching policy is stored alongside the request so a restored
// request keeps the knobs it was created with even after the defaults change.
type RequestDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID             uuid.UUID  `gorm:"type:uuid;index"`
	Priority            int
	Status              string `gorm:"index"`
	InitialRadiusKm     float64
	MaxRadiusKm         float64
	GrowthFactor        float64
	MaxAttempts         int
	OfferTTLSeconds     int
	RadiusKm            float64
	RestaurantLatitude  float64
	RestaurantLongitude float64
	DeliveryLatitude    float64
	DeliveryLongitude   float64
	OfferedRiderID      *uuid.UUID     `gorm:"type:uuid"`
	RejectedBy          pq.StringArray `gorm:"type:text[]"`
	Attempts            int
	CreatedAt           time.Time
	OfferedAt           *time.Time
	TimeoutAt           *time.Time `gorm:"index"`
}

// TableName specifies the database table name for assignment requests.
func (RequestDTO) TableName() string {
	return "assignment_requests"
}

// fromDomain converts an assignment request to its database representation.
func fromDomain(aggregate *assignment.Request) RequestDTO {
	var offeredRider *uuid.UUID
	if id := aggregate.OfferedRider(); id != nil {
		raw := id.Bytes()
		offeredRider = &raw
	}

	rejectedBy := make(pq.StringArray, 0, len(aggregate.RejectedBy()))
	for _, riderID := range aggregate.RejectedBy() {
		rejectedBy = append(rejectedBy, riderID.String())
	}

	policy := aggregate.Policy()
	return RequestDTO{
		ID:                  aggregate.ID().Bytes(),
		OrderID:             aggregate.OrderID().Bytes(),
		Priority:            aggregate.Priority(),
		Status:              aggregate.Status().String(),
		InitialRadiusKm:     float64(policy.InitialRadius),
		MaxRadiusKm:         float64(policy.MaxRadius),
		GrowthFactor:        policy.GrowthFactor,
		MaxAttempts:         policy.MaxAttempts,
		OfferTTLSeconds:     int(policy.OfferTTL.Seconds()),
		RadiusKm:            float64(aggregate.Radius()),
		RestaurantLatitude:  aggregate.RestaurantLocation().Latitude(),
		RestaurantLongitude: aggregate.RestaurantLocation().Longitude(),
		DeliveryLatitude:    aggregate.DeliveryLocation().Latitude(),
		DeliveryLongitude:   aggregate.DeliveryLocation().Longitude(),
		OfferedRiderID:      offeredRider,
		RejectedBy:          rejectedBy,
		Attempts:            aggregate.Attempts(),
		CreatedAt:           aggregate.CreatedAt(),
		OfferedAt:           aggregate.OfferedAt(),
		TimeoutAt:           aggregate.TimeoutAt(),
	}
}

// toDomain converts a database row back into an assignment request.
func toDomain(dto RequestDTO) (*assignment.Request, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	status, err := assignment.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	restaurantLoc, err := kernel.NewGeoPoint(dto.RestaurantLatitude, dto.RestaurantLongitude)
	if err != nil {
		return nil, err
	}
	deliveryLoc, err := kernel.NewGeoPoint(dto.DeliveryLatitude, dto.DeliveryLongitude)
	if err != nil {
		return nil, err
	}

	var offeredRider *kernel.UUID
	if dto.OfferedRiderID != nil {
		riderID, riderErr := kernel.UUIDFromBytes((*dto.OfferedRiderID)[:])
		if riderErr != nil {
			return nil, riderErr
		}
		offeredRider = &riderID
	}

	rejectedBy := make([]kernel.UUID, 0, len(dto.RejectedBy))
	for _, raw := range dto.RejectedBy {
		riderID, riderErr := kernel.UUIDFromString(raw)
		if riderErr != nil {
			return nil, riderErr
		}
		rejectedBy = append(rejectedBy, riderID)
	}

	policy := assignment.Policy{
		InitialRadius: assignment.Kilometers(dto.InitialRadiusKm),
		MaxRadius:     assignment.Kilometers(dto.MaxRadiusKm),
		GrowthFactor:  dto.GrowthFactor,
		MaxAttempts:   dto.MaxAttempts,
		OfferTTL:      time.Duration(dto.OfferTTLSeconds) * time.Second,
	}

	return assignment.RestoreRequest(id, orderID, dto.Priority, status, policy,
		assignment.Kilometers(dto.RadiusKm), restaurantLoc, deliveryLoc,
		offeredRider, rejectedBy, dto.Attempts, dto.CreatedAt, dto.OfferedAt, dto.TimeoutAt)
}
