// Package orderrepo provides data transfer objects and mapping functions for
// order persistence, including the append-only status history table.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID       uuid.UUID  `gorm:"type:uuid;index"`
	RestaurantID     uuid.UUID  `gorm:"type:uuid;index"`
	RiderID          *uuid.UUID `gorm:"type:uuid;index"`
	Items            []ItemDTO  `gorm:"serializer:json;type:jsonb"`
	TotalCents       int64
	PickupLatitude   float64
	PickupLongitude  float64
	DeliveryLatitude float64
	DeliveryLongitude float64
	Status           string `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one order line inside the serialized items column.
type ItemDTO struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
}

// HistoryDTO is one row of the append-only status history. Rows are inserted
// once per transition and never updated or deleted.
type HistoryDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	Status    string
	ActorID   string
	Notes     string
	CreatedAt time.Time
}

// TableName specifies the database table name for history rows.
func (HistoryDTO) TableName() string {
	return "order_status_history"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var riderID *uuid.UUID
	if id := aggregate.RiderID(); id != nil {
		raw := id.Bytes()
		riderID = &raw
	}

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			Name:       item.Name,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
	}

	return OrderDTO{
		ID:                aggregate.ID().Bytes(),
		CustomerID:        aggregate.CustomerID().Bytes(),
		RestaurantID:      aggregate.RestaurantID().Bytes(),
		RiderID:           riderID,
		Items:             items,
		TotalCents:        aggregate.TotalCents(),
		PickupLatitude:    aggregate.PickupLocation().Latitude(),
		PickupLongitude:   aggregate.PickupLocation().Longitude(),
		DeliveryLatitude:  aggregate.DeliveryLocation().Latitude(),
		DeliveryLongitude: aggregate.DeliveryLocation().Longitude(),
		Status:            aggregate.Status().String(),
		CreatedAt:         aggregate.CreatedAt(),
		UpdatedAt:         aggregate.UpdatedAt(),
	}
}

// historyFromDomain converts one history entry to its database row.
func historyFromDomain(entry order.HistoryEntry) HistoryDTO {
	return HistoryDTO{
		OrderID:   entry.OrderID.Bytes(),
		Status:    entry.Status.String(),
		ActorID:   entry.ActorID,
		Notes:     entry.Notes,
		CreatedAt: entry.Timestamp,
	}
}

// toDomain converts database rows back into an order aggregate.
func toDomain(dto OrderDTO, historyRows []HistoryDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var riderID *kernel.UUID
	if dto.RiderID != nil {
		rID, riderErr := kernel.UUIDFromBytes((*dto.RiderID)[:])
		if riderErr != nil {
			return nil, riderErr
		}
		riderID = &rID
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, item := range dto.Items {
		items = append(items, order.Item{
			Name:       item.Name,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
	}

	pickup, err := kernel.NewGeoPoint(dto.PickupLatitude, dto.PickupLongitude)
	if err != nil {
		return nil, err
	}
	dropoff, err := kernel.NewGeoPoint(dto.DeliveryLatitude, dto.DeliveryLongitude)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	history := make([]order.HistoryEntry, 0, len(historyRows))
	for _, row := range historyRows {
		entryStatus, entryErr := order.StatusFromString(row.Status)
		if entryErr != nil {
			return nil, entryErr
		}
		history = append(history, order.HistoryEntry{
			OrderID:   id,
			Status:    entryStatus,
			ActorID:   row.ActorID,
			Notes:     row.Notes,
			Timestamp: row.CreatedAt,
		})
	}

	return order.RestoreOrder(id, customerID, restaurantID, riderID, items,
		pickup, dropoff, status, history, dto.CreatedAt, dto.UpdatedAt)
}
