// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the OrderStore contract on top of GORM, handling the
// conversion between the order aggregate and its row in the "orders" table.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting orders.
// Status and creation time are indexed because the automation scans by both.
type OrderDTO struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	ItemCount int       `gorm:"not null"`
	Status    int       `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:        aggregate.ID().String(),
		ItemCount: aggregate.ItemCount(),
		Status:    int(aggregate.Status()),
		CreatedAt: aggregate.CreatedAt().UTC(),
	}
}

// toDomain rebuilds the order aggregate from a row using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.OrderIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, dto.ItemCount, dto.CreatedAt, order.Status(dto.Status))
}

func statusValues(statuses ...order.Status) []int {
	values := make([]int, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, int(s))
	}
	return values
}
