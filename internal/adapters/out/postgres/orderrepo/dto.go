// Package orderrepo persists production orders and their per-station started counters.
package orderrepo

import (
	"time"

	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/order"
)

// OrderDTO is the orders row. Status is stored in its lower-case text form.
type OrderDTO struct {
	ID              string `gorm:"primaryKey"`
	ItemCode        string `gorm:"not null"`
	Item            string `gorm:"not null"`
	PlannedQuantity int    `gorm:"not null"`
	Status          string `gorm:"index;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Counters []CounterDTO `gorm:"foreignKey:OrderID;references:ID"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// CounterDTO is one order_station_counters row. Rows are only changed through
// single-statement upserts and conditional decrements.
type CounterDTO struct {
	OrderID string `gorm:"primaryKey"`
	Station string `gorm:"primaryKey"`
	Started int    `gorm:"not null;default:0;check:started >= 0"`
}

func (CounterDTO) TableName() string {
	return "order_station_counters"
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:              o.ID(),
		ItemCode:        o.ItemCode(),
		Item:            o.Item(),
		PlannedQuantity: o.PlannedQuantity(),
		Status:          o.Status().String(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	started := make(map[kernel.Station]int, len(dto.Counters))
	for _, c := range dto.Counters {
		started[kernel.Station(c.Station)] = c.Started
	}

	return order.RestoreOrder(dto.ID, dto.ItemCode, dto.Item, dto.PlannedQuantity, status, started)
}
