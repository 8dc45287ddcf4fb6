package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus reports whether s names a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch status := OrderStatus(s); status {
	case OrderStatusPending, OrderStatusDelivered, OrderStatusCancelled:
		return status, true
	}
	return "", false
}

type Order struct {
	gorm.Model
	CustomerID   uint            `gorm:"index;not null"`
	RestaurantID uint            `gorm:"index;not null"`
	Restaurant   Restaurant      `json:",omitempty"`
	Total        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status       OrderStatus     `gorm:"size:16;index;not null"`
	Items        []OrderItem     `gorm:"foreignKey:OrderID"`

	RestaurantRating *RestaurantRating `gorm:"foreignKey:OrderID" json:",omitempty"`
}

// OrderItem is a snapshot of a cart line taken at checkout. It is never
// updated afterwards.
type OrderItem struct {
	gorm.Model
	OrderID      uint            `gorm:"index;not null"`
	MenuItemID   uint            `gorm:"index;not null"`
	Name         string          `gorm:"size:100;not null"`
	PriceAtOrder decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity     int             `gorm:"not null"`
}

// LineTotal is the snapshot price times the ordered quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtOrder.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
