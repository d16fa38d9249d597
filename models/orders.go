package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatusPending is the status of every freshly placed order.
const OrderStatusPending = "pending"

// Order is an order header.
type Order struct {
	ID        uint            `gorm:"primaryKey"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency  string          `gorm:"size:10;not null"`
	Status    string          `gorm:"size:50;not null;default:pending"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (o *Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order. UnitPrice is captured from the catalog
// when the order is placed.
type OrderItem struct {
	ID         uint            `gorm:"primaryKey"`
	OrderID    uint            `gorm:"not null;index"`
	ProductID  string          `gorm:"size:255;not null"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Attributes datatypes.JSON
}

func (o *OrderItem) TableName() string {
	return "order_items"
}
