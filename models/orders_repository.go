package models

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/storefront-labs/catalog/database"
	"gorm.io/gorm"
)

type OrdersRepository struct {
	db database.Handle
}

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

func NewOrdersRepository(db database.Handle) *OrdersRepository {
	return &OrdersRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *OrdersRepository) WithTx(tx *gorm.DB) *OrdersRepository {
	return &OrdersRepository{db: database.Static(tx)}
}

// CreateOrder inserts the header and fills in its generated id.
func (r *OrdersRepository) CreateOrder(ctx context.Context, order *Order) error {
	db, err := r.db.DB(ctx)
	if err != nil {
		return err
	}
	return db.Omit("Items").Create(order).Error
}

func (r *OrdersRepository) CreateOrderItem(ctx context.Context, item *OrderItem) error {
	db, err := r.db.DB(ctx)
	if err != nil {
		return err
	}
	return db.Create(item).Error
}

func (r *OrdersRepository) UpdateOrderTotal(ctx context.Context, orderID uint, total decimal.Decimal) error {
	db, err := r.db.DB(ctx)
	if err != nil {
		return err
	}

	return db.Model(&Order{}).Where("id = ?", orderID).Update("total", total).Error
}

func (r *OrdersRepository) GetOrderByID(ctx context.Context, orderID uint) (*Order, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id = ?", orderID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrdersRepository) GetOrderItems(ctx context.Context, orderID uint) ([]OrderItem, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	var items []OrderItem
	if err := db.Where("order_id = ?", orderID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountOrders returns the number of order headers and order lines stored.
func (r *OrdersRepository) CountOrders(ctx context.Context) (orders, items int64, err error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return 0, 0, err
	}

	if err := db.Model(&Order{}).Count(&orders).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&OrderItem{}).Count(&items).Error; err != nil {
		return 0, 0, err
	}
	return orders, items, nil
}
