package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// FoodsByID loads the catalog items with the given ids. Missing ids are simply absent
// from the result.
func (d *Database) FoodsByID(ctx context.Context, ids []uint) (map[uint]FoodItem, error) {
	out := make(map[uint]FoodItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []FoodItem
	if err := d.gorm.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// CreateOrder inserts an order together with its lines.
func (d *Database) CreateOrder(ctx context.Context, order *Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	if len(order.Items) == 0 {
		return errors.New("order has no lines")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.WithContext(ctx).Create(order).Error
}

// ListOrders returns the subject's orders newest first, lines in insertion order.
func (d *Database) ListOrders(ctx context.Context, subject string) ([]Order, error) {
	var rows []Order
	err := d.gorm.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("subject = ?", subject).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
