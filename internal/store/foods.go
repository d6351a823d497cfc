package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ListFoods returns catalog items ordered by id. With availableOnly set, items marked
// unavailable are skipped.
func (d *Database) ListFoods(ctx context.Context, availableOnly bool) ([]FoodItem, error) {
	query := d.gorm.WithContext(ctx).Model(&FoodItem{})
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}
	var rows []FoodItem
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetFood fetches one catalog item by id.
func (d *Database) GetFood(ctx context.Context, id uint) (*FoodItem, error) {
	var row FoodItem
	if err := d.gorm.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

// CreateFood inserts a catalog item.
func (d *Database) CreateFood(ctx context.Context, item *FoodItem) error {
	if item == nil {
		return errors.New("food item is nil")
	}
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return errors.New("food item name required")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.WithContext(ctx).Create(item).Error
}

// SetFoodAvailability toggles whether an item is offered on the menu.
func (d *Database) SetFoodAvailability(ctx context.Context, id uint, available bool) (*FoodItem, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var row FoodItem
	err := d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, id).Error; err != nil {
			return err
		}
		row.IsAvailable = available
		return tx.Model(&row).Update("is_available", available).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

// CountFoods returns the number of catalog items.
func (d *Database) CountFoods(ctx context.Context) (int64, error) {
	var count int64
	if err := d.gorm.WithContext(ctx).Model(&FoodItem{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReplaceFoods swaps the whole catalog with the provided items.
func (d *Database) ReplaceFoods(ctx context.Context, items []FoodItem) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&FoodItem{}).Error; err != nil {
			return err
		}
		return insertFoods(tx, items)
	})
}

// SeedFoods inserts the items only when the catalog is empty and reports how many rows
// were written.
func (d *Database) SeedFoods(ctx context.Context, items []FoodItem) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	written := 0
	err := d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&FoodItem{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := insertFoods(tx, items); err != nil {
			return err
		}
		written = len(items)
		return nil
	})
	return written, err
}

func insertFoods(tx *gorm.DB, items []FoodItem) error {
	if len(items) == 0 {
		return nil
	}
	// SQLite caps bound variables per statement.
	const batchSize = 100
	return tx.CreateInBatches(items, batchSize).Error
}
