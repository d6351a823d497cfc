package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DailyLogMutation edits a day's log in place. created reports whether the row is new.
type DailyLogMutation func(l *DailyLog, created bool) error

// UpdateDailyLog loads (or starts) the subject's log for date, applies mutate and saves
// it in one transaction.
func (d *Database) UpdateDailyLog(ctx context.Context, subject, date string, mutate DailyLogMutation) (*DailyLog, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, errors.New("daily log subject required")
	}
	if strings.TrimSpace(date) == "" {
		return nil, errors.New("daily log date required")
	}
	if mutate == nil {
		return nil, errors.New("daily log mutation is nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var saved DailyLog
	err := d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		if tx.Dialector.Name() == DriverPostgres {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var row DailyLog
		created := false
		if err := query.Where("subject = ? AND log_date = ?", subject, date).First(&row).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			row = DailyLog{Subject: subject, Date: date}
			created = true
		}
		if err := mutate(&row, created); err != nil {
			return err
		}
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		saved = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// GetDailyLog returns the subject's log for date or ErrNotFound.
func (d *Database) GetDailyLog(ctx context.Context, subject, date string) (*DailyLog, error) {
	var row DailyLog
	err := d.gorm.WithContext(ctx).
		Where("subject = ? AND log_date = ?", strings.TrimSpace(subject), date).
		First(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}
