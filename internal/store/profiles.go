package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileMutation edits a profile row in place. created reports whether the row is new.
type ProfileMutation func(p *HealthProfile, created bool) error

// UpdateProfile loads (or starts) the subject's profile, applies mutate, recomputes the
// derived fields and saves the row in one transaction. Any error leaves the stored row
// untouched.
func (d *Database) UpdateProfile(ctx context.Context, subject string, mutate ProfileMutation) (*HealthProfile, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, errors.New("profile subject required")
	}
	if mutate == nil {
		return nil, errors.New("profile mutation is nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var saved HealthProfile
	err := d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		if tx.Dialector.Name() == DriverPostgres {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var row HealthProfile
		created := false
		if err := query.Where("subject = ?", subject).First(&row).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			row = HealthProfile{Subject: subject}
			created = true
		}
		if err := mutate(&row, created); err != nil {
			return err
		}
		if err := row.Reassess(); err != nil {
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

// GetProfile returns the subject's profile or ErrNotFound.
func (d *Database) GetProfile(ctx context.Context, subject string) (*HealthProfile, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrNotFound
	}
	var row HealthProfile
	if err := d.gorm.WithContext(ctx).Where("subject = ?", subject).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

// CountProfiles returns the number of stored profiles.
func (d *Database) CountProfiles(ctx context.Context) (int64, error) {
	var count int64
	if err := d.gorm.WithContext(ctx).Model(&HealthProfile{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
