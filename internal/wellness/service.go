package wellness

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"healthbite/backend/internal/scoring"
	"healthbite/backend/internal/store"
)

// DefaultMood is reported for days without an entry and for entries that never set one.
const DefaultMood = "Neutral"

const dateLayout = "2006-01-02"

// Store is the persistence the service needs.
type Store interface {
	UpdateDailyLog(ctx context.Context, subject, date string, mutate store.DailyLogMutation) (*store.DailyLog, error)
	GetDailyLog(ctx context.Context, subject, date string) (*store.DailyLog, error)
}

// Entry is one submission to today's log. Zero fields leave the stored value alone.
type Entry struct {
	WaterIntakeMl int
	Steps         int
	Mood          string
}

// Service keeps the per-day wellness log.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs the wellness service. A nil clock uses time.Now.
func NewService(s Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: s, now: now}
}

// Log merges the entry into today's log. Water accumulates across submissions while
// steps and mood replace the stored value.
func (s *Service) Log(ctx context.Context, subject string, in Entry) (*store.DailyLog, error) {
	if in.WaterIntakeMl < 0 {
		return nil, &scoring.InvalidInputError{Field: "water_intake_ml", Value: float64(in.WaterIntakeMl)}
	}
	if in.Steps < 0 {
		return nil, &scoring.InvalidInputError{Field: "steps", Value: float64(in.Steps)}
	}
	mood := strings.TrimSpace(in.Mood)

	row, err := s.store.UpdateDailyLog(ctx, subject, s.today(), func(l *store.DailyLog, created bool) error {
		l.WaterIntakeMl += in.WaterIntakeMl
		if in.Steps > 0 {
			l.Steps = in.Steps
		}
		if mood != "" {
			l.Mood = mood
		}
		if created && l.Mood == "" {
			l.Mood = DefaultMood
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save daily log: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"subject":         subject,
		"date":            row.Date,
		"water_intake_ml": row.WaterIntakeMl,
	}).Debug("daily log saved")
	return row, nil
}

// Today returns today's log, or a zero entry with the default mood when nothing has
// been logged yet.
func (s *Service) Today(ctx context.Context, subject string) (store.DailyLog, error) {
	date := s.today()
	row, err := s.store.GetDailyLog(ctx, subject, date)
	if errors.Is(err, store.ErrNotFound) {
		return store.DailyLog{Subject: subject, Date: date, Mood: DefaultMood}, nil
	}
	if err != nil {
		return store.DailyLog{}, fmt.Errorf("load daily log: %w", err)
	}
	return *row, nil
}

func (s *Service) today() string {
	return s.now().Format(dateLayout)
}
