package menu

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"healthbite/backend/internal/scoring"
	"healthbite/backend/internal/store"
	"healthbite/backend/internal/util"
)

// Catalog lists the foods on offer.
type Catalog interface {
	ListFoods(ctx context.Context, availableOnly bool) ([]store.FoodItem, error)
}

// Profiles looks up a caller's stored profile.
type Profiles interface {
	GetProfile(ctx context.Context, subject string) (*store.HealthProfile, error)
}

// Entry pairs a catalog item with its personalised match.
type Entry struct {
	Food  store.FoodItem
	Match scoring.MatchResult
}

// Result is a scored menu together with the profile it was scored for.
type Result struct {
	Entries        []Entry
	Profile        scoring.Profile
	DefaultProfile bool
	ElapsedMs      int64
}

// Service scores the available menu for a caller.
type Service struct {
	catalog  Catalog
	profiles Profiles
	scorer   *scoring.MenuScorer
	workers  int
}

// NewService wires the menu service. workers <= 0 selects GOMAXPROCS.
func NewService(catalog Catalog, profiles Profiles, scorer *scoring.MenuScorer, workers int) (*Service, error) {
	if catalog == nil {
		return nil, errors.New("menu catalog required")
	}
	if scorer == nil {
		return nil, errors.New("menu scorer required")
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Service{catalog: catalog, profiles: profiles, scorer: scorer, workers: workers}, nil
}

// Intelligent scores every available item for the subject. Entries keep catalog order.
// An empty subject, a missing profile or a failed profile lookup all score against the
// default profile.
func (s *Service) Intelligent(ctx context.Context, subject string) (Result, error) {
	timer := util.StartTimer()

	foods, err := s.catalog.ListFoods(ctx, true)
	if err != nil {
		return Result{}, fmt.Errorf("list foods: %w", err)
	}
	profile, isDefault := s.resolveProfile(ctx, subject)

	entries := make([]Entry, len(foods))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range foods {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries[i] = Entry{
				Food:  foods[i],
				Match: s.scorer.Score(foods[i].ToScoring(), profile),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("score menu: %w", err)
	}

	elapsed := timer.ElapsedMs()
	logrus.WithFields(logrus.Fields{
		"items":           len(entries),
		"default_profile": isDefault,
		"elapsed_ms":      elapsed,
	}).Debug("menu scored")

	return Result{Entries: entries, Profile: profile, DefaultProfile: isDefault, ElapsedMs: elapsed}, nil
}

func (s *Service) resolveProfile(ctx context.Context, subject string) (scoring.Profile, bool) {
	if subject == "" || s.profiles == nil {
		return scoring.DefaultProfile(), true
	}
	row, err := s.profiles.GetProfile(ctx, subject)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logrus.WithError(err).WithField("subject", subject).Warn("profile lookup failed, scoring with default profile")
		}
		return scoring.DefaultProfile(), true
	}
	return row.ToScoring(), false
}
