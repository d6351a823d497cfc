package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"healthbite/backend/internal/scoring"
	"healthbite/backend/internal/store"
)

// Order defaults.
const (
	StatusCompleted      = "completed"
	DefaultPaymentMethod = "Cash"
)

var (
	// ErrEmptyOrder is returned when an order names no items.
	ErrEmptyOrder = errors.New("order has no items")
	// ErrFoodUnavailable is returned when an ordered item is off the menu.
	ErrFoodUnavailable = errors.New("food item is not available")
)

// Store is the persistence the service needs.
type Store interface {
	FoodsByID(ctx context.Context, ids []uint) (map[uint]store.FoodItem, error)
	CreateOrder(ctx context.Context, order *store.Order) error
	ListOrders(ctx context.Context, subject string) ([]store.Order, error)
}

// Profiles looks up a caller's stored profile.
type Profiles interface {
	GetProfile(ctx context.Context, subject string) (*store.HealthProfile, error)
}

// Request is an order as submitted. A food id listed more than once orders it that
// many times.
type Request struct {
	FoodIDs       []uint
	PaymentMethod string
}

// Service places orders against the catalog and reports order history.
type Service struct {
	store    Store
	profiles Profiles
	scorer   *scoring.MenuScorer
}

// NewService wires the order service.
func NewService(s Store, profiles Profiles, scorer *scoring.MenuScorer) (*Service, error) {
	if s == nil {
		return nil, errors.New("order store required")
	}
	if scorer == nil {
		return nil, errors.New("menu scorer required")
	}
	return &Service{store: s, profiles: profiles, scorer: scorer}, nil
}

type line struct {
	id  uint
	qty int
}

// Place prices the order from the catalog, totals its nutrition and flags lines that
// are restricted for the caller's profile.
func (s *Service) Place(ctx context.Context, subject string, req Request) (*store.Order, error) {
	lines := groupLines(req.FoodIDs)
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.id)
	}
	foods, err := s.store.FoodsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load ordered foods: %w", err)
	}

	profile := s.profileFor(ctx, subject)
	payment := strings.TrimSpace(req.PaymentMethod)
	if payment == "" {
		payment = DefaultPaymentMethod
	}
	o := &store.Order{
		Subject:       subject,
		Status:        StatusCompleted,
		PaymentMethod: payment,
		Items:         make([]store.OrderItem, 0, len(lines)),
	}
	for _, l := range lines {
		food, ok := foods[l.id]
		if !ok {
			return nil, fmt.Errorf("food %d: %w", l.id, store.ErrNotFound)
		}
		if !food.IsAvailable {
			return nil, fmt.Errorf("%s: %w", food.Name, ErrFoodUnavailable)
		}
		qty := float64(l.qty)
		match := s.scorer.Score(food.ToScoring(), profile)
		o.Items = append(o.Items, store.OrderItem{
			FoodID:     food.ID,
			FoodName:   food.Name,
			Qty:        l.qty,
			UnitPrice:  food.Price,
			Subtotal:   food.Price * qty,
			HealthFlag: match.RiskBand == scoring.BandRestricted,
		})
		o.TotalPrice += food.Price * qty
		o.TotalCalories += food.Calories * qty
		o.TotalSugar += food.SugarG * qty
		o.TotalSodium += food.SodiumMg * qty
	}

	if err := s.store.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"subject":     subject,
		"order_id":    o.ID,
		"lines":       len(o.Items),
		"total_price": o.TotalPrice,
	}).Info("order placed")
	return o, nil
}

// History returns the caller's orders, newest first.
func (s *Service) History(ctx context.Context, subject string) ([]store.Order, error) {
	rows, err := s.store.ListOrders(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return rows, nil
}

func (s *Service) profileFor(ctx context.Context, subject string) scoring.Profile {
	if s.profiles == nil {
		return scoring.DefaultProfile()
	}
	row, err := s.profiles.GetProfile(ctx, subject)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logrus.WithError(err).WithField("subject", subject).Warn("profile lookup failed, flagging with default profile")
		}
		return scoring.DefaultProfile()
	}
	return row.ToScoring()
}

// groupLines collapses repeated ids into quantities, keeping first-seen order.
func groupLines(ids []uint) []line {
	index := make(map[uint]int, len(ids))
	var out []line
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if i, ok := index[id]; ok {
			out[i].qty++
			continue
		}
		index[id] = len(out)
		out = append(out, line{id: id, qty: 1})
	}
	return out
}
