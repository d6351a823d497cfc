package order

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthbite/backend/internal/scoring"
	"healthbite/backend/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Database) {
	t.Helper()
	db, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "orders.db"), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.SeedFoods(context.Background(), []store.FoodItem{
		{Name: "Idli Sambar", Price: 30, Calories: 150, SugarG: 3, SodiumMg: 600, DietaryType: "Veg", IsAvailable: true},
		{Name: "Chicken Biryani", Price: 120, Calories: 700, SugarG: 4, SodiumMg: 1100, DietaryType: "Non-Veg", IsAvailable: true},
		{Name: "Seasonal Kheer", Price: 40, Calories: 280, SugarG: 30, SodiumMg: 50, DietaryType: "Veg", IsAvailable: false},
	})
	require.NoError(t, err)
	scorer, err := scoring.NewMenuScorer(nil)
	require.NoError(t, err)
	svc, err := NewService(db, db, scorer)
	require.NoError(t, err)
	return svc, db
}

func TestPlaceTotalsAndGroupsLines(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.Place(ctx, "alice", Request{FoodIDs: []uint{2, 1, 2}})
	require.NoError(t, err)
	assert.NotZero(t, o.ID)
	assert.Equal(t, StatusCompleted, o.Status)
	assert.Equal(t, DefaultPaymentMethod, o.PaymentMethod)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Chicken Biryani", o.Items[0].FoodName)
	assert.Equal(t, 2, o.Items[0].Qty)
	assert.InDelta(t, 240, o.Items[0].Subtotal, 1e-9)
	assert.Equal(t, 1, o.Items[1].Qty)
	assert.InDelta(t, 270, o.TotalPrice, 1e-9)
	assert.InDelta(t, 1550, o.TotalCalories, 1e-9)
	assert.InDelta(t, 11, o.TotalSugar, 1e-9)
	assert.InDelta(t, 2800, o.TotalSodium, 1e-9)
	// default profile eats anything on this menu
	assert.False(t, o.Items[0].HealthFlag)
}

func TestPlaceFlagsRestrictedItemsForProfile(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := db.UpdateProfile(ctx, "veg", func(p *store.HealthProfile, _ bool) error {
		p.HeightCm = 165
		p.WeightKg = 58
		p.DietaryPreference = string(scoring.DietVeg)
		return nil
	})
	require.NoError(t, err)

	o, err := svc.Place(ctx, "veg", Request{FoodIDs: []uint{1, 2}, PaymentMethod: " UPI "})
	require.NoError(t, err)
	assert.Equal(t, "UPI", o.PaymentMethod)
	assert.False(t, o.Items[0].HealthFlag)
	assert.True(t, o.Items[1].HealthFlag)
}

func TestPlaceRejectsBadOrders(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Place(ctx, "alice", Request{})
	require.ErrorIs(t, err, ErrEmptyOrder)
	_, err = svc.Place(ctx, "alice", Request{FoodIDs: []uint{0}})
	require.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.Place(ctx, "alice", Request{FoodIDs: []uint{1, 99}})
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Place(ctx, "alice", Request{FoodIDs: []uint{3}})
	require.ErrorIs(t, err, ErrFoodUnavailable)

	history, err := svc.History(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistoryNewestFirstPerSubject(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Place(ctx, "alice", Request{FoodIDs: []uint{1}})
	require.NoError(t, err)
	second, err := svc.Place(ctx, "alice", Request{FoodIDs: []uint{2, 1}})
	require.NoError(t, err)
	_, err = svc.Place(ctx, "bob", Request{FoodIDs: []uint{1}})
	require.NoError(t, err)

	history, err := svc.History(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
	require.Len(t, history[0].Items, 2)
	assert.Equal(t, uint(2), history[0].Items[0].FoodID)
	assert.Equal(t, uint(1), history[0].Items[1].FoodID)
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(nil, nil, nil)
	require.Error(t, err)
}
