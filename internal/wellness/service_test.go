package wellness

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthbite/backend/internal/scoring"
	"healthbite/backend/internal/store"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(t *testing.T) (*Service, *clock) {
	t.Helper()
	db, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "wellness.db"), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	c := &clock{t: time.Date(2025, 3, 14, 9, 30, 0, 0, time.Local)}
	return NewService(db, c.now), c
}

func TestTodayDefaultsWhenNothingLogged(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.Today(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", got.Date)
	assert.Zero(t, got.WaterIntakeMl)
	assert.Zero(t, got.Steps)
	assert.Equal(t, DefaultMood, got.Mood)
	assert.Zero(t, got.ID)
}

func TestLogAccumulatesWaterAndReplacesSteps(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	row, err := svc.Log(ctx, "alice", Entry{WaterIntakeMl: 500, Steps: 1200})
	require.NoError(t, err)
	assert.Equal(t, 500, row.WaterIntakeMl)
	assert.Equal(t, 1200, row.Steps)
	assert.Equal(t, DefaultMood, row.Mood)

	row, err = svc.Log(ctx, "alice", Entry{WaterIntakeMl: 250, Steps: 4000, Mood: " Happy "})
	require.NoError(t, err)
	assert.Equal(t, 750, row.WaterIntakeMl)
	assert.Equal(t, 4000, row.Steps)
	assert.Equal(t, "Happy", row.Mood)

	// zero fields keep what is stored
	row, err = svc.Log(ctx, "alice", Entry{})
	require.NoError(t, err)
	assert.Equal(t, 750, row.WaterIntakeMl)
	assert.Equal(t, 4000, row.Steps)
	assert.Equal(t, "Happy", row.Mood)

	got, err := svc.Today(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, row.ID, got.ID)
	assert.Equal(t, 750, got.WaterIntakeMl)

	other, err := svc.Today(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, other.WaterIntakeMl)
}

func TestLogStartsFreshEachDay(t *testing.T) {
	svc, c := newTestService(t)
	ctx := context.Background()

	first, err := svc.Log(ctx, "alice", Entry{WaterIntakeMl: 900, Mood: "Tired"})
	require.NoError(t, err)

	c.t = c.t.Add(24 * time.Hour)
	second, err := svc.Log(ctx, "alice", Entry{WaterIntakeMl: 300})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "2025-03-15", second.Date)
	assert.Equal(t, 300, second.WaterIntakeMl)
	assert.Equal(t, DefaultMood, second.Mood)
}

func TestLogRejectsNegativeValues(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Log(ctx, "alice", Entry{WaterIntakeMl: -100})
	var invalid *scoring.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "water_intake_ml", invalid.Field)

	_, err = svc.Log(ctx, "alice", Entry{Steps: -1})
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "steps", invalid.Field)

	got, err := svc.Today(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, got.ID)
}
