package sqlite

import (
	"context"
	"testing"
	"time"

	"nutritrack/internal/core/tracker"
	"nutritrack/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func entry(id, date string, created time.Time) *tracker.FoodEntry {
	return &tracker.FoodEntry{
		ID:        id,
		Date:      date,
		Meal:      tracker.SlotLunch,
		Name:      "Banana",
		Calories:  105,
		Protein:   1.3,
		Fat:       0.4,
		Carbs:     27,
		Quantity:  1,
		Source:    tracker.SourceSample,
		CreatedAt: created,
	}
}

func TestEntryCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	created := time.Date(2024, 3, 1, 8, 0, 0, 500, time.UTC)

	require.NoError(t, s.AddEntry(ctx, entry("a", "2024-03-01", created)))

	got, err := s.GetEntry(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Banana", got.Name)
	assert.Equal(t, tracker.SlotLunch, got.Meal)
	assert.True(t, created.Equal(got.CreatedAt))

	got.Name = "Apple"
	got.Quantity = 2
	require.NoError(t, s.UpdateEntry(ctx, got))

	got, err = s.GetEntry(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Apple", got.Name)
	assert.Equal(t, 2.0, got.Quantity)

	require.NoError(t, s.DeleteEntry(ctx, "a"))
	_, err = s.GetEntry(ctx, "a")
	assert.ErrorIs(t, err, common.ErrEntryNotFound)
	assert.ErrorIs(t, s.DeleteEntry(ctx, "a"), common.ErrEntryNotFound)
	assert.ErrorIs(t, s.UpdateEntry(ctx, entry("missing", "2024-03-01", created)), common.ErrEntryNotFound)
}

func TestListEntriesRangeAndOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddEntry(ctx, entry("late", "2024-03-02", base.Add(2*time.Second))))
	require.NoError(t, s.AddEntry(ctx, entry("early", "2024-03-02", base.Add(500*time.Millisecond))))
	require.NoError(t, s.AddEntry(ctx, entry("first-day", "2024-03-01", base)))
	require.NoError(t, s.AddEntry(ctx, entry("outside", "2024-03-05", base)))

	got, err := s.ListEntries(ctx, "2024-03-01", "2024-03-02")
	require.NoError(t, err)

	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"first-day", "early", "late"}, ids)

	none, err := s.ListEntries(ctx, "2023-01-01", "2023-01-31")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestWeights(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	n, err := s.CountWeights(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	now := time.Now()
	require.NoError(t, s.AddWeight(ctx, &tracker.WeightEntry{ID: "w1", Date: "2024-01-08", Weight: 178.9, Week: 1, CreatedAt: now}))
	require.NoError(t, s.AddWeight(ctx, &tracker.WeightEntry{ID: "w2", Date: "2024-01-01", Weight: 180.6, Week: 2, CreatedAt: now}))

	n, err = s.CountWeights(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := s.ListWeights(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "w1", got[0].ID)
	assert.Equal(t, "w2", got[1].ID)
}

func TestGoalsAndClear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, ok, err := s.GetGoals(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	g := tracker.Goals{CalorieTarget: 1800, ProteinPercent: 40, FatPercent: 30, CarbPercent: 30, WeightGoal: 150}
	require.NoError(t, s.SaveGoals(ctx, g))
	g.CalorieTarget = 1900
	require.NoError(t, s.SaveGoals(ctx, g))

	got, ok, err := s.GetGoals(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, g, got)

	require.NoError(t, s.AddEntry(ctx, entry("a", "2024-03-01", time.Now())))
	require.NoError(t, s.AddWeight(ctx, &tracker.WeightEntry{ID: "w", Date: "2024-03-01", Weight: 170, Week: 1, CreatedAt: time.Now()}))

	require.NoError(t, s.Clear(ctx))

	entries, err := s.ListEntries(ctx, "0001-01-01", "9999-12-31")
	require.NoError(t, err)
	assert.Empty(t, entries)
	n, err := s.CountWeights(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, ok, err = s.GetGoals(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Ping(ctx))
}
