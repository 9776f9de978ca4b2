package tracker_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"nutritrack/internal/core/nutrition"
	"nutritrack/internal/core/recipe"
	"nutritrack/internal/core/tracker"
	"nutritrack/internal/infrastructure/persistence/sqlite"
	"nutritrack/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *tracker.Service {
	t.Helper()
	store, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc := tracker.NewService(store)
	clock := fixedNow
	svc.SetClock(func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	})
	return svc
}

func TestAddEntryValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		date  string
		input tracker.FoodEntryInput
		field string
	}{
		{"missing name", "", tracker.FoodEntryInput{Name: "  "}, "name"},
		{"unknown slot", "", tracker.FoodEntryInput{Name: "Apple", Meal: "brunch"}, "meal"},
		{"negative calories", "", tracker.FoodEntryInput{Name: "Apple", Calories: -1}, "calories"},
		{"negative quantity", "", tracker.FoodEntryInput{Name: "Apple", Quantity: -2}, "quantity"},
		{"bad date", "10/03/2024", tracker.FoodEntryInput{Name: "Apple"}, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddEntry(ctx, tt.date, tt.input)
			require.Error(t, err)
			var v *common.ValidationError
			require.ErrorAs(t, err, &v)
			assert.Equal(t, tt.field, v.Field)
		})
	}
}

func TestAddEntryDefaults(t *testing.T) {
	svc := newTestService(t)

	e, err := svc.AddEntry(context.Background(), "", tracker.FoodEntryInput{Name: " Apple ", Calories: 95})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", e.Date)
	assert.Equal(t, tracker.SlotBreakfast, e.Meal)
	assert.Equal(t, "Apple", e.Name)
	assert.Equal(t, 1.0, e.Quantity)
	assert.Equal(t, tracker.SourceManual, e.Source)
	assert.NotEmpty(t, e.ID)
}

func TestUpdateAndDeleteEntry(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	e, err := svc.AddEntry(ctx, "2024-03-09", tracker.FoodEntryInput{Name: "Banana", Meal: tracker.SlotMorningSnack, Calories: 105, Source: tracker.SourceSample})
	require.NoError(t, err)

	updated, err := svc.UpdateEntry(ctx, e.ID, tracker.FoodEntryInput{Name: "Banana", Meal: tracker.SlotAfternoonSnack, Calories: 105, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, tracker.SlotAfternoonSnack, updated.Meal)
	assert.Equal(t, 2.0, updated.Quantity)
	assert.Equal(t, "2024-03-09", updated.Date)
	assert.Equal(t, tracker.SourceSample, updated.Source)

	_, err = svc.UpdateEntry(ctx, "missing", tracker.FoodEntryInput{Name: "x"})
	assert.ErrorIs(t, err, common.ErrEntryNotFound)

	require.NoError(t, svc.DeleteEntry(ctx, e.ID))
	entries, err := svc.ListEntries(ctx, "2024-03-09")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDaySummary(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	foods := tracker.SampleFoods("")
	chicken, rice := foods[0], foods[1]

	_, err := svc.AddEntry(ctx, "2024-03-10", chicken.Input(tracker.SlotLunch, 2))
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, "2024-03-10", rice.Input(tracker.SlotDinner, 0))
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, "2024-03-11", rice.Input(tracker.SlotDinner, 1))
	require.NoError(t, err)

	sum, err := svc.DaySummary(ctx, "2024-03-10")
	require.NoError(t, err)

	require.Len(t, sum.Meals, 6)
	assert.Equal(t, tracker.SlotBreakfast, sum.Meals[0].ID)
	assert.Equal(t, "After Dinner Snack", sum.Meals[5].Name)
	assert.Empty(t, sum.Meals[0].Entries)
	assert.InDelta(t, 330, sum.Meals[2].Totals.Calories, 1e-9)
	assert.InDelta(t, 216, sum.Meals[4].Totals.Calories, 1e-9)

	assert.InDelta(t, 546, sum.Totals.Calories, 1e-9)
	assert.InDelta(t, 67, sum.Totals.Protein, 1e-9)
	assert.Equal(t, 2000.0, sum.CalorieTarget)
	assert.InDelta(t, 1454, sum.RemainingCalories, 1e-9)
	assert.InDelta(t, 150, sum.MacroTargets.Protein, 1e-9)
	assert.InDelta(t, 546.0/2000*100, sum.Progress.Calories, 1e-9)
	assert.InDelta(t, 67.0/150*100, sum.Progress.Protein, 1e-9)
	assert.InDelta(t, 45.0/200*100, sum.Progress.Carbs, 1e-9)
}

func TestLogSuggestion(t *testing.T) {
	svc := newTestService(t)

	s := recipe.Suggestion{
		Name:      "Chicken & Broccoli Stir-Fry",
		MealType:  common.MealTypeDinner,
		Nutrition: nutrition.Nutrition{Calories: 375, Protein: 33, Fat: 6, Carbs: 50},
	}

	e, err := svc.LogSuggestion(context.Background(), "2024-03-10", "", s)
	require.NoError(t, err)
	assert.Equal(t, tracker.SlotDinner, e.Meal)
	assert.Equal(t, tracker.SourceSuggestion, e.Source)
	assert.Equal(t, 1.0, e.Quantity)
	assert.Equal(t, 375.0, e.Calories)

	e, err = svc.LogSuggestion(context.Background(), "2024-03-10", tracker.SlotEveningSnack, s)
	require.NoError(t, err)
	assert.Equal(t, tracker.SlotEveningSnack, e.Meal)
}

func TestWeights(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	empty, err := svc.WeightSummary(ctx)
	require.NoError(t, err)
	assert.Nil(t, empty.Latest)
	assert.Empty(t, empty.Recent)

	_, err = svc.AddWeight(ctx, "2024-01-01", 0)
	assert.True(t, common.IsValidationError(err))

	weights := []float64{180.6, 178.9, 177.3, 176.2, 172.7, 171.1}
	for i, w := range weights {
		e, err := svc.AddWeight(ctx, time.Date(2024, 1, 1+7*i, 0, 0, 0, 0, time.UTC).Format(common.DateLayout), w)
		require.NoError(t, err)
		assert.Equal(t, i+1, e.Week)
	}

	sum, err := svc.WeightSummary(ctx)
	require.NoError(t, err)
	require.NotNil(t, sum.Latest)
	assert.Equal(t, 171.1, sum.Latest.Weight)
	assert.Equal(t, 160.0, sum.Goal)
	assert.Equal(t, 11.1, sum.ToGoal)
	assert.Equal(t, -9.5, sum.TotalChange)
	require.Len(t, sum.Recent, 5)
	assert.Equal(t, 171.1, sum.Recent[0].Weight)
	assert.Equal(t, 178.9, sum.Recent[4].Weight)
	assert.Len(t, sum.Entries, 6)
}

func TestGoals(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	g, err := svc.Goals(ctx)
	require.NoError(t, err)
	assert.Equal(t, tracker.DefaultGoals(), g)

	tests := []struct {
		name  string
		goals tracker.Goals
	}{
		{"percent sum", tracker.Goals{CalorieTarget: 2000, ProteinPercent: 30, FatPercent: 30, CarbPercent: 30, WeightGoal: 150}},
		{"zero calories", tracker.Goals{CalorieTarget: 0, ProteinPercent: 30, FatPercent: 30, CarbPercent: 40, WeightGoal: 150}},
		{"negative percent", tracker.Goals{CalorieTarget: 2000, ProteinPercent: -10, FatPercent: 70, CarbPercent: 40, WeightGoal: 150}},
		{"zero weight goal", tracker.Goals{CalorieTarget: 2000, ProteinPercent: 30, FatPercent: 30, CarbPercent: 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateGoals(ctx, tt.goals)
			assert.True(t, common.IsValidationError(err))
		})
	}

	want := tracker.Goals{CalorieTarget: 1800, ProteinPercent: 40, FatPercent: 25, CarbPercent: 35, WeightGoal: 150}
	_, err = svc.UpdateGoals(ctx, want)
	require.NoError(t, err)
	g, err = svc.Goals(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, g)
}

func TestInsights(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	empty, err := svc.Insights(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", empty.From)
	assert.Equal(t, "2024-03-10", empty.To)
	assert.Equal(t, 7, empty.DaysInRange)
	assert.Zero(t, empty.DaysLogged)
	assert.Len(t, empty.Messages, 1)

	add := func(date string, calories, protein, fat, carbs float64) {
		_, err := svc.AddEntry(ctx, date, tracker.FoodEntryInput{Name: "Meal", Meal: tracker.SlotLunch,
			Calories: calories, Protein: protein, Fat: fat, Carbs: carbs})
		require.NoError(t, err)
	}
	add("2024-03-08", 1900, 100, 50, 200)
	add("2024-03-09", 1000, 50, 20, 100)
	add("2024-03-09", 1000, 50, 20, 100)
	add("2024-03-10", 2500, 100, 100, 250)
	add("2024-02-01", 9999, 0, 0, 0)

	_, err = svc.AddWeight(ctx, "2024-03-04", 170)
	require.NoError(t, err)
	_, err = svc.AddWeight(ctx, "2024-03-10", 168.5)
	require.NoError(t, err)

	in, err := svc.Insights(ctx, "", "")
	require.NoError(t, err)

	assert.Equal(t, 3, in.DaysLogged)
	assert.InDelta(t, 6400.0/3, in.Averages.Calories, 1e-9)
	assert.InDelta(t, 100, in.Averages.Protein, 1e-9)
	assert.Equal(t, 2, in.AdherentDays)
	assert.InDelta(t, 200.0/3, in.AdherenceRate, 1e-9)
	require.Len(t, in.Daily, 3)
	assert.Equal(t, "2024-03-09", in.Daily[1].Date)
	assert.InDelta(t, 2000, in.Daily[1].Totals.Calories, 1e-9)

	// protein 300g*4=1200, fat 190g*9=1710, carbs 650g*4=2600
	total := 1200.0 + 1710 + 2600
	assert.InDelta(t, 1200/total*100, in.ActualSplit.Protein, 1e-9)
	assert.Equal(t, 30.0, in.GoalSplit.Protein)

	require.NotNil(t, in.WeightChange)
	assert.Equal(t, -1.5, *in.WeightChange)
	assert.Contains(t, in.Messages, "You hit your calorie target on 2 of 3 logged days.")
	assert.Contains(t, in.Messages, "You lost 1.5 lbs over this period.")

	_, err = svc.Insights(ctx, "2024-03-10", "2024-03-01")
	assert.True(t, common.IsValidationError(err))
	_, err = svc.Insights(ctx, "2020-01-01", "2024-03-01")
	assert.True(t, common.IsValidationError(err))
	_, err = svc.Insights(ctx, "bad", "")
	assert.True(t, common.IsValidationError(err))
}

func TestExportAndClear(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddEntry(ctx, "2024-03-10", tracker.FoodEntryInput{Name: "Eggs, scrambled", Meal: tracker.SlotBreakfast, Calories: 140, Protein: 12, Fat: 10, Carbs: 1, Quantity: 1.5})
	require.NoError(t, err)
	_, err = svc.AddWeight(ctx, "2024-03-10", 170)
	require.NoError(t, err)

	data, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, tracker.DefaultGoals(), data.Goals)
	require.Len(t, data.DailyEntries["2024-03-10"][tracker.SlotBreakfast], 1)
	assert.Len(t, data.WeightEntries, 1)
	assert.False(t, data.ExportDate.IsZero())

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, &buf))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"date", "meal", "name", "quantity", "calories", "protein", "fat", "carbs"}, records[0])
	assert.Equal(t, []string{"2024-03-10", "breakfast", "Eggs, scrambled", "1.5", "210", "18", "15", "1.5"}, records[1])

	_, err = svc.UpdateGoals(ctx, tracker.Goals{CalorieTarget: 1500, ProteinPercent: 40, FatPercent: 30, CarbPercent: 30, WeightGoal: 140})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx))

	data, err = svc.Export(ctx)
	require.NoError(t, err)
	assert.Empty(t, data.DailyEntries)
	assert.Empty(t, data.WeightEntries)
	assert.Equal(t, tracker.DefaultGoals(), data.Goals)
}

func TestSampleFoods(t *testing.T) {
	assert.Len(t, tracker.SampleFoods(""), 10)

	got := tracker.SampleFoods("CUP")
	assert.Len(t, got, 4)
	for _, f := range got {
		assert.Contains(t, f.Name, "cup")
	}
	assert.Empty(t, tracker.SampleFoods("pizza"))
}
