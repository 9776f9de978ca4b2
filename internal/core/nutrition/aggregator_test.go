package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		want  Nutrition
	}{
		{"empty", nil, Nutrition{}},
		{
			"quantity scales every field",
			[]Item{{PerUnit: Nutrition{Calories: 165, Protein: 31, Fat: 3.6, Carbs: 0}, Quantity: 2}},
			Nutrition{Calories: 330, Protein: 62, Fat: 7.2, Carbs: 0},
		},
		{
			"missing quantity defaults to one",
			[]Item{{PerUnit: Nutrition{Calories: 105, Carbs: 27}}},
			Nutrition{Calories: 105, Carbs: 27},
		},
		{
			"several entries",
			[]Item{
				{PerUnit: Nutrition{Calories: 150, Protein: 25, Fat: 5}, Quantity: 1},
				{PerUnit: Nutrition{Calories: 25, Protein: 2, Carbs: 5}, Quantity: 1},
			},
			Nutrition{Calories: 175, Protein: 27, Fat: 5, Carbs: 5},
		},
		{
			"negative input is not clamped",
			[]Item{{PerUnit: Nutrition{Calories: -10}, Quantity: 1}},
			Nutrition{Calories: -10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sum(tt.items)
			assert.InDelta(t, tt.want.Calories, got.Calories, 1e-9)
			assert.InDelta(t, tt.want.Protein, got.Protein, 1e-9)
			assert.InDelta(t, tt.want.Fat, got.Fat, 1e-9)
			assert.InDelta(t, tt.want.Carbs, got.Carbs, 1e-9)
		})
	}
}

func TestRound(t *testing.T) {
	got := Nutrition{Calories: 174.5, Protein: 26.4, Fat: 0.5, Carbs: 4.49}.Round()
	assert.Equal(t, Nutrition{Calories: 175, Protein: 26, Fat: 1, Carbs: 4}, got)
}

func TestMacroTargets(t *testing.T) {
	got := MacroTargets(2000, 30, 30, 40)
	assert.InDelta(t, 150, got.Protein, 1e-9)
	assert.InDelta(t, 66.666, got.Fat, 1e-3)
	assert.InDelta(t, 200, got.Carbs, 1e-9)
}

func TestProgressAndRemaining(t *testing.T) {
	assert.Equal(t, 50.0, Progress(75, 150))
	assert.Equal(t, 100.0, Progress(300, 150))
	assert.Equal(t, 0.0, Progress(10, 0))

	assert.Equal(t, 500.0, Remaining(2000, 1500))
	assert.Equal(t, 0.0, Remaining(2000, 2400))
}

func TestSplit(t *testing.T) {
	p, f, c := Split(Nutrition{Protein: 25, Fat: 0, Carbs: 75})
	assert.InDelta(t, 25, p, 1e-9)
	assert.InDelta(t, 0, f, 1e-9)
	assert.InDelta(t, 75, c, 1e-9)

	p, f, c = Split(Nutrition{})
	assert.Zero(t, p+f+c)
}
