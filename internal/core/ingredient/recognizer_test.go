package ingredient

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecognizer(t *testing.T) *Recognizer {
	t.Helper()
	tax, err := DefaultTaxonomy()
	require.NoError(t, err)
	return NewRecognizer(tax)
}

func keys(items []RecognizedIngredient) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "  ,  , ", []string{}},
		{"trims and lowercases", " Chicken Breast ,BROCCOLI", []string{"chicken breast", "broccoli"}},
		{"keeps order", "rice,egg,rice", []string{"rice", "egg", "rice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestRecognize(t *testing.T) {
	r := newTestRecognizer(t)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"scenario", "chicken, broccoli, rice", []string{"chicken", "broccoli", "rice"}},
		{"empty input", "", []string{}},
		{"no alias", "xyz123", []string{}},
		{"compound phrase", "grilled chicken breast", []string{"chicken"}},
		{"plural", "carrots, tomatoes", []string{"carrot", "tomato"}},
		{"partial token inside alias", "broc", []string{"broccoli"}},
		{"eggplant is read as eggs", "eggplant", []string{"eggs"}},
		{"specific oils", "sesame oil, canola oil", []string{"sesame_oil", "vegetable_oil"}},
		{"black pepper is a seasoning", "black pepper", []string{"black_pepper"}},
		{"unknown tokens skipped", "chicken, qqq, rice", []string{"chicken", "rice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keys(r.Recognize(tt.input)))
		})
	}
}

func TestRecognizeDeduplicatesByKey(t *testing.T) {
	r := newTestRecognizer(t)

	got := r.Recognize("Salmon, tuna, broccoli")
	require.Len(t, got, 2)
	assert.Equal(t, RecognizedIngredient{
		Key:          "fish",
		Category:     CategoryProteins,
		DisplayName:  "salmon",
		StandardName: "fish",
	}, got[0])
	assert.Equal(t, "broccoli", got[1].Key)
}

func TestRecognizeDeterministic(t *testing.T) {
	r := newTestRecognizer(t)
	input := "tofu, spinach, quinoa, feta, olive oil, garlic, egg"

	first := r.Recognize(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Recognize(input))
	}
}

func TestLoadTaxonomyValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown category", `[{"category":"sweets","ingredients":[{"key":"sugar","aliases":["sugar"]}]}]`},
		{"empty aliases", `[{"category":"proteins","ingredients":[{"key":"beef","aliases":[]}]}]`},
		{"uppercase alias", `[{"category":"proteins","ingredients":[{"key":"beef","aliases":["Beef"]}]}]`},
		{"duplicate key", `[{"category":"proteins","ingredients":[{"key":"beef","aliases":["beef"]}]},
			{"category":"dairy","ingredients":[{"key":"beef","aliases":["milk"]}]}]`},
		{"unknown field", `[{"category":"proteins","extra":1,"ingredients":[]}]`},
		{"no ingredients", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTaxonomy(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestTaxonomyScanOrderFollowsCategories(t *testing.T) {
	doc := `[
		{"category":"dairy","ingredients":[{"key":"milk","aliases":["milk"]}]},
		{"category":"proteins","ingredients":[{"key":"beef","aliases":["beef"]}]}
	]`
	tax, err := LoadTaxonomy(strings.NewReader(doc))
	require.NoError(t, err)

	entries := tax.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "beef", entries[0].Key)
	assert.Equal(t, "milk", entries[1].Key)

	e, ok := tax.Lookup("milk")
	require.True(t, ok)
	assert.Equal(t, CategoryDairy, e.Category)
	_, ok = tax.Lookup("missing")
	assert.False(t, ok)
}

func TestDefaultTaxonomyCoversEveryCategory(t *testing.T) {
	tax, err := DefaultTaxonomy()
	require.NoError(t, err)

	seen := map[Category]bool{}
	for _, e := range tax.Entries() {
		seen[e.Category] = true
	}
	for _, c := range Categories {
		assert.True(t, seen[c], "category %s has no entries", c)
	}
}
