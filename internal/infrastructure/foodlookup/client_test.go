package foodlookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nutritrack/internal/infrastructure/config"
	"nutritrack/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v0/product/3017620422003.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": 1,
			"code": "3017620422003",
			"product": {
				"product_name": "Nutella",
				"brands": "Ferrero",
				"nutriments": {
					"energy-kcal_100g": 539,
					"proteins_100g": 6.3,
					"fat_100g": 30.9,
					"carbohydrates_100g": 57.5
				}
			}
		}`))
	})
	mux.HandleFunc("/api/v0/product/00000000.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": 0, "status_verbose": "product not found"}`))
	})
	mux.HandleFunc("/api/v0/product/11111111.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/api/v0/product/22222222.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLookup(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(config.FoodLookupConfig{Enabled: true, BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		p, err := client.Lookup(ctx, "3017620422003")
		require.NoError(t, err)
		assert.Equal(t, "Nutella", p.Name)
		assert.Equal(t, "Ferrero", p.Brand)
		assert.Equal(t, 539.0, p.Calories)
		assert.Equal(t, 6.3, p.Protein)
		assert.Equal(t, 30.9, p.Fat)
		assert.Equal(t, 57.5, p.Carbs)
		assert.Equal(t, "100g", p.Serving)
	})

	tests := []struct {
		name    string
		barcode string
		wantErr error
	}{
		{"status zero", "00000000", common.ErrFoodNotFound},
		{"unknown path", "99999999", common.ErrFoodNotFound},
		{"upstream error", "11111111", common.ErrLookupFailed},
		{"bad body", "22222222", common.ErrLookupFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Lookup(ctx, tt.barcode)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("invalid barcode", func(t *testing.T) {
		for _, code := range []string{"", "123", "abcdefgh", "123456789012345"} {
			_, err := client.Lookup(ctx, code)
			assert.True(t, common.IsValidationError(err), code)
		}
	})
}

func TestLookupUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(config.FoodLookupConfig{BaseURL: url, Timeout: time.Second})
	_, err := client.Lookup(context.Background(), "3017620422003")
	assert.ErrorIs(t, err, common.ErrLookupFailed)
}
