package courier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tokri/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steadfastConfig(urls ...string) models.SteadfastConfig {
	return models.SteadfastConfig{
		BaseURLs:  urls,
		APIKey:    "api-key",
		SecretKey: "secret-key",
	}
}

func TestSteadfastCreateShipment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create_order", r.URL.Path)
		assert.Equal(t, "api-key", r.Header.Get("Api-Key"))
		assert.Equal(t, "secret-key", r.Header.Get("Secret-Key"))

		json.NewEncoder(w).Encode(map[string]any{
			"consignment": map[string]any{
				"consignment_id": 987654.0,
				"tracking_code":  "TRK987",
				"status":         "in_review",
				"cod_amount":     1500.0,
			},
		})
	}))
	defer srv.Close()

	s := NewSteadfast(steadfastConfig(srv.URL))
	result, err := s.CreateShipment(context.Background(), ShipmentRequest{
		Invoice:          "o555",
		RecipientName:    "Salma",
		RecipientPhone:   "01912345678",
		RecipientAddress: "Agrabad, Chattogram",
		CODAmount:        1500,
	})
	require.NoError(t, err)

	assert.Equal(t, "987654", result.ProviderShipmentID)
	assert.Equal(t, "in_review", result.Status)
	assert.Equal(t, 1500.0, result.Rate)
	assert.Equal(t, "https://steadfast.com.bd/t/TRK987", result.TrackingURL)
}

func TestSteadfastBaseURLFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"consignment_id": "111",
			"status":         "pending",
		})
	}))
	defer srv.Close()

	// First base URL points at a dead port; the request falls through to the
	// live one.
	s := NewSteadfast(steadfastConfig("http://127.0.0.1:1", srv.URL))
	result, err := s.CreateShipment(context.Background(), ShipmentRequest{
		Invoice:          "o1",
		RecipientName:    "A",
		RecipientPhone:   "01712345678",
		RecipientAddress: "X",
	})
	require.NoError(t, err)
	assert.Equal(t, "111", result.ProviderShipmentID)
}

func TestSteadfastAllBaseURLsDown(t *testing.T) {
	s := NewSteadfast(steadfastConfig("http://127.0.0.1:1", "http://127.0.0.1:2"))
	_, err := s.CreateShipment(context.Background(), ShipmentRequest{
		Invoice:          "o1",
		RecipientName:    "A",
		RecipientPhone:   "01712345678",
		RecipientAddress: "X",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all base urls failed")
}

func TestSteadfastApplicationErrorDoesNotFallBack(t *testing.T) {
	firstCalls, secondCalls := 0, 0
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		firstCalls++
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"message": "invalid payload"})
	}))
	defer first.Close()
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondCalls++
	}))
	defer second.Close()

	s := NewSteadfast(steadfastConfig(first.URL, second.URL))
	_, err := s.CreateShipment(context.Background(), ShipmentRequest{
		Invoice:          "o1",
		RecipientName:    "A",
		RecipientPhone:   "01712345678",
		RecipientAddress: "X",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid payload")
	assert.Equal(t, 1, firstCalls)
	assert.Equal(t, 0, secondCalls, "an application-level rejection must not be retried elsewhere")
}

func TestNormalizeSteadfastShapes(t *testing.T) {
	t.Run("nested under consignment", func(t *testing.T) {
		result := normalizeSteadfast(map[string]any{
			"consignment": map[string]any{"consignment_id": "c1", "status": "pending"},
		})
		assert.Equal(t, "c1", result.ProviderShipmentID)
		assert.Equal(t, "pending", result.Status)
	})

	t.Run("nested under delivery", func(t *testing.T) {
		result := normalizeSteadfast(map[string]any{
			"delivery": map[string]any{"id": 42.0},
		})
		assert.Equal(t, "42", result.ProviderShipmentID)
		assert.Equal(t, "in_review", result.Status)
	})

	t.Run("flat", func(t *testing.T) {
		result := normalizeSteadfast(map[string]any{
			"consignment_id": "flat1",
			"tracking_code":  "TRKF",
		})
		assert.Equal(t, "flat1", result.ProviderShipmentID)
		assert.Equal(t, "https://steadfast.com.bd/t/TRKF", result.TrackingURL)
	})

	t.Run("missing id", func(t *testing.T) {
		result := normalizeSteadfast(map[string]any{"status": "whatever"})
		assert.Empty(t, result.ProviderShipmentID)
	})
}

func TestSteadfastCreateBulkShipments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create_order/bulk-order", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []any{
				map[string]any{"consignment_id": "b1", "status": "pending"},
				map[string]any{"message": "duplicate invoice"},
			},
		})
	}))
	defer srv.Close()

	s := NewSteadfast(steadfastConfig(srv.URL))
	results, err := s.CreateBulkShipments(context.Background(), []ShipmentRequest{
		{Invoice: "o1", RecipientName: "A", RecipientPhone: "01712345678", RecipientAddress: "X"},
		{Invoice: "o2", RecipientName: "B", RecipientPhone: "01812345678", RecipientAddress: "Y"},
		{Invoice: "o3", RecipientName: "C", RecipientPhone: "01912345678", RecipientAddress: "Z"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "b1", results[0].Result.ProviderShipmentID)
	assert.Empty(t, results[0].Err)

	assert.Empty(t, results[1].Result.ProviderShipmentID)
	assert.Contains(t, results[1].Err, "duplicate invoice")

	assert.Equal(t, "no result returned for this order", results[2].Err)
}

func TestSteadfastGetStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/status_by_cid/987":
			json.NewEncoder(w).Encode(map[string]any{"delivery_status": "delivered"})
		case "/status_by_invoice/o42":
			json.NewEncoder(w).Encode(map[string]any{"status": "cancelled"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	s := NewSteadfast(steadfastConfig(srv.URL))

	byCID, err := s.GetStatus(context.Background(), "987", "cid")
	require.NoError(t, err)
	assert.Equal(t, "delivered", byCID.Status)

	byInvoice, err := s.GetStatus(context.Background(), "o42", "invoice")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", byInvoice.Status)
}

func TestSteadfastMissingCredentials(t *testing.T) {
	s := NewSteadfast(models.SteadfastConfig{BaseURLs: []string{"http://example.test"}})
	_, err := s.CreateShipment(context.Background(), ShipmentRequest{Invoice: "o1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials missing")
}
