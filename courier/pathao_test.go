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

func pathaoTestServer(t *testing.T, tokenCalls *int, expiresIn float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/aladdin/api/v1/issue-token":
			*tokenCalls++
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "password", body["grant_type"])
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-abc",
				"expires_in":   expiresIn,
			})
		case "/aladdin/api/v1/orders":
			assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"consignment_id": "DL123456",
					"order_status":   "Pending",
					"delivery_fee":   120.0,
				},
			})
		case "/aladdin/api/v1/orders/bulk":
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]any{"message": "accepted"})
		case "/aladdin/api/v1/orders/DL123456/info":
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"order_status": "Delivered"},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
}

func pathaoTestConfig(baseURL string) models.PathaoConfig {
	return models.PathaoConfig{
		BaseURL:      baseURL,
		ClientID:     "cid",
		ClientSecret: "csecret",
		Username:     "merchant@example.com",
		Password:     "pw",
		StoreID:      42,
	}
}

func TestPathaoCreateShipment(t *testing.T) {
	tokenCalls := 0
	srv := pathaoTestServer(t, &tokenCalls, 3600)
	defer srv.Close()

	p := NewPathao(pathaoTestConfig(srv.URL))
	result, err := p.CreateShipment(context.Background(), ShipmentRequest{
		Invoice:          "o123",
		RecipientName:    "Rahim",
		RecipientPhone:   "01712345678",
		RecipientAddress: "House 1, Road 2, Dhanmondi",
		CODAmount:        1500,
		Quantity:         2,
	})
	require.NoError(t, err)

	assert.Equal(t, "DL123456", result.ProviderShipmentID)
	assert.Equal(t, "Pending", result.Status)
	assert.Equal(t, 120.0, result.Rate)
	assert.Equal(t, "BDT", result.Currency)
	assert.Contains(t, result.TrackingURL, "DL123456")
	assert.False(t, result.Async)
}

func TestPathaoTokenCaching(t *testing.T) {
	tokenCalls := 0
	srv := pathaoTestServer(t, &tokenCalls, 3600)
	defer srv.Close()

	p := NewPathao(pathaoTestConfig(srv.URL))
	req := ShipmentRequest{
		Invoice:          "o1",
		RecipientName:    "Karim",
		RecipientPhone:   "01812345678",
		RecipientAddress: "Mirpur 10",
		CODAmount:        500,
	}

	_, err := p.CreateShipment(context.Background(), req)
	require.NoError(t, err)
	_, err = p.CreateShipment(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, tokenCalls, "second request must reuse the cached token")
}

func TestPathaoTokenRefetchNearExpiry(t *testing.T) {
	// expires_in below the safety margin leaves the cached token already
	// stale, so every call fetches a fresh one.
	tokenCalls := 0
	srv := pathaoTestServer(t, &tokenCalls, 30)
	defer srv.Close()

	p := NewPathao(pathaoTestConfig(srv.URL))
	req := ShipmentRequest{
		Invoice:          "o1",
		RecipientName:    "Karim",
		RecipientPhone:   "01812345678",
		RecipientAddress: "Mirpur 10",
		CODAmount:        500,
	}

	_, err := p.CreateShipment(context.Background(), req)
	require.NoError(t, err)
	_, err = p.CreateShipment(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, tokenCalls)
}

func TestPathaoCreateBulkShipments(t *testing.T) {
	tokenCalls := 0
	srv := pathaoTestServer(t, &tokenCalls, 3600)
	defer srv.Close()

	p := NewPathao(pathaoTestConfig(srv.URL))
	results, err := p.CreateBulkShipments(context.Background(), []ShipmentRequest{
		{Invoice: "o1", RecipientName: "A", RecipientPhone: "01712345678", RecipientAddress: "X", CODAmount: 100},
		{Invoice: "o2", RecipientName: "B", RecipientPhone: "01812345678", RecipientAddress: "Y", CODAmount: 200},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for i, invoice := range []string{"o1", "o2"} {
		assert.Equal(t, invoice, results[i].Invoice)
		assert.True(t, results[i].Result.Async)
		assert.Equal(t, "processing", results[i].Result.Status)
		assert.Empty(t, results[i].Result.ProviderShipmentID)
	}
}

func TestPathaoNumericConsignmentID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/aladdin/api/v1/issue-token" {
			json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600.0})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"consignment_id": 123456,
				"order_status":   "Pending",
			},
		})
	}))
	defer srv.Close()

	p := NewPathao(pathaoTestConfig(srv.URL))
	result, err := p.CreateShipment(context.Background(), ShipmentRequest{
		Invoice:          "o1",
		RecipientName:    "A",
		RecipientPhone:   "01712345678",
		RecipientAddress: "X",
	})
	require.NoError(t, err)
	assert.Equal(t, "123456", result.ProviderShipmentID)
}

func TestPathaoMissingConsignmentID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/aladdin/api/v1/issue-token" {
			json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600.0})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"order_status": "Pending"},
		})
	}))
	defer srv.Close()

	p := NewPathao(pathaoTestConfig(srv.URL))
	_, err := p.CreateShipment(context.Background(), ShipmentRequest{
		Invoice:          "o1",
		RecipientName:    "A",
		RecipientPhone:   "01712345678",
		RecipientAddress: "X",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing consignment id")
}

func TestPathaoGetStatus(t *testing.T) {
	tokenCalls := 0
	srv := pathaoTestServer(t, &tokenCalls, 3600)
	defer srv.Close()

	p := NewPathao(pathaoTestConfig(srv.URL))
	status, err := p.GetStatus(context.Background(), "DL123456", "cid")
	require.NoError(t, err)
	assert.Equal(t, "pathao", status.Provider)
	assert.Equal(t, "Delivered", status.Status)
}

func TestPathaoMissingCredentials(t *testing.T) {
	p := NewPathao(models.PathaoConfig{BaseURL: "http://example.test"})
	_, err := p.CreateShipment(context.Background(), ShipmentRequest{Invoice: "o1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials missing")
}

func TestPathaoRejectedShipment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/aladdin/api/v1/issue-token" {
			json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600.0})
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "validation failed",
			"errors":  map[string]any{"recipient_phone": []any{"must be 11 digits"}},
		})
	}))
	defer srv.Close()

	p := NewPathao(pathaoTestConfig(srv.URL))
	_, err := p.CreateShipment(context.Background(), ShipmentRequest{
		Invoice:          "o1",
		RecipientName:    "A",
		RecipientPhone:   "123",
		RecipientAddress: "X",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recipient_phone: must be 11 digits")
}
