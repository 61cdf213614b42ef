package pay

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

func gatewayConfig(baseURL string) models.SSLCommerzConfig {
	return models.SSLCommerzConfig{
		BaseURL:   baseURL,
		StoreID:   "teststore",
		StorePass: "testpass",
		Sandbox:   true,
	}
}

func testOrder() models.Order {
	return models.Order{
		OrderID:    "o123456789012",
		TotalPrice: 2500.50,
		ShippingInfo: models.ShippingInfo{
			Name:    "Rahim Uddin",
			Phone:   "01712345678",
			Address: "House 1, Road 2",
			City:    "Dhaka",
		},
	}
}

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gwprocess/v4/api.php", r.URL.Path)
		require.NoError(t, r.ParseForm())

		assert.Equal(t, "teststore", r.FormValue("store_id"))
		assert.Equal(t, "o123456789012", r.FormValue("tran_id"))
		assert.Equal(t, "2500.50", r.FormValue("total_amount"))
		assert.Equal(t, "BDT", r.FormValue("currency"))
		assert.Equal(t, "https://shop.example.com/api/orders/ssl-success", r.FormValue("success_url"))
		assert.Equal(t, "https://shop.example.com/api/orders/ssl-ipn", r.FormValue("ipn_url"))

		json.NewEncoder(w).Encode(map[string]any{
			"status":         "SUCCESS",
			"GatewayPageURL": "https://sandbox.sslcommerz.com/gw/pay?Q=abc",
		})
	}))
	defer srv.Close()

	c := NewClient(gatewayConfig(srv.URL))
	url, err := c.CreateSession(context.Background(), testOrder(), "BDT", "https://shop.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.sslcommerz.com/gw/pay?Q=abc", url)
}

func TestCreateSessionRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":       "FAILED",
			"failedreason": "store credential mismatch",
		})
	}))
	defer srv.Close()

	c := NewClient(gatewayConfig(srv.URL))
	_, err := c.CreateSession(context.Background(), testOrder(), "BDT", "https://shop.example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store credential mismatch")
}

func TestCreateSessionMissingCredentials(t *testing.T) {
	c := NewClient(models.SSLCommerzConfig{BaseURL: "http://example.test"})
	_, err := c.CreateSession(context.Background(), testOrder(), "BDT", "https://shop.example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials missing")
}

func TestValidateTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/validator/api/validationserverAPI.php", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "val-777", q.Get("val_id"))
		assert.Equal(t, "teststore", q.Get("store_id"))
		assert.Equal(t, "json", q.Get("format"))

		json.NewEncoder(w).Encode(map[string]any{
			"status":   "VALID",
			"tran_id":  "o123456789012",
			"val_id":   "val-777",
			"amount":   "2500.50",
			"currency": "BDT",
		})
	}))
	defer srv.Close()

	c := NewClient(gatewayConfig(srv.URL))
	result, err := c.ValidateTransaction(context.Background(), "val-777")
	require.NoError(t, err)

	assert.Equal(t, "VALID", result.Status)
	assert.Equal(t, "o123456789012", result.TranID)
	assert.Equal(t, 2500.50, result.Amount)
	assert.Equal(t, "BDT", result.Currency)
}

func TestIsPaid(t *testing.T) {
	assert.True(t, IsPaid("VALID"))
	assert.True(t, IsPaid("VALIDATED"))
	assert.False(t, IsPaid("FAILED"))
	assert.False(t, IsPaid("PENDING"))
	assert.False(t, IsPaid(""))
}

func TestMapIPNStatus(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"VALID", models.StatusPaid, true},
		{"VALIDATED", models.StatusPaid, true},
		{"FAILED", models.StatusPaymentFailed, true},
		{"CANCELLED", models.StatusPaymentFailed, true},
		{"UNATTEMPTED", "", false},
		{"EXPIRED", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := MapIPNStatus(tc.in)
		assert.Equal(t, tc.wantOK, ok, "status %q", tc.in)
		assert.Equal(t, tc.want, got, "status %q", tc.in)
	}
}
