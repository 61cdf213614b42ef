package pay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tokri/models"
)

// ValidationResult is the gateway's server-side answer for a transaction.
type ValidationResult struct {
	Status   string  `json:"status"`
	TranID   string  `json:"tran_id"`
	ValID    string  `json:"val_id"`
	Amount   float64 `json:"amount,string"`
	Currency string  `json:"currency"`
}

// Client talks to the hosted payment gateway: session initiation for the
// redirect flow and server-side transaction validation.
type Client struct {
	cfg   models.SSLCommerzConfig
	httpc *http.Client
}

func NewClient(cfg models.SSLCommerzConfig) *Client {
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateSession registers the order with the gateway and returns the hosted
// payment page URL the customer is redirected to. The order id doubles as
// the gateway transaction id.
func (c *Client) CreateSession(ctx context.Context, order models.Order, currency, callbackBase string) (string, error) {
	if c.cfg.StoreID == "" || c.cfg.StorePass == "" {
		return "", fmt.Errorf("sslcommerz: credentials missing")
	}

	form := url.Values{}
	form.Set("store_id", c.cfg.StoreID)
	form.Set("store_passwd", c.cfg.StorePass)
	form.Set("total_amount", fmt.Sprintf("%.2f", order.TotalPrice))
	form.Set("currency", currency)
	form.Set("tran_id", order.OrderID)
	form.Set("success_url", callbackBase+"/api/orders/ssl-success")
	form.Set("fail_url", callbackBase+"/api/orders/ssl-fail")
	form.Set("cancel_url", callbackBase+"/api/orders/ssl-cancel")
	form.Set("ipn_url", callbackBase+"/api/orders/ssl-ipn")
	form.Set("cus_name", order.ShippingInfo.Name)
	form.Set("cus_phone", order.ShippingInfo.Phone)
	form.Set("cus_add1", order.ShippingInfo.Address)
	form.Set("cus_city", order.ShippingInfo.City)
	form.Set("shipping_method", "Courier")
	form.Set("product_name", "Order "+order.OrderID)
	form.Set("product_category", "General")
	form.Set("product_profile", "general")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/gwprocess/v4/api.php", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("sslcommerz: session request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var decoded struct {
		Status         string `json:"status"`
		FailedReason   string `json:"failedreason"`
		GatewayPageURL string `json:"GatewayPageURL"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("sslcommerz: malformed session response")
	}

	if decoded.Status != "SUCCESS" || decoded.GatewayPageURL == "" {
		reason := decoded.FailedReason
		if reason == "" {
			reason = "session rejected"
		}
		return "", fmt.Errorf("sslcommerz: %s", reason)
	}
	return decoded.GatewayPageURL, nil
}

// ValidateTransaction asks the gateway whether a transaction really was
// paid. The success redirect is never trusted on its own.
func (c *Client) ValidateTransaction(ctx context.Context, valID string) (ValidationResult, error) {
	if c.cfg.StoreID == "" || c.cfg.StorePass == "" {
		return ValidationResult{}, fmt.Errorf("sslcommerz: credentials missing")
	}

	q := url.Values{}
	q.Set("val_id", valID)
	q.Set("store_id", c.cfg.StoreID)
	q.Set("store_passwd", c.cfg.StorePass)
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+"/validator/api/validationserverAPI.php?"+q.Encode(), nil)
	if err != nil {
		return ValidationResult{}, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("sslcommerz: validation request failed: %w", err)
	}
	defer resp.Body.Close()

	var result ValidationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ValidationResult{}, fmt.Errorf("sslcommerz: malformed validation response")
	}
	return result, nil
}

// IsPaid reports whether a gateway status string means the money is in.
func IsPaid(status string) bool {
	return status == "VALID" || status == "VALIDATED"
}

// MapIPNStatus translates a gateway IPN status into the order status it
// should produce. ok is false for statuses that must leave the order
// untouched.
func MapIPNStatus(status string) (string, bool) {
	switch status {
	case "VALID", "VALIDATED":
		return models.StatusPaid, true
	case "FAILED", "CANCELLED":
		return models.StatusPaymentFailed, true
	default:
		return "", false
	}
}
