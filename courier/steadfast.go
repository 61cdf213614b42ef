package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tokri/models"
)

// Steadfast authenticates with a static key pair. The provider runs under
// more than one hostname, so requests walk an ordered list of base URLs and
// fall through to the next one only when the request itself fails.
type Steadfast struct {
	cfg   models.SteadfastConfig
	httpc *http.Client
}

func NewSteadfast(cfg models.SteadfastConfig) *Steadfast {
	return &Steadfast{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Steadfast) do(ctx context.Context, method, path string, payload any) (int, map[string]any, error) {
	if s.cfg.APIKey == "" || s.cfg.SecretKey == "" {
		return 0, nil, fmt.Errorf("steadfast: credentials missing")
	}

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
	}

	var lastErr error
	for _, base := range s.cfg.BaseURLs {
		req, err := http.NewRequestWithContext(ctx, method, base+path, bytes.NewReader(body))
		if err != nil {
			lastErr = err
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Api-Key", s.cfg.APIKey)
		req.Header.Set("Secret-Key", s.cfg.SecretKey)

		resp, err := s.httpc.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		var decoded map[string]any
		_ = json.Unmarshal(raw, &decoded)
		return resp.StatusCode, decoded, nil
	}

	return 0, nil, fmt.Errorf("steadfast: all base urls failed: %w", lastErr)
}

// Quote returns a simulated flat rate; the provider publishes no rate API.
func (s *Steadfast) Quote(ctx context.Context, info models.ShippingInfo) (QuoteResult, error) {
	return QuoteResult{Provider: string(KindSteadfast), Currency: "BDT", Amount: 100}, nil
}

func (s *Steadfast) CreateShipment(ctx context.Context, req ShipmentRequest) (ShipmentResult, error) {
	payload := map[string]any{
		"invoice":           req.Invoice,
		"recipient_name":    req.RecipientName,
		"recipient_phone":   req.RecipientPhone,
		"recipient_address": req.RecipientAddress,
		"cod_amount":        req.CODAmount,
		"note":              req.Note,
	}

	code, decoded, err := s.do(ctx, http.MethodPost, "/create_order", payload)
	if err != nil {
		return ShipmentResult{}, err
	}
	if code < 200 || code >= 300 {
		return ShipmentResult{}, fmt.Errorf("steadfast: %s", flattenErrors(decoded))
	}

	result := normalizeSteadfast(decoded)
	if result.ProviderShipmentID == "" {
		return ShipmentResult{}, fmt.Errorf("steadfast: response missing consignment id")
	}
	return result, nil
}

// normalizeSteadfast folds the provider's inconsistent response shapes —
// nested under "consignment", nested under "delivery", or flat — into one
// result.
func normalizeSteadfast(decoded map[string]any) ShipmentResult {
	body := decoded
	if nested, ok := decoded["consignment"].(map[string]any); ok {
		body = nested
	} else if nested, ok := decoded["delivery"].(map[string]any); ok {
		body = nested
	}

	id := stringField(body, "consignment_id")
	if id == "" {
		id = stringField(body, "id")
	}
	tracking := stringField(body, "tracking_code")
	status := stringField(body, "status")
	if status == "" {
		status = "in_review"
	}

	result := ShipmentResult{
		ProviderShipmentID: id,
		Status:             status,
		Currency:           "BDT",
		Metadata:           decoded,
	}
	if cod, ok := body["cod_amount"].(float64); ok {
		result.Rate = cod
	}
	if tracking != "" {
		result.TrackingURL = "https://steadfast.com.bd/t/" + tracking
	}
	return result
}

// stringField reads a value that the provider sometimes sends as a string
// and sometimes as a number.
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}

func (s *Steadfast) CreateBulkShipments(ctx context.Context, reqs []ShipmentRequest) ([]BulkItemResult, error) {
	data := make([]map[string]any, 0, len(reqs))
	for _, r := range reqs {
		data = append(data, map[string]any{
			"invoice":           r.Invoice,
			"recipient_name":    r.RecipientName,
			"recipient_phone":   r.RecipientPhone,
			"recipient_address": r.RecipientAddress,
			"cod_amount":        r.CODAmount,
			"note":              r.Note,
		})
	}

	code, decoded, err := s.do(ctx, http.MethodPost, "/create_order/bulk-order", map[string]any{"data": data})
	if err != nil {
		return nil, err
	}
	if code < 200 || code >= 300 {
		return nil, fmt.Errorf("steadfast: %s", flattenErrors(decoded))
	}

	results := make([]BulkItemResult, 0, len(reqs))
	items, _ := decoded["data"].([]any)
	for i, r := range reqs {
		item := BulkItemResult{Invoice: r.Invoice}
		if i < len(items) {
			if m, ok := items[i].(map[string]any); ok {
				item.Result = normalizeSteadfast(m)
				if item.Result.ProviderShipmentID == "" {
					item.Err = flattenErrors(m)
				}
			}
		} else {
			item.Err = "no result returned for this order"
		}
		results = append(results, item)
	}
	return results, nil
}

func (s *Steadfast) GetStatus(ctx context.Context, ident, identType string) (StatusResult, error) {
	path := "/status_by_cid/" + ident
	if identType == "invoice" {
		path = "/status_by_invoice/" + ident
	}

	code, decoded, err := s.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return StatusResult{}, err
	}
	if code < 200 || code >= 300 {
		return StatusResult{}, fmt.Errorf("steadfast: %s", flattenErrors(decoded))
	}

	status := stringField(decoded, "delivery_status")
	if status == "" {
		status = stringField(decoded, "status")
	}
	return StatusResult{Provider: string(KindSteadfast), Status: status, Raw: decoded}, nil
}
