package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"tokri/models"
)

const pathaoTokenMargin = 60 * time.Second

// Pathao exchanges long-lived credentials for a short-lived bearer token and
// caches it in memory until shortly before expiry.
type Pathao struct {
	cfg   models.PathaoConfig
	httpc *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewPathao(cfg models.PathaoConfig) *Pathao {
	return &Pathao{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *Pathao) ensureToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.tokenExpiry) {
		return p.token, nil
	}

	if p.cfg.ClientID == "" || p.cfg.ClientSecret == "" {
		return "", fmt.Errorf("pathao: credentials missing")
	}

	payload := map[string]any{
		"client_id":     p.cfg.ClientID,
		"client_secret": p.cfg.ClientSecret,
		"username":      p.cfg.Username,
		"password":      p.cfg.Password,
		"grant_type":    "password",
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/aladdin/api/v1/issue-token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("pathao: token request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pathao: token request failed: %s", flattenErrors(decoded))
	}

	token, _ := decoded["access_token"].(string)
	if token == "" {
		return "", fmt.Errorf("pathao: token response missing access_token")
	}
	expiresIn, _ := decoded["expires_in"].(float64)
	if expiresIn <= 0 {
		expiresIn = 3600
	}

	p.token = token
	p.tokenExpiry = time.Now().Add(time.Duration(expiresIn)*time.Second - pathaoTokenMargin)
	return p.token, nil
}

func (p *Pathao) post(ctx context.Context, path string, payload any) (int, map[string]any, error) {
	token, err := p.ensureToken(ctx)
	if err != nil {
		return 0, nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("pathao: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)
	return resp.StatusCode, decoded, nil
}

// Quote returns a simulated flat rate; the provider has no public rate
// lookup for merchant accounts.
func (p *Pathao) Quote(ctx context.Context, info models.ShippingInfo) (QuoteResult, error) {
	return QuoteResult{Provider: string(KindPathao), Currency: "BDT", Amount: 120}, nil
}

func (p *Pathao) CreateShipment(ctx context.Context, req ShipmentRequest) (ShipmentResult, error) {
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	payload := map[string]any{
		"store_id":            p.cfg.StoreID,
		"merchant_order_id":   req.Invoice,
		"recipient_name":      req.RecipientName,
		"recipient_phone":     req.RecipientPhone,
		"recipient_address":   req.RecipientAddress,
		"recipient_city":      req.RecipientCity,
		"delivery_type":       48,
		"item_type":           2,
		"item_quantity":       quantity,
		"item_weight":         "0.5",
		"amount_to_collect":   req.CODAmount,
		"special_instruction": req.Note,
	}

	code, decoded, err := p.post(ctx, "/aladdin/api/v1/orders", payload)
	if err != nil {
		return ShipmentResult{}, err
	}
	if code < 200 || code >= 300 {
		return ShipmentResult{}, fmt.Errorf("pathao: %s", flattenErrors(decoded))
	}

	data, _ := decoded["data"].(map[string]any)
	consignmentID := stringField(data, "consignment_id")
	if consignmentID == "" {
		return ShipmentResult{}, fmt.Errorf("pathao: response missing consignment id")
	}
	status, _ := data["order_status"].(string)
	if status == "" {
		status = "Pending"
	}
	fee, _ := data["delivery_fee"].(float64)

	return ShipmentResult{
		ProviderShipmentID: consignmentID,
		Status:             status,
		Rate:               fee,
		Currency:           "BDT",
		TrackingURL:        "https://merchant.pathao.com/tracking?consignment_id=" + consignmentID,
		Metadata:           decoded,
	}, nil
}

// CreateBulkShipments submits the batch and returns processing placeholders;
// the provider accepts bulk orders asynchronously and assigns consignment
// ids later.
func (p *Pathao) CreateBulkShipments(ctx context.Context, reqs []ShipmentRequest) ([]BulkItemResult, error) {
	orders := make([]map[string]any, 0, len(reqs))
	for _, r := range reqs {
		quantity := r.Quantity
		if quantity < 1 {
			quantity = 1
		}
		orders = append(orders, map[string]any{
			"store_id":          p.cfg.StoreID,
			"merchant_order_id": r.Invoice,
			"recipient_name":    r.RecipientName,
			"recipient_phone":   r.RecipientPhone,
			"recipient_address": r.RecipientAddress,
			"recipient_city":    r.RecipientCity,
			"delivery_type":     48,
			"item_type":         2,
			"item_quantity":     quantity,
			"item_weight":       "0.5",
			"amount_to_collect": r.CODAmount,
		})
	}

	code, decoded, err := p.post(ctx, "/aladdin/api/v1/orders/bulk", map[string]any{"orders": orders})
	if err != nil {
		return nil, err
	}
	if code < 200 || code >= 300 {
		return nil, fmt.Errorf("pathao: %s", flattenErrors(decoded))
	}

	results := make([]BulkItemResult, 0, len(reqs))
	for _, r := range reqs {
		results = append(results, BulkItemResult{
			Invoice: r.Invoice,
			Result: ShipmentResult{
				Status:   "processing",
				Currency: "BDT",
				Async:    true,
				Metadata: decoded,
			},
		})
	}
	return results, nil
}

func (p *Pathao) GetStatus(ctx context.Context, ident, identType string) (StatusResult, error) {
	token, err := p.ensureToken(ctx)
	if err != nil {
		return StatusResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.cfg.BaseURL+"/aladdin/api/v1/orders/"+ident+"/info", nil)
	if err != nil {
		return StatusResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpc.Do(req)
	if err != nil {
		return StatusResult{}, fmt.Errorf("pathao: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)

	if resp.StatusCode != http.StatusOK {
		return StatusResult{}, fmt.Errorf("pathao: %s", flattenErrors(decoded))
	}

	data, _ := decoded["data"].(map[string]any)
	status, _ := data["order_status"].(string)
	return StatusResult{Provider: string(KindPathao), Status: status, Raw: decoded}, nil
}
