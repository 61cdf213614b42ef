package courier

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"tokri/models"
)

var ErrUnknownProvider = errors.New("unknown courier provider")

// Kind is the closed set of supported providers.
type Kind string

const (
	KindPathao    Kind = "pathao"
	KindSteadfast Kind = "steadfast"
)

// ShipmentRequest is the provider-neutral creation payload.
type ShipmentRequest struct {
	Invoice          string  `json:"invoice"`
	RecipientName    string  `json:"recipient_name"`
	RecipientPhone   string  `json:"recipient_phone"`
	RecipientAddress string  `json:"recipient_address"`
	RecipientCity    string  `json:"recipient_city,omitempty"`
	CODAmount        float64 `json:"cod_amount"`
	Note             string  `json:"note,omitempty"`
	Quantity         int     `json:"quantity,omitempty"`
}

type QuoteResult struct {
	Provider string  `json:"provider"`
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

type ShipmentResult struct {
	ProviderShipmentID string         `json:"provider_shipment_id"`
	Status             string         `json:"status"`
	Rate               float64        `json:"rate"`
	Currency           string         `json:"currency"`
	TrackingURL        string         `json:"tracking_url,omitempty"`
	// Async is set when the provider only acknowledged the submission and
	// will assign identifiers later.
	Async    bool           `json:"async,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type BulkItemResult struct {
	Invoice string         `json:"invoice"`
	Result  ShipmentResult `json:"result"`
	Err     string         `json:"error,omitempty"`
}

type StatusResult struct {
	Provider string         `json:"provider"`
	Status   string         `json:"status"`
	Raw      map[string]any `json:"raw,omitempty"`
}

// Courier is the capability set every provider adapter implements.
type Courier interface {
	Quote(ctx context.Context, info models.ShippingInfo) (QuoteResult, error)
	CreateShipment(ctx context.Context, req ShipmentRequest) (ShipmentResult, error)
	CreateBulkShipments(ctx context.Context, reqs []ShipmentRequest) ([]BulkItemResult, error)
	GetStatus(ctx context.Context, ident, identType string) (StatusResult, error)
}

// New dispatches exhaustively over the closed provider set.
func New(name string, cfg models.CourierConfig) (Courier, error) {
	switch Kind(name) {
	case KindPathao:
		if cfg.Pathao == nil {
			return nil, fmt.Errorf("pathao: credentials missing")
		}
		return NewPathao(*cfg.Pathao), nil
	case KindSteadfast:
		if cfg.Steadfast == nil {
			return nil, fmt.Errorf("steadfast: credentials missing")
		}
		return NewSteadfast(*cfg.Steadfast), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

// flattenErrors folds a provider's nested validation errors
// ({"errors": {"field": ["msg", ...]}}) plus its top-level message into a
// single combined string.
func flattenErrors(body map[string]any) string {
	var parts []string
	if msg, ok := body["message"].(string); ok && msg != "" {
		parts = append(parts, msg)
	}
	if errs, ok := body["errors"].(map[string]any); ok {
		fields := make([]string, 0, len(errs))
		for f := range errs {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			switch v := errs[f].(type) {
			case []any:
				for _, m := range v {
					if s, ok := m.(string); ok {
						parts = append(parts, f+": "+s)
					}
				}
			case string:
				parts = append(parts, f+": "+v)
			}
		}
	}
	if len(parts) == 0 {
		return "provider request failed"
	}
	return strings.Join(parts, "; ")
}
