package shipments

import (
	"testing"
	"time"

	"tokri/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseWebhookEvent(t *testing.T) {
	t.Run("numeric consignment id", func(t *testing.T) {
		evt := parseWebhookEvent(map[string]any{
			"consignment_id": float64(12345),
			"status":         "in_transit",
		})
		assert.Equal(t, "12345", evt.ConsignmentID)
		assert.Equal(t, "in_transit", evt.Status)
	})

	t.Run("delivery_status fallback", func(t *testing.T) {
		evt := parseWebhookEvent(map[string]any{
			"tracking_code":   "TRK99",
			"delivery_status": "delivered",
			"delivery_fee":    float64(120),
		})
		assert.Equal(t, "delivered", evt.Status)
		assert.Equal(t, "TRK99", evt.TrackingCode)
		assert.Equal(t, 120.0, evt.DeliveryFee)
	})

	t.Run("status wins over delivery_status", func(t *testing.T) {
		evt := parseWebhookEvent(map[string]any{
			"status":          "Pending",
			"delivery_status": "delivered",
		})
		assert.Equal(t, "Pending", evt.Status)
	})

	t.Run("raw payload kept", func(t *testing.T) {
		raw := map[string]any{"status": "delivered", "extra": "kept"}
		assert.Equal(t, raw, parseWebhookEvent(raw).Raw)
	})
}

func TestShipmentFilter(t *testing.T) {
	t.Run("consignment id", func(t *testing.T) {
		filter, err := shipmentFilter("pathao", webhookEvent{ConsignmentID: "DL123", Invoice: "o1"})
		require.NoError(t, err)
		assert.Equal(t, bson.M{"provider": "pathao", "provider_shipment_id": "DL123"}, filter)
	})

	t.Run("tracking code when no consignment id", func(t *testing.T) {
		filter, err := shipmentFilter("steadfast", webhookEvent{TrackingCode: "TRK99"})
		require.NoError(t, err)
		assert.Equal(t, bson.M{"provider": "steadfast", "provider_shipment_id": "TRK99"}, filter)
	})

	t.Run("invoice as last resort", func(t *testing.T) {
		filter, err := shipmentFilter("steadfast", webhookEvent{Invoice: "o1234567890"})
		require.NoError(t, err)
		assert.Equal(t, bson.M{"provider": "steadfast", "orderid": "o1234567890"}, filter)
	})

	t.Run("no identifier at all", func(t *testing.T) {
		_, err := shipmentFilter("pathao", webhookEvent{Status: "delivered"})
		assert.ErrorIs(t, err, errNoShipmentIdentifier)
	})
}

func TestIsReplay(t *testing.T) {
	shipment := models.Shipment{LastWebhookEventID: "evt-1"}

	assert.True(t, isReplay(shipment, webhookEvent{EventID: "evt-1"}))
	assert.False(t, isReplay(shipment, webhookEvent{EventID: "evt-2"}))
	// deliveries without an event id always go through
	assert.False(t, isReplay(shipment, webhookEvent{}))
	assert.False(t, isReplay(models.Shipment{}, webhookEvent{}))
}

func TestWebhookSet(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	raw := map[string]any{"status": "delivered"}

	t.Run("status and audit payload", func(t *testing.T) {
		set := webhookSet(models.Shipment{ProviderShipmentID: "DL123"},
			webhookEvent{Status: "delivered", EventID: "evt-1", Raw: raw}, now)
		assert.Equal(t, "delivered", set["status"])
		assert.Equal(t, raw, set["metadata.webhook"])
		assert.Equal(t, now, set["updated_at"])
		assert.Equal(t, "evt-1", set["last_webhook_event_id"])
		assert.NotContains(t, set, "provider_shipment_id")
	})

	t.Run("no event id recorded when absent", func(t *testing.T) {
		set := webhookSet(models.Shipment{}, webhookEvent{Status: "delivered"}, now)
		assert.NotContains(t, set, "last_webhook_event_id")
	})

	t.Run("consignment id backfilled only when missing", func(t *testing.T) {
		set := webhookSet(models.Shipment{},
			webhookEvent{Status: "delivered", ConsignmentID: "DL123"}, now)
		assert.Equal(t, "DL123", set["provider_shipment_id"])

		set = webhookSet(models.Shipment{ProviderShipmentID: "DL123"},
			webhookEvent{Status: "delivered", ConsignmentID: "DL999"}, now)
		assert.NotContains(t, set, "provider_shipment_id")
	})

	t.Run("fee fills an unset rate only", func(t *testing.T) {
		set := webhookSet(models.Shipment{},
			webhookEvent{Status: "delivered", DeliveryFee: 120}, now)
		assert.Equal(t, 120.0, set["rate"])

		set = webhookSet(models.Shipment{Rate: 80},
			webhookEvent{Status: "delivered", DeliveryFee: 120}, now)
		assert.NotContains(t, set, "rate")
	})
}
