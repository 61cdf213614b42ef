package shipments

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"tokri/db"
	"tokri/models"
	"tokri/mq"
	"tokri/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var errNoShipmentIdentifier = errors.New("webhook carries no shipment identifier")

// webhookEvent is the shape both providers post, give or take field names.
type webhookEvent struct {
	EventID       string
	ConsignmentID string
	TrackingCode  string
	Invoice       string
	Status        string
	DeliveryFee   float64
	Raw           map[string]any
}

func stringish(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// parseWebhookEvent normalizes a provider payload. Numeric consignment ids
// arrive as JSON numbers from some senders, and Steadfast labels the status
// field delivery_status.
func parseWebhookEvent(raw map[string]any) webhookEvent {
	evt := webhookEvent{Raw: raw}
	evt.EventID = stringish(raw["event_id"])
	evt.ConsignmentID = stringish(raw["consignment_id"])
	evt.TrackingCode = stringish(raw["tracking_code"])
	evt.Invoice = stringish(raw["invoice"])
	evt.Status = stringish(raw["status"])
	if evt.Status == "" {
		evt.Status = stringish(raw["delivery_status"])
	}
	if fee, ok := raw["delivery_fee"].(float64); ok {
		evt.DeliveryFee = fee
	}
	return evt
}

// shipmentFilter picks the strongest identifier the event carries:
// consignment id, then tracking code, then the invoice (our order id).
func shipmentFilter(provider string, evt webhookEvent) (bson.M, error) {
	providerShipmentID := evt.ConsignmentID
	if providerShipmentID == "" {
		providerShipmentID = evt.TrackingCode
	}
	if providerShipmentID != "" {
		return bson.M{"provider": provider, "provider_shipment_id": providerShipmentID}, nil
	}
	if evt.Invoice != "" {
		return bson.M{"provider": provider, "orderid": evt.Invoice}, nil
	}
	return nil, errNoShipmentIdentifier
}

// isReplay reports whether this event id was already applied to the
// shipment. Deliveries without an event id are always processed.
func isReplay(shipment models.Shipment, evt webhookEvent) bool {
	return evt.EventID != "" && evt.EventID == shipment.LastWebhookEventID
}

// webhookSet builds the shipment update for one event. The raw payload is
// kept under metadata.webhook for audit.
func webhookSet(shipment models.Shipment, evt webhookEvent, now time.Time) bson.M {
	set := bson.M{
		"status":           evt.Status,
		"metadata.webhook": evt.Raw,
		"updated_at":       now,
	}
	if evt.EventID != "" {
		set["last_webhook_event_id"] = evt.EventID
	}
	// Async bookings learn their consignment id from the first push.
	if shipment.ProviderShipmentID == "" && evt.ConsignmentID != "" {
		set["provider_shipment_id"] = evt.ConsignmentID
	}
	if evt.DeliveryFee > 0 && shipment.Rate == 0 {
		set["rate"] = evt.DeliveryFee
	}
	return set
}

// Webhook ingests a provider status push. Unknown shipments are rejected
// without creating anything, and an event id already applied to the
// shipment is acknowledged without reprocessing.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	provider := ps.ByName("provider")

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid webhook body")
		return
	}

	evt := parseWebhookEvent(raw)
	if evt.Status == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Webhook carries no status")
		return
	}

	filter, err := shipmentFilter(provider, evt)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Webhook carries no shipment identifier")
		return
	}

	ctx := r.Context()
	var shipment models.Shipment
	if err := db.ShipmentCollection.FindOne(ctx, filter).Decode(&shipment); err != nil {
		log.Printf("shipments: webhook from %s matched no shipment (%v)", provider, filter)
		utils.RespondWithError(w, http.StatusNotFound, "Unknown shipment")
		return
	}

	if isReplay(shipment, evt) {
		utils.SendResponse(w, http.StatusOK, nil, "Event already processed", nil)
		return
	}

	now := time.Now()
	set := webhookSet(shipment, evt, now)
	if _, err := db.ShipmentCollection.UpdateOne(ctx, bson.M{"shipmentid": shipment.ShipmentID}, bson.M{"$set": set}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to apply webhook")
		return
	}

	if shipment.OrderID != "" {
		if orderStatus, ok := mapDeliveryStatus(evt.Status); ok {
			_, _ = db.OrderCollection.UpdateOne(ctx,
				bson.M{"orderid": shipment.OrderID},
				bson.M{"$set": bson.M{"status": orderStatus, "updated_at": now}})
			mq.Emit(ctx, "order-updated", shipment.OrderID, orderStatus)
		}
	}

	mq.Emit(ctx, "shipment-updated", shipment.ShipmentID, evt.Status)
	utils.SendResponse(w, http.StatusOK, nil, "Webhook processed", nil)
}

// mapDeliveryStatus translates terminal provider statuses into order
// statuses. Intermediate statuses only touch the shipment.
func mapDeliveryStatus(providerStatus string) (string, bool) {
	switch providerStatus {
	case "delivered", "Delivered":
		return models.StatusDelivered, true
	case "cancelled", "Cancelled", "returned":
		return models.StatusCancelled, true
	default:
		return "", false
	}
}
