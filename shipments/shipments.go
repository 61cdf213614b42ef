package shipments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tokri/courier"
	"tokri/db"
	"tokri/models"
	"tokri/mq"
	"tokri/settings"
	"tokri/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Handler carries the injected settings service so courier credentials are
// resolved from the single loaded document.
type Handler struct {
	Settings *settings.Service
}

func NewHandler(svc *settings.Service) *Handler {
	return &Handler{Settings: svc}
}

// CreateRequest either names an order to ship or carries an explicit
// payload. When an order id is given, the recipient fields are filled from
// the order's shipping info and the COD amount from its total.
type CreateRequest struct {
	OrderID string                  `json:"orderid,omitempty"`
	Payload courier.ShipmentRequest `json:"payload,omitempty"`
}

// newAdapter resolves the enabled provider config and builds its adapter.
func (h *Handler) newAdapter(provider string) (courier.Courier, error) {
	cfg, err := h.Settings.Courier(provider)
	if err != nil {
		return nil, err
	}
	return courier.New(provider, cfg)
}

// buildFromOrder derives the provider-neutral payload from an order.
func buildFromOrder(order models.Order) courier.ShipmentRequest {
	quantity := 0
	for _, item := range order.Items {
		quantity += item.Quantity
	}
	codAmount := order.TotalPrice
	if order.Status == models.StatusPaid {
		codAmount = 0
	}
	return courier.ShipmentRequest{
		Invoice:          order.OrderID,
		RecipientName:    order.ShippingInfo.Name,
		RecipientPhone:   order.ShippingInfo.Phone,
		RecipientAddress: order.ShippingInfo.Address,
		RecipientCity:    order.ShippingInfo.City,
		CODAmount:        codAmount,
		Quantity:         quantity,
	}
}

// validatePayload rejects bad recipient data before any provider call is
// made, so a validation failure never costs an outbound request.
func validatePayload(req courier.ShipmentRequest) error {
	if req.Invoice == "" {
		return errors.New("invoice is required")
	}
	if req.RecipientName == "" || req.RecipientAddress == "" {
		return errors.New("recipient name and address are required")
	}
	if !utils.ValidPhone(req.RecipientPhone) {
		return errors.New("recipient phone must be an 11 digit number")
	}
	if req.CODAmount < 0 {
		return errors.New("cod amount cannot be negative")
	}
	return nil
}

// CreateShipment books a single consignment with the named provider and
// records it. The linked order moves to Shipped, or Processing when the
// provider only acknowledged the submission.
func (h *Handler) CreateShipment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	provider := ps.ByName("provider")

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	adapter, err := h.newAdapter(provider)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	payload := req.Payload
	if req.OrderID != "" {
		var order models.Order
		if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": req.OrderID}).Decode(&order); err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		payload = buildFromOrder(order)
	}

	if err := validatePayload(payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := adapter.CreateShipment(ctx, payload)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Courier rejected shipment: "+err.Error())
		return
	}

	shipment, err := h.recordShipment(ctx, provider, req.OrderID, result)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record shipment")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, shipment)
}

// recordShipment persists the provider result and moves the linked order
// forward.
func (h *Handler) recordShipment(ctx context.Context, provider, orderID string, result courier.ShipmentResult) (models.Shipment, error) {
	now := time.Now()
	shipment := models.Shipment{
		ShipmentID:         "shp" + utils.GenerateID(10),
		OrderID:            orderID,
		Provider:           provider,
		ProviderShipmentID: result.ProviderShipmentID,
		TrackingURL:        result.TrackingURL,
		Rate:               result.Rate,
		Currency:           result.Currency,
		Status:             result.Status,
		Metadata:           result.Metadata,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if _, err := db.ShipmentCollection.InsertOne(ctx, shipment); err != nil {
		return models.Shipment{}, err
	}

	if orderID != "" {
		orderStatus := models.StatusShipped
		if result.Async {
			orderStatus = models.StatusProcessing
		}
		_, _ = db.OrderCollection.UpdateOne(ctx,
			bson.M{"orderid": orderID},
			bson.M{"$set": bson.M{"status": orderStatus, "updated_at": now}})
		mq.Emit(ctx, "order-updated", orderID, orderStatus)
	}

	mq.Emit(ctx, "shipment-created", shipment.ShipmentID, shipment.Status)
	return shipment, nil
}

// BulkItem is one line of the bulk booking response.
type BulkItem struct {
	OrderID  string           `json:"orderid"`
	Shipment *models.Shipment `json:"shipment,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// BulkCreate books a batch of orders with one provider. Orders that fail
// validation are reported and skipped; one bad order never sinks the batch.
func (h *Handler) BulkCreate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	provider := ps.ByName("provider")

	var input struct {
		OrderIDs []string `json:"orderids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || len(input.OrderIDs) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "orderids is required")
		return
	}

	adapter, err := h.newAdapter(provider)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	items := make([]BulkItem, 0, len(input.OrderIDs))
	payloads := make([]courier.ShipmentRequest, 0, len(input.OrderIDs))
	orderByInvoice := make(map[string]string, len(input.OrderIDs))

	for _, orderID := range input.OrderIDs {
		var order models.Order
		if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order); err != nil {
			items = append(items, BulkItem{OrderID: orderID, Error: "order not found"})
			continue
		}
		payload := buildFromOrder(order)
		if err := validatePayload(payload); err != nil {
			items = append(items, BulkItem{OrderID: orderID, Error: err.Error()})
			continue
		}
		payloads = append(payloads, payload)
		orderByInvoice[payload.Invoice] = orderID
	}

	if len(payloads) > 0 {
		results, err := adapter.CreateBulkShipments(ctx, payloads)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadGateway, "Courier rejected batch: "+err.Error())
			return
		}
		for _, res := range results {
			orderID := orderByInvoice[res.Invoice]
			if res.Err != "" {
				items = append(items, BulkItem{OrderID: orderID, Error: res.Err})
				continue
			}
			shipment, err := h.recordShipment(ctx, provider, orderID, res.Result)
			if err != nil {
				items = append(items, BulkItem{OrderID: orderID, Error: "failed to record shipment"})
				continue
			}
			items = append(items, BulkItem{OrderID: orderID, Shipment: &shipment})
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// Quote returns the provider's delivery charge estimate for an address.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	provider := ps.ByName("provider")

	var info models.ShippingInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	adapter, err := h.newAdapter(provider)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	quote, err := adapter.Quote(r.Context(), info)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Quote failed: "+err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, quote)
}

// GetStatus polls the provider for a recorded shipment and writes back what
// it reports.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	shipmentID := ps.ByName("shipmentid")

	var shipment models.Shipment
	if err := db.ShipmentCollection.FindOne(r.Context(), bson.M{"shipmentid": shipmentID}).Decode(&shipment); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Shipment not found")
		return
	}

	adapter, err := h.newAdapter(shipment.Provider)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ident, identType := shipment.ProviderShipmentID, "cid"
	if ident == "" {
		// Async bookings may still be unassigned; fall back to the invoice.
		ident, identType = shipment.OrderID, "invoice"
	}

	status, err := adapter.GetStatus(r.Context(), ident, identType)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Status lookup failed: "+err.Error())
		return
	}

	if status.Status != "" && status.Status != shipment.Status {
		now := time.Now()
		_, _ = db.ShipmentCollection.UpdateOne(r.Context(),
			bson.M{"shipmentid": shipmentID},
			bson.M{"$set": bson.M{"status": status.Status, "updated_at": now}})
		shipment.Status = status.Status
		shipment.UpdatedAt = now
		mq.Emit(r.Context(), "shipment-updated", shipmentID, status.Status)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"shipment": shipment, "provider_status": status})
}

// ListShipments returns recorded shipments, optionally filtered by provider
// or order.
func (h *Handler) ListShipments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if provider := r.URL.Query().Get("provider"); provider != "" {
		filter["provider"] = provider
	}
	if orderID := r.URL.Query().Get("orderid"); orderID != "" {
		filter["orderid"] = orderID
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := db.ShipmentCollection.Find(r.Context(), filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve shipments")
		return
	}
	defer cursor.Close(r.Context())

	shipments := []models.Shipment{}
	if err := cursor.All(r.Context(), &shipments); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error decoding shipments")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, shipments)
}

func (h *Handler) GetShipment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var shipment models.Shipment
	err := db.ShipmentCollection.FindOne(r.Context(), bson.M{"shipmentid": ps.ByName("shipmentid")}).Decode(&shipment)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Shipment not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, shipment)
}
