package orders

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tokri/db"
	"tokri/globals"
	"tokri/models"
	"tokri/mq"
	"tokri/pay"
	"tokri/settings"
	"tokri/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var validStatuses = map[string]bool{
	models.StatusPending:       true,
	models.StatusProcessing:    true,
	models.StatusShipped:       true,
	models.StatusDelivered:     true,
	models.StatusCancelled:     true,
	models.StatusPaymentFailed: true,
	models.StatusPaid:          true,
}

// Handler carries the injected settings service; provider configuration is
// never fetched ambiently per request.
type Handler struct {
	Settings *settings.Service
}

func NewHandler(svc *settings.Service) *Handler {
	return &Handler{Settings: svc}
}

// CreateOrder is the order placement flow: validate, reserve stock
// atomically, persist the snapshot order, and hand off to the hosted
// gateway when that payment method was chosen.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validateOrderRequest(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	method, err := h.Settings.PaymentMethod(req.PaymentMethod)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	resolved, err := resolveItems(ctx, req.Items)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := reserveStock(ctx, resolved); err != nil {
		var stockErr *InsufficientStockError
		if errors.As(err, &stockErr) {
			utils.RespondWithError(w, http.StatusBadRequest, stockErr.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reserve stock")
		return
	}

	userID, _ := ctx.Value(globals.UserIDKey).(string)
	now := time.Now()
	order := models.Order{
		OrderID:       "o" + utils.GenerateID(12),
		UserID:        userID,
		ShippingInfo:  req.ShippingInfo,
		PaymentMethod: method.Name,
		TotalPrice:    orderTotal(resolved),
		Status:        models.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, item := range resolved {
		order.Items = append(order.Items, item.snapshot)
	}

	// The order is persisted before the gateway call so its id can serve
	// as the gateway transaction id.
	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		releaseStock(ctx, resolved)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	if method.Name == "sslcommerz" {
		client := pay.NewClient(*method.SSLCommerz)
		paymentURL, err := client.CreateSession(ctx, order, h.Settings.Get().Currency, globals.PublicBaseURL)
		if err != nil {
			_, _ = db.OrderCollection.UpdateOne(ctx, bson.M{"orderid": order.OrderID}, bson.M{
				"$set": bson.M{"status": models.StatusPaymentFailed, "updated_at": time.Now()},
			})
			utils.RespondWithError(w, http.StatusBadGateway, "Payment initiation failed: "+err.Error())
			return
		}

		mq.Emit(ctx, "order-created", order.OrderID, order.Status)
		utils.RespondWithJSON(w, http.StatusCreated, utils.M{
			"order":      order,
			"paymentUrl": paymentURL,
		})
		return
	}

	mq.Emit(ctx, "order-created", order.OrderID, order.Status)
	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GetOrders lists every order for admins and the caller's own otherwise.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	roles, _ := r.Context().Value(globals.RoleKey).([]string)

	filter := bson.M{"userid": userID}
	for _, role := range roles {
		if role == "admin" {
			filter = bson.M{}
			break
		}
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := db.OrderCollection.Find(r.Context(), filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	defer cursor.Close(r.Context())

	orders := []models.Order{}
	if err := cursor.All(r.Context(), &orders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error decoding orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	order, ok := h.loadOwnedOrder(w, r, ps.ByName("orderid"))
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// UpdateOrderStatus is the admin status override.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("orderid")

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || !validStatuses[input.Status] {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	result, err := db.OrderCollection.UpdateOne(r.Context(),
		bson.M{"orderid": orderID},
		bson.M{"$set": bson.M{"status": input.Status, "updated_at": time.Now()}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	mq.Emit(r.Context(), "order-updated", orderID, input.Status)
	utils.SendResponse(w, http.StatusOK, nil, "Order status updated", nil)
}

// loadOwnedOrder fetches an order and enforces that the caller owns it or
// is an admin.
func (h *Handler) loadOwnedOrder(w http.ResponseWriter, r *http.Request, orderID string) (models.Order, bool) {
	var order models.Order
	err := db.OrderCollection.FindOne(r.Context(), bson.M{"orderid": orderID}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return models.Order{}, false
	}

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	roles, _ := r.Context().Value(globals.RoleKey).([]string)
	for _, role := range roles {
		if role == "admin" {
			return order, true
		}
	}
	if order.UserID != "" && order.UserID == userID {
		return order, true
	}

	utils.RespondWithError(w, http.StatusForbidden, "Not your order")
	return models.Order{}, false
}
