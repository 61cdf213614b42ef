package orders

import (
	"log"
	"net/http"
	"time"

	"tokri/db"
	"tokri/models"
	"tokri/mq"
	"tokri/pay"
	"tokri/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// Gateway callbacks. The gateway posts form data; tran_id is the order id
// the session was created with.

// SSLSuccess handles the browser redirect after a successful payment. The
// redirect alone is not proof of payment: the transaction is verified
// against the gateway's validation endpoint before the order is marked
// Paid.
func (h *Handler) SSLSuccess(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Malformed callback")
		return
	}
	tranID := r.FormValue("tran_id")
	valID := r.FormValue("val_id")
	if tranID == "" || valID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "tran_id and val_id are required")
		return
	}

	method, err := h.Settings.PaymentMethod("sslcommerz")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	client := pay.NewClient(*method.SSLCommerz)
	validation, err := client.ValidateTransaction(r.Context(), valID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Validation failed: "+err.Error())
		return
	}

	if !pay.IsPaid(validation.Status) || validation.TranID != tranID {
		log.Printf("orders: rejected success redirect for %s (gateway status %q)", tranID, validation.Status)
		utils.RespondWithError(w, http.StatusBadRequest, "Transaction could not be verified")
		return
	}

	h.setOrderStatus(w, r, tranID, models.StatusPaid)
}

func (h *Handler) SSLFail(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Malformed callback")
		return
	}
	tranID := r.FormValue("tran_id")
	if tranID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "tran_id is required")
		return
	}
	h.setOrderStatus(w, r, tranID, models.StatusPaymentFailed)
}

func (h *Handler) SSLCancel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Malformed callback")
		return
	}
	tranID := r.FormValue("tran_id")
	if tranID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "tran_id is required")
		return
	}
	h.setOrderStatus(w, r, tranID, models.StatusCancelled)
}

// SSLIPN handles the asynchronous server-to-server notification. Statuses
// outside the known set leave the order untouched but are still
// acknowledged so the gateway stops redelivering.
func (h *Handler) SSLIPN(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Malformed callback")
		return
	}
	tranID := r.FormValue("tran_id")
	ipnStatus := r.FormValue("status")
	if tranID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "tran_id is required")
		return
	}

	newStatus, ok := pay.MapIPNStatus(ipnStatus)
	if !ok {
		log.Printf("orders: ignoring IPN status %q for %s", ipnStatus, tranID)
		utils.SendResponse(w, http.StatusOK, nil, "IPN acknowledged", nil)
		return
	}

	h.setOrderStatus(w, r, tranID, newStatus)
}

// setOrderStatus applies a callback-driven status write. Replaying the same
// callback reapplies the same write, which is harmless.
func (h *Handler) setOrderStatus(w http.ResponseWriter, r *http.Request, orderID, status string) {
	result, err := db.OrderCollection.UpdateOne(r.Context(),
		bson.M{"orderid": orderID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	mq.Emit(r.Context(), "order-updated", orderID, status)
	utils.SendResponse(w, http.StatusOK, map[string]string{"orderid": orderID, "status": status}, "Order status updated", nil)
}
