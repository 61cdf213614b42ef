package settings

import (
	"encoding/json"
	"net/http"

	"tokri/db"
	"tokri/models"
	"tokri/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// Handler exposes the admin-facing settings endpoints on top of the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.Svc.Get())
}

// UpdateSettings replaces brand and currency. Provider entries are updated
// through their own endpoints so the tagged-union validation always runs.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Brand    models.Brand `json:"brand"`
		Currency string       `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Currency == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Currency is required")
		return
	}

	_, err := db.SettingsCollection.UpdateOne(r.Context(), bson.M{}, bson.M{
		"$set": bson.M{"brand": input.Brand, "currency": input.Currency},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	if err := h.Svc.Refresh(r.Context()); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reload settings")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.Svc.Get())
}

// UpdatePaymentMethod validates and stores one payment method entry.
func (h *Handler) UpdatePaymentMethod(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("name")

	var cfg models.PaymentMethodConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	cfg.Name = name
	if err := cfg.Validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.upsertListEntry(r, "payment_methods", name, cfg); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update payment method")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.Svc.Get())
}

// UpdateCourier validates and stores one courier entry.
func (h *Handler) UpdateCourier(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("name")

	var cfg models.CourierConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	cfg.Name = name
	if err := cfg.Validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.upsertListEntry(r, "couriers", name, cfg); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update courier")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.Svc.Get())
}

// upsertListEntry replaces the named entry inside a provider array, or
// appends it when no entry with that name exists yet.
func (h *Handler) upsertListEntry(r *http.Request, field, name string, entry any) error {
	res, err := db.SettingsCollection.UpdateOne(r.Context(),
		bson.M{field + ".name": name},
		bson.M{"$set": bson.M{field + ".$": entry}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		_, err = db.SettingsCollection.UpdateOne(r.Context(), bson.M{}, bson.M{
			"$push": bson.M{field: entry},
		})
		if err != nil {
			return err
		}
	}
	return h.Svc.Refresh(r.Context())
}
