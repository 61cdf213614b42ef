package users

import (
	"encoding/json"
	"net/http"

	"tokri/db"
	"tokri/globals"
	"tokri/models"
	"tokri/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": userID}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Name == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	_, err := db.UserCollection.UpdateOne(r.Context(), bson.M{"userid": userID}, bson.M{
		"$set": bson.M{"name": input.Name},
	})
	if err != nil {
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Profile updated", nil)
}

func AddAddress(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	var address models.Address
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if address.Street == "" || address.City == "" {
		http.Error(w, "Street and city are required", http.StatusBadRequest)
		return
	}

	_, err := db.UserCollection.UpdateOne(r.Context(), bson.M{"userid": userID}, bson.M{
		"$push": bson.M{"addresses": address},
	})
	if err != nil {
		http.Error(w, "Failed to add address", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusCreated, address, "Address added", nil)
}

func RemoveAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	label := ps.ByName("label")
	_, err := db.UserCollection.UpdateOne(r.Context(), bson.M{"userid": userID}, bson.M{
		"$pull": bson.M{"addresses": bson.M{"label": label}},
	})
	if err != nil {
		http.Error(w, "Failed to remove address", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Address removed", nil)
}

// ListUsers is the admin-facing user listing.
func ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := options.Find().SetProjection(bson.M{"password": 0, "refresh_token": 0})
	cursor, err := db.UserCollection.Find(r.Context(), bson.M{}, opts)
	if err != nil {
		http.Error(w, "Failed to retrieve users", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	users := []models.User{}
	if err := cursor.All(r.Context(), &users); err != nil {
		http.Error(w, "Error decoding users", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, users)
}
