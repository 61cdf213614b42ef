package cart

import (
	"encoding/json"
	"net/http"

	"tokri/db"
	"tokri/globals"
	"tokri/models"
	"tokri/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

func userID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(globals.UserIDKey).(string)
	return id, ok
}

func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	var c models.Cart
	err := db.CartCollection.FindOne(r.Context(), bson.M{"userid": uid}).Decode(&c)
	if err != nil {
		c = models.Cart{UserID: uid, Items: []models.CartItem{}}
	}

	utils.RespondWithJSON(w, http.StatusOK, c)
}

func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	var item models.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil || item.ProductID == "" || item.Quantity < 1 {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	err := db.ProductCollection.FindOne(r.Context(), bson.M{"productid": item.ProductID}).Err()
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	var c models.Cart
	err = db.CartCollection.FindOne(r.Context(), bson.M{"userid": uid}).Decode(&c)
	if err != nil {
		c = models.Cart{UserID: uid, Items: []models.CartItem{item}}
		if _, err := db.CartCollection.InsertOne(r.Context(), c); err != nil {
			http.Error(w, "Error creating cart", http.StatusInternalServerError)
			return
		}
		utils.SendResponse(w, http.StatusOK, c.Items, "Item added to cart", nil)
		return
	}

	updated := false
	for i, existing := range c.Items {
		if existing.ProductID == item.ProductID && existing.VariationID == item.VariationID {
			c.Items[i].Quantity += item.Quantity
			updated = true
			break
		}
	}
	if !updated {
		c.Items = append(c.Items, item)
	}

	_, err = db.CartCollection.UpdateOne(r.Context(), bson.M{"userid": uid}, bson.M{"$set": bson.M{"items": c.Items}})
	if err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusOK, c.Items, "Item added to cart", nil)
}

func RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	productID := ps.ByName("productid")

	var c models.Cart
	if err := db.CartCollection.FindOne(r.Context(), bson.M{"userid": uid}).Decode(&c); err != nil {
		http.Error(w, "Cart not found", http.StatusNotFound)
		return
	}

	remaining := []models.CartItem{}
	for _, item := range c.Items {
		if item.ProductID != productID {
			remaining = append(remaining, item)
		}
	}

	_, err := db.CartCollection.UpdateOne(r.Context(), bson.M{"userid": uid}, bson.M{"$set": bson.M{"items": remaining}})
	if err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusOK, remaining, "Item removed from cart", nil)
}

// ClearCart empties the cart after a successful checkout.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	if _, err := db.CartCollection.DeleteOne(r.Context(), bson.M{"userid": uid}); err != nil {
		http.Error(w, "Error clearing cart", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Cart cleared", nil)
}
