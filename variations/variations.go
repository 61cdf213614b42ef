package variations

import (
	"encoding/json"
	"net/http"

	"tokri/db"
	"tokri/models"
	"tokri/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

func CreateVariation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	var variation models.Variation
	if err := json.NewDecoder(r.Body).Decode(&variation); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if variation.Size == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Size is required")
		return
	}
	if variation.Stock < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Stock cannot be negative")
		return
	}

	err := db.ProductCollection.FindOne(r.Context(), bson.M{"productid": productID}).Err()
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	variation.VariationID = "v" + utils.GenerateID(10)
	variation.ProductID = productID

	if _, err := db.VariationCollection.InsertOne(r.Context(), variation); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating variation")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, variation)
}

func GetVariations(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	cursor, err := db.VariationCollection.Find(r.Context(), bson.M{"productid": ps.ByName("productid")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching variations")
		return
	}
	defer cursor.Close(r.Context())

	variations := []models.Variation{}
	if err := cursor.All(r.Context(), &variations); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading variations")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, variations)
}

func UpdateVariation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input struct {
		Size  *string  `json:"size"`
		Stock *int     `json:"stock"`
		Price *float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	set := bson.M{}
	if input.Size != nil {
		set["size"] = *input.Size
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Stock cannot be negative")
			return
		}
		set["stock"] = *input.Stock
	}
	if input.Price != nil {
		set["price"] = *input.Price
	}
	if len(set) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	result, err := db.VariationCollection.UpdateOne(r.Context(),
		bson.M{"variationid": ps.ByName("variationid")}, bson.M{"$set": set})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating variation")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Variation not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Variation updated", nil)
}

func DeleteVariation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := db.VariationCollection.DeleteOne(r.Context(), bson.M{"variationid": ps.ByName("variationid")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting variation")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Variation not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Variation deleted", nil)
}
