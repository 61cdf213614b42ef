package products

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"tokri/db"
	"tokri/models"
	"tokri/rdx"
	"tokri/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const cachePrefix = "product:"

func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if product.Name == "" || product.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Name and a positive price are required")
		return
	}
	if product.Stock < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Stock cannot be negative")
		return
	}

	product.ProductID = "p" + utils.GenerateID(10)
	if product.Slug == "" {
		product.Slug = utils.Slugify(product.Name)
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	if _, err := db.ProductCollection.InsertOne(r.Context(), product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "Slug already in use")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating product")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// GetProducts lists the catalog with optional filters.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	q := r.URL.Query()

	if category := q.Get("category"); category != "" {
		filter["categories"] = category
	}
	for _, flag := range []string{"featured", "new_arrival", "best_selling", "active"} {
		if v := q.Get(flag); v != "" {
			b, err := strconv.ParseBool(v)
			if err == nil {
				filter[flag] = b
			}
		}
	}
	if search := q.Get("q"); search != "" {
		filter["name"] = bson.M{"$regex": search, "$options": "i"}
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := db.ProductCollection.Find(r.Context(), filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching products")
		return
	}
	defer cursor.Close(r.Context())

	products := []models.Product{}
	if err := cursor.All(r.Context(), &products); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading products")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, products)
}

func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	if cached, err := rdx.RdxGet(cachePrefix + productID); err == nil && cached != "" {
		var product models.Product
		if err := json.Unmarshal([]byte(cached), &product); err == nil {
			utils.RespondWithJSON(w, http.StatusOK, product)
			return
		}
	}

	var product models.Product
	err := db.ProductCollection.FindOne(r.Context(), bson.M{"productid": productID}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	if data, err := json.Marshal(product); err == nil {
		if err := rdx.SetWithExpiry(cachePrefix+productID, string(data), 10*time.Minute); err != nil {
			log.Printf("product cache write failed: %v", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

func GetProductBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var product models.Product
	err := db.ProductCollection.FindOne(r.Context(), bson.M{"slug": ps.ByName("slug")}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	var input map[string]any
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	// Stock changes go through orders, never through catalog edits.
	delete(input, "stock")
	delete(input, "productid")
	delete(input, "_id")
	input["updated_at"] = time.Now()

	result, err := db.ProductCollection.UpdateOne(r.Context(),
		bson.M{"productid": productID}, bson.M{"$set": input})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating product")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	InvalidateCache(productID)
	utils.SendResponse(w, http.StatusOK, nil, "Product updated", nil)
}

// SetStock is the admin restock endpoint; the only write path for stock
// outside order placement.
func SetStock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	var input struct {
		Stock int `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Stock < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Stock must be a non-negative integer")
		return
	}

	result, err := db.ProductCollection.UpdateOne(r.Context(),
		bson.M{"productid": productID},
		bson.M{"$set": bson.M{"stock": input.Stock, "updated_at": time.Now()}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating stock")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	InvalidateCache(productID)
	utils.SendResponse(w, http.StatusOK, nil, "Stock updated", nil)
}

func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	result, err := db.ProductCollection.DeleteOne(r.Context(), bson.M{"productid": productID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting product")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	// Orphaned variations go with the product.
	if _, err := db.VariationCollection.DeleteMany(r.Context(), bson.M{"productid": productID}); err != nil {
		log.Printf("failed to delete variations for %s: %v", productID, err)
	}

	InvalidateCache(productID)
	utils.SendResponse(w, http.StatusOK, nil, "Product deleted", nil)
}

// InvalidateCache drops the cached product document. Any write that moves
// stock or edits the product, including order placement, must call it.
func InvalidateCache(productID string) {
	if _, err := rdx.RdxDel(cachePrefix + productID); err != nil {
		log.Printf("product cache invalidation failed for %s: %v", productID, err)
	}
}
