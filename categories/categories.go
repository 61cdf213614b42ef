package categories

import (
	"encoding/json"
	"net/http"

	"tokri/db"
	"tokri/models"
	"tokri/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

func CreateCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil || category.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	category.CategoryID = "c" + utils.GenerateID(10)
	if category.Slug == "" {
		category.Slug = utils.Slugify(category.Name)
	}

	if _, err := db.CategoryCollection.InsertOne(r.Context(), category); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating category")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, category)
}

func GetCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cursor, err := db.CategoryCollection.Find(r.Context(), bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching categories")
		return
	}
	defer cursor.Close(r.Context())

	categories := []models.Category{}
	if err := cursor.All(r.Context(), &categories); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading categories")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, categories)
}

func UpdateCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input map[string]any
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	delete(input, "categoryid")
	delete(input, "_id")

	result, err := db.CategoryCollection.UpdateOne(r.Context(),
		bson.M{"categoryid": ps.ByName("categoryid")}, bson.M{"$set": input})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating category")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Category updated", nil)
}

func DeleteCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := db.CategoryCollection.DeleteOne(r.Context(), bson.M{"categoryid": ps.ByName("categoryid")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting category")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Category deleted", nil)
}
