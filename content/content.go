package content

import (
	"encoding/json"
	"net/http"

	"tokri/db"
	"tokri/models"
	"tokri/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sliders

func CreateSlider(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var slider models.Slider
	if err := json.NewDecoder(r.Body).Decode(&slider); err != nil || slider.Image == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	slider.SliderID = "sl" + utils.GenerateID(10)
	if _, err := db.SliderCollection.InsertOne(r.Context(), slider); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating slider")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, slider)
}

func GetSliders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := options.Find().SetSort(bson.M{"order": 1})
	cursor, err := db.SliderCollection.Find(r.Context(), bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching sliders")
		return
	}
	defer cursor.Close(r.Context())

	sliders := []models.Slider{}
	if err := cursor.All(r.Context(), &sliders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading sliders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, sliders)
}

func UpdateSlider(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input map[string]any
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	delete(input, "sliderid")
	delete(input, "_id")

	result, err := db.SliderCollection.UpdateOne(r.Context(),
		bson.M{"sliderid": ps.ByName("sliderid")}, bson.M{"$set": input})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating slider")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Slider not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Slider updated", nil)
}

func DeleteSlider(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := db.SliderCollection.DeleteOne(r.Context(), bson.M{"sliderid": ps.ByName("sliderid")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting slider")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Slider not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Slider deleted", nil)
}

// Pages

func CreatePage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var page models.Page
	if err := json.NewDecoder(r.Body).Decode(&page); err != nil || page.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	page.PageID = "pg" + utils.GenerateID(10)
	if page.Slug == "" {
		page.Slug = utils.Slugify(page.Title)
	}

	if _, err := db.PageCollection.InsertOne(r.Context(), page); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating page")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, page)
}

func GetPages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cursor, err := db.PageCollection.Find(r.Context(), bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching pages")
		return
	}
	defer cursor.Close(r.Context())

	pages := []models.Page{}
	if err := cursor.All(r.Context(), &pages); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading pages")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, pages)
}

func GetPageBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var page models.Page
	err := db.PageCollection.FindOne(r.Context(), bson.M{"slug": ps.ByName("slug")}).Decode(&page)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, page)
}

func UpdatePage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input map[string]any
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	delete(input, "pageid")
	delete(input, "_id")

	result, err := db.PageCollection.UpdateOne(r.Context(),
		bson.M{"pageid": ps.ByName("pageid")}, bson.M{"$set": input})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating page")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Page updated", nil)
}

func DeletePage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := db.PageCollection.DeleteOne(r.Context(), bson.M{"pageid": ps.ByName("pageid")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting page")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Page deleted", nil)
}
