package categories

import (
	"encoding/json"
	"net/http"
	"time"

	"verdura/db"
	"verdura/models"
	"verdura/rdx"
	"verdura/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const cacheKey = "categories:list"

type Handler struct {
	DB    *db.Mongo
	Cache *rdx.Conn
}

func NewHandler(m *db.Mongo, cache *rdx.Conn) *Handler {
	return &Handler{DB: m, Cache: cache}
}

// List returns all categories sorted by display order. The public storefront
// hits this on every page load, so the result is cached.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if cached, ok := h.Cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(cached))
		return
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}})
	cursor, err := h.DB.Categories.Find(r.Context(), bson.M{}, findOpts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	defer cursor.Close(r.Context())

	categories := []models.Category{}
	if err := cursor.All(r.Context(), &categories); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode categories")
		return
	}

	if data, err := json.Marshal(categories); err == nil {
		h.Cache.Set(cacheKey, string(data), 5*time.Minute)
	}
	utils.RespondWithJSON(w, http.StatusOK, categories)
}

// Get returns a single category by its ID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var category models.Category
	err := h.DB.Categories.FindOne(r.Context(), bson.M{"categoryid": ps.ByName("id")}).Decode(&category)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, category)
}

// Create inserts a new category at the end of the display order.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.CategoryCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Category name is required")
		return
	}

	count, err := h.DB.Categories.CountDocuments(r.Context(), bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	category := models.Category{
		CategoryID:  utils.GenerateID(14),
		Name:        input.Name,
		Description: input.Description,
		Order:       int(count),
		CreatedAt:   time.Now(),
	}
	if _, err := h.DB.Categories.InsertOne(r.Context(), category); err != nil {
		logrus.WithError(err).Error("failed to insert category")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	h.Cache.Del(cacheKey)
	utils.RespondWithJSON(w, http.StatusCreated, category)
}

// Update applies the provided fields to an existing category.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input models.CategoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	updateFields := bson.M{}
	if input.Name != nil {
		if *input.Name == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Category name cannot be empty")
			return
		}
		updateFields["name"] = *input.Name
	}
	if input.Description != nil {
		updateFields["description"] = *input.Description
	}
	if len(updateFields) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	result, err := h.DB.Categories.UpdateOne(r.Context(),
		bson.M{"categoryid": ps.ByName("id")},
		bson.M{"$set": updateFields},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update category")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	h.Cache.Del(cacheKey)

	var category models.Category
	if err := h.DB.Categories.FindOne(r.Context(), bson.M{"categoryid": ps.ByName("id")}).Decode(&category); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch updated category")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, category)
}

// Delete removes a category. Products that reference it keep their category_id
// and simply stop resolving to a category.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := h.DB.Categories.DeleteOne(r.Context(), bson.M{"categoryid": ps.ByName("id")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	h.Cache.Del(cacheKey)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}

// Reorder persists a new display order for the given categories. Unknown IDs
// are counted but do not fail the whole request.
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if len(input.Items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No items to reorder")
		return
	}

	updated := 0
	for _, item := range input.Items {
		result, err := h.DB.Categories.UpdateOne(r.Context(),
			bson.M{"categoryid": item.ID},
			bson.M{"$set": bson.M{"order": item.Order}},
		)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reorder categories")
			return
		}
		updated += int(result.MatchedCount)
	}

	h.Cache.Del(cacheKey)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Categories reordered successfully",
		"updated": updated,
	})
}
