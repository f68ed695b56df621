package content

import (
	"encoding/json"
	"net/http"
	"time"

	"verdura/db"
	"verdura/models"
	"verdura/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Handler struct {
	DB *db.Mongo
}

func NewHandler(m *db.Mongo) *Handler {
	return &Handler{DB: m}
}

// List returns content blocks, optionally filtered by ?page=, ordered for
// rendering.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if page := r.URL.Query().Get("page"); page != "" {
		filter["page"] = page
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "page", Value: 1}, {Key: "order", Value: 1}})
	cursor, err := h.DB.Content.Find(r.Context(), filter, findOpts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch content")
		return
	}
	defer cursor.Close(r.Context())

	blocks := []models.Content{}
	if err := cursor.All(r.Context(), &blocks); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode content")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, blocks)
}

// Get returns one content block by its ID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var block models.Content
	err := h.DB.Content.FindOne(r.Context(), bson.M{"contentid": ps.ByName("id")}).Decode(&block)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Content not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, block)
}

// Create inserts a new content block.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.ContentCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Page == "" || input.Section == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Page and section are required")
		return
	}

	block := models.Content{
		ContentID: utils.GenerateID(14),
		Page:      input.Page,
		Section:   input.Section,
		Title:     input.Title,
		Content:   input.Content,
		Order:     input.Order,
		UpdatedAt: time.Now(),
	}
	if _, err := h.DB.Content.InsertOne(r.Context(), block); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create content")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, block)
}

// Update applies the provided fields to a content block.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input models.ContentUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	updateFields := bson.M{}
	if input.Page != nil {
		updateFields["page"] = *input.Page
	}
	if input.Section != nil {
		updateFields["section"] = *input.Section
	}
	if input.Title != nil {
		updateFields["title"] = *input.Title
	}
	if input.Content != nil {
		updateFields["content"] = *input.Content
	}
	if input.Order != nil {
		updateFields["order"] = *input.Order
	}
	if len(updateFields) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	updateFields["updated_at"] = time.Now()

	result, err := h.DB.Content.UpdateOne(r.Context(),
		bson.M{"contentid": ps.ByName("id")},
		bson.M{"$set": updateFields},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update content")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Content not found")
		return
	}

	var block models.Content
	if err := h.DB.Content.FindOne(r.Context(), bson.M{"contentid": ps.ByName("id")}).Decode(&block); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch updated content")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, block)
}

// Delete removes a content block.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := h.DB.Content.DeleteOne(r.Context(), bson.M{"contentid": ps.ByName("id")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete content")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Content not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Content deleted successfully"})
}
