package settings

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

// List returns every system setting.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cursor, err := h.DB.Settings.Find(r.Context(), bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch settings")
		return
	}
	defer cursor.Close(r.Context())

	settings := []models.SystemSetting{}
	if err := cursor.All(r.Context(), &settings); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode settings")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, settings)
}

// Get returns a single setting by key. The storefront reads
// minimum_order_value through this before checkout.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var setting models.SystemSetting
	err := h.DB.Settings.FindOne(r.Context(), bson.M{"key": ps.ByName("key")}).Decode(&setting)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Setting not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, setting)
}

// Update upserts a setting's value and optional description.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input models.SystemSettingUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Value < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Value cannot be negative")
		return
	}

	updateFields := bson.M{
		"value":      input.Value,
		"updated_at": time.Now(),
	}
	if input.Description != nil {
		updateFields["description"] = *input.Description
	}

	opts := options.Update().SetUpsert(true)
	if _, err := h.DB.Settings.UpdateOne(r.Context(),
		bson.M{"key": ps.ByName("key")},
		bson.M{"$set": updateFields, "$setOnInsert": bson.M{"key": ps.ByName("key")}},
		opts,
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update setting")
		return
	}

	var setting models.SystemSetting
	if err := h.DB.Settings.FindOne(r.Context(), bson.M{"key": ps.ByName("key")}).Decode(&setting); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch setting")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, setting)
}
