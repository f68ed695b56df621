package recipes

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

// List returns all recipes, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := h.DB.Recipes.Find(r.Context(), bson.M{}, findOpts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch recipes")
		return
	}
	defer cursor.Close(r.Context())

	recipes := []models.Recipe{}
	if err := cursor.All(r.Context(), &recipes); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode recipes")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, recipes)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var recipe models.Recipe
	err := h.DB.Recipes.FindOne(r.Context(), bson.M{"recipeid": ps.ByName("id")}).Decode(&recipe)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, recipe)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.RecipeCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Recipe name is required")
		return
	}

	now := time.Now()
	recipe := models.Recipe{
		RecipeID:    utils.GenerateID(14),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := h.DB.Recipes.InsertOne(r.Context(), recipe); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create recipe")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, recipe)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input models.RecipeUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	updateFields := bson.M{}
	if input.Name != nil {
		if *input.Name == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Recipe name cannot be empty")
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
	updateFields["updated_at"] = time.Now()

	result, err := h.DB.Recipes.UpdateOne(r.Context(),
		bson.M{"recipeid": ps.ByName("id")},
		bson.M{"$set": updateFields},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update recipe")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	var recipe models.Recipe
	if err := h.DB.Recipes.FindOne(r.Context(), bson.M{"recipeid": ps.ByName("id")}).Decode(&recipe); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch updated recipe")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, recipe)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := h.DB.Recipes.DeleteOne(r.Context(), bson.M{"recipeid": ps.ByName("id")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete recipe")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Recipe deleted successfully"})
}
