package contact

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

// There is exactly one contact document; Get returns it and Update upserts
// it.
type Handler struct {
	DB *db.Mongo
}

func NewHandler(m *db.Mongo) *Handler {
	return &Handler{DB: m}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var info models.ContactInfo
	err := h.DB.ContactInfo.FindOne(r.Context(), bson.M{}).Decode(&info)
	if err != nil {
		// No document yet; an empty object keeps the storefront rendering.
		utils.RespondWithJSON(w, http.StatusOK, models.ContactInfo{})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, info)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.ContactInfoUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	updateFields := bson.M{}
	if input.CompanyName != nil {
		updateFields["company_name"] = *input.CompanyName
	}
	if input.CompanyDescription != nil {
		updateFields["company_description"] = *input.CompanyDescription
	}
	if input.Email != nil {
		updateFields["email"] = *input.Email
	}
	if input.Phone != nil {
		updateFields["phone"] = *input.Phone
	}
	if input.Address != nil {
		updateFields["address"] = *input.Address
	}
	if len(updateFields) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	updateFields["updated_at"] = time.Now()

	opts := options.Update().SetUpsert(true)
	if _, err := h.DB.ContactInfo.UpdateOne(r.Context(), bson.M{}, bson.M{"$set": updateFields}, opts); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update contact info")
		return
	}

	var info models.ContactInfo
	if err := h.DB.ContactInfo.FindOne(r.Context(), bson.M{}).Decode(&info); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch contact info")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, info)
}
