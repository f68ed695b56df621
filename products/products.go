package products

import (
	"encoding/json"
	"fmt"
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

const cacheKeyPrefix = "products:list:"

type Handler struct {
	DB    *db.Mongo
	Cache *rdx.Conn
}

func NewHandler(m *db.Mongo, cache *rdx.Conn) *Handler {
	return &Handler{DB: m, Cache: cache}
}

func (h *Handler) invalidateLists() {
	// Per-category keys are not tracked; just drop the all-products key and
	// let category lists expire on their own TTL.
	h.Cache.Del(cacheKeyPrefix + "all")
}

// List returns products sorted by display order, optionally filtered by
// category via ?category_id=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	categoryID := r.URL.Query().Get("category_id")

	filter := bson.M{}
	key := cacheKeyPrefix + "all"
	if categoryID != "" {
		filter["category_id"] = categoryID
		key = cacheKeyPrefix + categoryID
	}

	if cached, ok := h.Cache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(cached))
		return
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}})
	cursor, err := h.DB.Products.Find(r.Context(), filter, findOpts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	defer cursor.Close(r.Context())

	products := []models.Product{}
	if err := cursor.All(r.Context(), &products); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode products")
		return
	}

	if data, err := json.Marshal(products); err == nil {
		h.Cache.Set(key, string(data), 2*time.Minute)
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

// Get returns a single product by its ID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var product models.Product
	err := h.DB.Products.FindOne(r.Context(), bson.M{"productid": ps.ByName("id")}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// Create inserts a new product. The category must exist.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.ProductCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := validateProductInput(input.Name, input.Price, input.Quantity); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	if input.CategoryID != "" {
		count, err := h.DB.Categories.CountDocuments(r.Context(), bson.M{"categoryid": input.CategoryID})
		if err != nil || count == 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Category does not exist")
			return
		}
	}

	count, err := h.DB.Products.CountDocuments(r.Context(), bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	product := models.Product{
		ProductID:   utils.GenerateID(14),
		Name:        input.Name,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Order:       int(count),
		CreatedAt:   time.Now(),
	}
	if _, err := h.DB.Products.InsertOne(r.Context(), product); err != nil {
		logrus.WithError(err).Error("failed to insert product")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	h.invalidateLists()
	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// Update applies the provided fields to an existing product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input models.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	updateFields := bson.M{}
	if input.Name != nil {
		if *input.Name == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Product name cannot be empty")
			return
		}
		updateFields["name"] = *input.Name
	}
	if input.Description != nil {
		updateFields["description"] = *input.Description
	}
	if input.CategoryID != nil {
		if *input.CategoryID != "" {
			count, err := h.DB.Categories.CountDocuments(r.Context(), bson.M{"categoryid": *input.CategoryID})
			if err != nil || count == 0 {
				utils.RespondWithError(w, http.StatusBadRequest, "Category does not exist")
				return
			}
		}
		updateFields["category_id"] = *input.CategoryID
	}
	if input.Price != nil {
		if *input.Price < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Price cannot be negative")
			return
		}
		updateFields["price"] = *input.Price
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Quantity cannot be negative")
			return
		}
		updateFields["quantity"] = *input.Quantity
	}
	if len(updateFields) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	result, err := h.DB.Products.UpdateOne(r.Context(),
		bson.M{"productid": ps.ByName("id")},
		bson.M{"$set": updateFields},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	h.invalidateLists()

	var product models.Product
	if err := h.DB.Products.FindOne(r.Context(), bson.M{"productid": ps.ByName("id")}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch updated product")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// Delete removes a product. Existing orders keep their item snapshots.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := h.DB.Products.DeleteOne(r.Context(), bson.M{"productid": ps.ByName("id")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	h.invalidateLists()
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// Reorder persists a new display order for the given products.
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
		result, err := h.DB.Products.UpdateOne(r.Context(),
			bson.M{"productid": item.ID},
			bson.M{"$set": bson.M{"order": item.Order}},
		)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reorder products")
			return
		}
		updated += int(result.MatchedCount)
	}

	h.invalidateLists()
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Products reordered successfully",
		"updated": updated,
	})
}

// ValidateStock checks requested quantities against live stock without
// reserving anything. The storefront calls this before checkout.
func (h *Handler) ValidateStock(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.StockValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if len(input.Items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No items to validate")
		return
	}

	invalid := []models.InvalidStockItem{}
	for _, item := range input.Items {
		var product models.Product
		err := h.DB.Products.FindOne(r.Context(), bson.M{"productid": item.ProductID}).Decode(&product)
		if err != nil {
			invalid = append(invalid, models.InvalidStockItem{
				ProductID:         item.ProductID,
				RequestedQuantity: item.Quantity,
				Error:             "Product not found",
			})
			continue
		}
		if item.Quantity <= 0 {
			invalid = append(invalid, models.InvalidStockItem{
				ProductID:         item.ProductID,
				ProductName:       product.Name,
				RequestedQuantity: item.Quantity,
				AvailableQuantity: product.Quantity,
				Error:             "Quantity must be positive",
			})
			continue
		}
		if product.Quantity < item.Quantity {
			invalid = append(invalid, models.InvalidStockItem{
				ProductID:         item.ProductID,
				ProductName:       product.Name,
				RequestedQuantity: item.Quantity,
				AvailableQuantity: product.Quantity,
				Error:             fmt.Sprintf("Only %d in stock", product.Quantity),
			})
		}
	}

	resp := models.StockValidationResponse{
		Valid:        len(invalid) == 0,
		Message:      "All items are in stock",
		InvalidItems: invalid,
	}
	if !resp.Valid {
		resp.Message = fmt.Sprintf("%d item(s) have stock issues", len(invalid))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func validateProductInput(name string, price float64, quantity int) string {
	if name == "" {
		return "Product name is required"
	}
	if price < 0 {
		return "Price cannot be negative"
	}
	if quantity < 0 {
		return "Quantity cannot be negative"
	}
	return ""
}
