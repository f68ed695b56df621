package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"verdura/auth"
	"verdura/db"
	"verdura/models"
	"verdura/mq"
	"verdura/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const minOrderKey = "minimum_order_value"

type Handler struct {
	DB     *db.Mongo
	Auth   *auth.Handler
	Events *mq.Emitter

	// IncludeCancelled controls whether cancelled orders count towards
	// analytics and summaries.
	IncludeCancelled bool
}

func NewHandler(m *db.Mongo, a *auth.Handler, events *mq.Emitter, includeCancelled bool) *Handler {
	return &Handler{DB: m, Auth: a, Events: events, IncludeCancelled: includeCancelled}
}

// minimumOrderValue reads the configured checkout floor; a missing setting
// means no floor.
func (h *Handler) minimumOrderValue(ctx context.Context) float64 {
	var setting models.SystemSetting
	if err := h.DB.Settings.FindOne(ctx, bson.M{"key": minOrderKey}).Decode(&setting); err != nil {
		return 0
	}
	return setting.Value
}

// buildItems resolves requested products into priced order items using the
// current catalog price. It reports the first stock problem it finds.
func buildItems(ctx context.Context, products *mongo.Collection, requested []models.OrderItemRequest) ([]models.OrderItem, float64, string) {
	items := make([]models.OrderItem, 0, len(requested))
	total := 0.0
	for _, req := range requested {
		if req.Quantity <= 0 {
			return nil, 0, fmt.Sprintf("Invalid quantity for product %s", req.ProductID)
		}
		var product models.Product
		if err := products.FindOne(ctx, bson.M{"productid": req.ProductID}).Decode(&product); err != nil {
			return nil, 0, fmt.Sprintf("Product %s not found", req.ProductID)
		}
		if product.Quantity < req.Quantity {
			return nil, 0, fmt.Sprintf("Insufficient stock for %s: %d available", product.Name, product.Quantity)
		}
		lineTotal := product.Price * float64(req.Quantity)
		items = append(items, models.OrderItem{
			ProductID:   product.ProductID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			Price:       product.Price,
			Total:       lineTotal,
		})
		total += lineTotal
	}
	return items, total, ""
}

// deductStock decrements product quantities for the given items. Callers have
// already validated availability; a concurrent sale can still make this a
// best-effort step.
func deductStock(ctx context.Context, products *mongo.Collection, items []models.OrderItem) {
	for _, item := range items {
		_, err := products.UpdateOne(ctx,
			bson.M{"productid": item.ProductID},
			bson.M{"$inc": bson.M{"quantity": -item.Quantity}},
		)
		if err != nil {
			logrus.WithError(err).WithField("product", item.ProductID).Error("failed to deduct stock")
		}
	}
}

// restoreStock returns the items' quantities to the catalog, used when an
// order is edited or removed.
func restoreStock(ctx context.Context, products *mongo.Collection, items []models.OrderItem) {
	for _, item := range items {
		_, err := products.UpdateOne(ctx,
			bson.M{"productid": item.ProductID},
			bson.M{"$inc": bson.M{"quantity": item.Quantity}},
		)
		if err != nil {
			logrus.WithError(err).WithField("product", item.ProductID).Error("failed to restore stock")
		}
	}
}

// upsertUser creates or refreshes the customer record attached to an order.
// Every order carries the customer's password, so the stored hash is
// refreshed on each checkout.
func (h *Handler) upsertUser(ctx context.Context, info models.UserInfo) (string, error) {
	hashed, err := auth.HashPassword(info.Password)
	if err != nil {
		return "", err
	}

	var existing models.User
	err = h.DB.Users.FindOne(ctx, bson.M{"email": info.Email}).Decode(&existing)
	if err == nil {
		update := bson.M{
			"name":          info.Name,
			"phone":         info.Phone,
			"address":       info.Address,
			"password_hash": hashed,
		}
		if _, err := h.DB.Users.UpdateOne(ctx, bson.M{"email": info.Email}, bson.M{"$set": update}); err != nil {
			return "", err
		}
		return existing.UserID, nil
	}

	user := models.User{
		UserID:       utils.GenerateID(14),
		Name:         info.Name,
		Email:        info.Email,
		Phone:        info.Phone,
		Address:      info.Address,
		PasswordHash: hashed,
		CreatedAt:    time.Now(),
	}
	if _, err := h.DB.Users.InsertOne(ctx, user); err != nil {
		return "", err
	}
	return user.UserID, nil
}

// Create places a new order: validates stock, snapshots prices, enforces the
// minimum order value, decrements stock, and stores the order as pending.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.OrderCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.UserInfo.Name == "" || input.UserInfo.Email == "" || input.UserInfo.Phone == "" || input.UserInfo.Address == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name, email, phone and address are required")
		return
	}
	// The password gates the customer's later order lookup; an order placed
	// without one could never be retrieved again.
	if input.UserInfo.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Password is required")
		return
	}
	if len(input.Items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Order must contain at least one item")
		return
	}

	items, total, problem := buildItems(r.Context(), h.DB.Products, input.Items)
	if problem != "" {
		utils.RespondWithError(w, http.StatusBadRequest, problem)
		return
	}

	if minimum := h.minimumOrderValue(r.Context()); total < minimum {
		utils.RespondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("Order total %.2f is below the minimum order value of %.2f", total, minimum))
		return
	}

	userID, err := h.upsertUser(r.Context(), input.UserInfo)
	if err != nil {
		logrus.WithError(err).Error("failed to upsert customer")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	now := time.Now()
	order := models.Order{
		OrderID:     utils.GenerateID(16),
		UserID:      userID,
		UserName:    input.UserInfo.Name,
		UserEmail:   input.UserInfo.Email,
		UserPhone:   input.UserInfo.Phone,
		UserAddress: input.UserInfo.Address,
		Items:       items,
		TotalAmount: total,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := h.DB.Orders.InsertOne(r.Context(), order); err != nil {
		logrus.WithError(err).Error("failed to insert order")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	deductStock(r.Context(), h.DB.Products, items)
	h.Events.Emit("order.created", order.OrderID, order.Status, order.TotalAmount)

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// UserOrders returns a customer's orders after verifying their credentials.
// Credentials travel in the body so they never end up in access logs.
func (h *Handler) UserOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.UserLogin
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user, ok := h.Auth.VerifyUser(r.Context(), input.Email, input.Password)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := h.DB.Orders.Find(r.Context(), bson.M{"user_id": user.UserID}, findOpts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cursor.Close(r.Context())

	orders := []models.Order{}
	if err := cursor.All(r.Context(), &orders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode orders")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// List returns all orders for the admin dashboard, newest first, optionally
// filtered by ?status=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := h.DB.Orders.Find(r.Context(), filter, findOpts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cursor.Close(r.Context())

	orders := []models.Order{}
	if err := cursor.All(r.Context(), &orders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode orders")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// Get returns a single order by its ID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var order models.Order
	err := h.DB.Orders.FindOne(r.Context(), bson.M{"orderid": ps.ByName("id")}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// UpdateStatus sets an order's status. Any non-empty string is accepted; the
// dashboard owns the lifecycle.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input models.OrderStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Status == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Status is required")
		return
	}

	result, err := h.DB.Orders.UpdateOne(r.Context(),
		bson.M{"orderid": ps.ByName("id")},
		bson.M{"$set": bson.M{"status": input.Status, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order status")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	h.Events.Emit("order.status_changed", ps.ByName("id"), input.Status, 0)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Order status updated successfully"})
}

// replaceItems swaps an order's item list: old stock goes back, the new list
// is validated and priced fresh, new stock comes out.
func (h *Handler) replaceItems(ctx context.Context, order *models.Order, requested []models.OrderItemRequest) (string, int) {
	restoreStock(ctx, h.DB.Products, order.Items)

	items, total, problem := buildItems(ctx, h.DB.Products, requested)
	if problem != "" {
		// Put the original quantities back out so the order stays consistent.
		deductStock(ctx, h.DB.Products, order.Items)
		return problem, http.StatusBadRequest
	}

	if minimum := h.minimumOrderValue(ctx); total < minimum {
		deductStock(ctx, h.DB.Products, order.Items)
		return fmt.Sprintf("Order total %.2f is below the minimum order value of %.2f", total, minimum), http.StatusBadRequest
	}

	deductStock(ctx, h.DB.Products, items)
	order.Items = items
	order.TotalAmount = total
	return "", 0
}

// EditUser lets a customer replace the items of their own pending order. The
// body carries their credentials; only pending orders can change.
func (h *Handler) EditUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input models.OrderEdit
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if len(input.Items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Order must contain at least one item")
		return
	}

	user, ok := h.Auth.VerifyUser(r.Context(), input.Email, input.Password)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	var order models.Order
	if err := h.DB.Orders.FindOne(r.Context(), bson.M{"orderid": ps.ByName("id")}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.UserID != user.UserID {
		utils.RespondWithError(w, http.StatusForbidden, "This order belongs to another customer")
		return
	}
	if order.Status != models.StatusPending {
		utils.RespondWithError(w, http.StatusBadRequest, "Only pending orders can be edited")
		return
	}

	if msg, code := h.replaceItems(r.Context(), &order, input.Items); msg != "" {
		utils.RespondWithError(w, code, msg)
		return
	}

	h.persistEdit(w, r, &order, nil)
}

// EditAdmin lets an admin replace an order's items and contact details
// regardless of status.
func (h *Handler) EditAdmin(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input models.OrderEdit
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var order models.Order
	if err := h.DB.Orders.FindOne(r.Context(), bson.M{"orderid": ps.ByName("id")}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	if len(input.Items) > 0 {
		if msg, code := h.replaceItems(r.Context(), &order, input.Items); msg != "" {
			utils.RespondWithError(w, code, msg)
			return
		}
	}

	h.persistEdit(w, r, &order, input.UserInfo)
}

func (h *Handler) persistEdit(w http.ResponseWriter, r *http.Request, order *models.Order, info *models.UserInfo) {
	update := bson.M{
		"items":        order.Items,
		"total_amount": order.TotalAmount,
		"updated_at":   time.Now(),
	}
	if info != nil {
		if info.Name != "" {
			update["user_name"] = info.Name
		}
		if info.Phone != "" {
			update["user_phone"] = info.Phone
		}
		if info.Address != "" {
			update["user_address"] = info.Address
		}
	}

	if _, err := h.DB.Orders.UpdateOne(r.Context(), bson.M{"orderid": order.OrderID}, bson.M{"$set": update}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	h.Events.Emit("order.updated", order.OrderID, order.Status, order.TotalAmount)

	var updated models.Order
	if err := h.DB.Orders.FindOne(r.Context(), bson.M{"orderid": order.OrderID}).Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch updated order")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// Delete removes an order. Stock returns to the catalog unless the order was
// already cancelled (cancelled orders restored on cancellation by the
// dashboard workflow, not here).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var order models.Order
	if err := h.DB.Orders.FindOne(r.Context(), bson.M{"orderid": ps.ByName("id")}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	result, err := h.DB.Orders.DeleteOne(r.Context(), bson.M{"orderid": order.OrderID})
	if err != nil || result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete order")
		return
	}

	if order.Status != models.StatusCancelled {
		restoreStock(r.Context(), h.DB.Products, order.Items)
	}

	h.Events.Emit("order.deleted", order.OrderID, order.Status, order.TotalAmount)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Order deleted successfully"})
}
