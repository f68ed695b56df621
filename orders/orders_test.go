package orders

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"verdura/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// Validation rejects password-less orders before any database access: an order
// placed without one could never be looked up again.
func TestCreateRequiresPassword(t *testing.T) {
	h := &Handler{}

	body, err := json.Marshal(models.OrderCreate{
		UserInfo: models.UserInfo{
			Name:    "Jane Doe",
			Email:   "jane@example.com",
			Phone:   "+1 555 0100",
			Address: "1 Market Street",
		},
		Items: []models.OrderItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	h.Create(rec, req, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "Password"), "got %q", rec.Body.String())
}

func TestStatusBreakdownPipelineHonorsFilter(t *testing.T) {
	filter := bson.M{"status": bson.M{"$ne": models.StatusCancelled}}

	pipeline := statusBreakdownPipeline(filter)
	require.NotEmpty(t, pipeline)
	assert.Equal(t, filter, pipeline[0]["$match"], "breakdown must share the summary's filter")
}

func TestAnalyticsFilterCancelledPolicy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/summary", nil)

	including := &Handler{IncludeCancelled: true}
	filter := including.analyticsFilter(req)
	assert.NotContains(t, filter, "status")

	excluding := &Handler{IncludeCancelled: false}
	filter = excluding.analyticsFilter(req)
	require.Contains(t, filter, "status")
	assert.Equal(t, bson.M{"$ne": models.StatusCancelled}, filter["status"])
}

func TestAnalyticsFilterDateRange(t *testing.T) {
	h := &Handler{IncludeCancelled: true}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/summary?from=2026-01-01&to=2026-01-31", nil)
	filter := h.analyticsFilter(req)

	require.Contains(t, filter, "created_at")
	created, ok := filter["created_at"].(bson.M)
	require.True(t, ok)

	from, ok := created["$gte"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2026, from.Year())
	assert.Equal(t, time.January, from.Month())
	assert.Equal(t, 1, from.Day())

	// "to" is inclusive: the bound is the start of the next day.
	to, ok := created["$lt"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 1, to.Day())
	assert.Equal(t, time.February, to.Month())
}

func TestAnalyticsFilterIgnoresBadDates(t *testing.T) {
	h := &Handler{IncludeCancelled: true}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/summary?from=not-a-date", nil)
	filter := h.analyticsFilter(req)
	assert.NotContains(t, filter, "created_at")
}

func TestGroupByOrDefault(t *testing.T) {
	assert.Equal(t, "product", groupByOrDefault(""))
	assert.Equal(t, "week", groupByOrDefault("week"))
}

func TestRenderInvoice(t *testing.T) {
	order := &models.Order{
		OrderID:     "ord12345",
		UserName:    "Jane Doe",
		UserEmail:   "jane@example.com",
		UserPhone:   "+1 555 0100",
		UserAddress: "1 Market Street\nSpringfield",
		Items: []models.OrderItem{
			{ProductID: "p1", ProductName: "Tomatoes", Quantity: 2, Price: 120, Total: 240},
			{ProductID: "p2", ProductName: "Basil", Quantity: 1, Price: 80, Total: 80},
		},
		TotalAmount: 320,
		Status:      models.StatusPending,
		CreatedAt:   time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
	}

	pdfBytes, err := renderInvoice(order)
	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")), "output must be a PDF document")
}
