package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"verdura/auth"
	"verdura/categories"
	"verdura/contact"
	"verdura/content"
	"verdura/live"
	"verdura/middleware"
	"verdura/orders"
	"verdura/products"
	"verdura/ratelim"
	"verdura/recipes"
	"verdura/settings"
	"verdura/uploads"

	"github.com/stretchr/testify/assert"
)

// testRouter builds the full route table with empty handlers. The auth
// middleware rejects unauthenticated admin requests before any handler runs,
// so no database is needed for these checks.
func testRouter() http.Handler {
	authMW := middleware.NewAuth("test-secret")
	return New(Handlers{
		Auth:       &auth.Handler{},
		Categories: &categories.Handler{},
		Products:   &products.Handler{},
		Orders:     &orders.Handler{},
		Content:    &content.Handler{},
		Contact:    &contact.Handler{},
		Recipes:    &recipes.Handler{},
		Settings:   &settings.Handler{},
		Uploads:    &uploads.Handler{},
		Hub:        live.NewHub(),
	}, authMW, ratelim.NewRateLimiter())
}

func TestHealthRoute(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router := testRouter()

	adminRequests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/admin/categories"},
		{http.MethodPut, "/api/admin/categories/c1"},
		{http.MethodDelete, "/api/admin/products/p1"},
		{http.MethodPut, "/api/admin/reorder/categories"},
		{http.MethodGet, "/api/admin/orders"},
		{http.MethodPut, "/api/admin/orders/o1/status"},
		{http.MethodGet, "/api/admin/orders/o1/invoice"},
		{http.MethodGet, "/api/admin/analytics/summary"},
		{http.MethodGet, "/api/admin/analytics/sales"},
		{http.MethodPut, "/api/admin/contact"},
		{http.MethodPut, "/api/admin/settings/minimum_order_value"},
		{http.MethodPost, "/api/admin/recipes/r1/pdf"},
	}

	for _, tt := range adminRequests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tt.method, tt.path)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
