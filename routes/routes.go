package routes

import (
	"net/http"

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
	"verdura/utils"

	"github.com/julienschmidt/httprouter"
)

// Handlers collects every handler the router wires up.
type Handlers struct {
	Auth       *auth.Handler
	Categories *categories.Handler
	Products   *products.Handler
	Orders     *orders.Handler
	Content    *content.Handler
	Contact    *contact.Handler
	Recipes    *recipes.Handler
	Settings   *settings.Handler
	Uploads    *uploads.Handler
	Hub        *live.Hub
}

// New builds the full route table. Admin routes sit behind bearer auth; the
// abuse-prone public routes sit behind the per-IP rate limiter.
func New(h Handlers, authMW *middleware.Auth, rl *ratelim.RateLimiter) *httprouter.Router {
	router := httprouter.New()

	router.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	addAuthRoutes(router, h, rl)
	addCatalogRoutes(router, h, authMW)
	addOrderRoutes(router, h, authMW, rl)
	addContentRoutes(router, h, authMW)
	addUploadRoutes(router, h, authMW)
	addStaticRoutes(router)

	return router
}

func addAuthRoutes(router *httprouter.Router, h Handlers, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/login", rl.Limit(h.Auth.AdminLogin))
	router.POST("/api/auth/user/login", rl.Limit(h.Auth.UserLogin))
}

func addCatalogRoutes(router *httprouter.Router, h Handlers, authMW *middleware.Auth) {
	router.GET("/api/categories", h.Categories.List)
	router.GET("/api/categories/:id", h.Categories.Get)
	router.POST("/api/admin/categories", authMW.Authenticate(h.Categories.Create))
	router.PUT("/api/admin/categories/:id", authMW.Authenticate(h.Categories.Update))
	router.DELETE("/api/admin/categories/:id", authMW.Authenticate(h.Categories.Delete))

	router.GET("/api/products", h.Products.List)
	router.GET("/api/products/:id", h.Products.Get)
	router.POST("/api/products/validate-stock", h.Products.ValidateStock)
	router.POST("/api/admin/products", authMW.Authenticate(h.Products.Create))
	router.PUT("/api/admin/products/:id", authMW.Authenticate(h.Products.Update))
	router.DELETE("/api/admin/products/:id", authMW.Authenticate(h.Products.Delete))

	// Reorder endpoints get their own prefix; a literal "reorder" segment
	// would clash with the :id routes above in the router's tree.
	router.PUT("/api/admin/reorder/categories", authMW.Authenticate(h.Categories.Reorder))
	router.PUT("/api/admin/reorder/products", authMW.Authenticate(h.Products.Reorder))
}

func addOrderRoutes(router *httprouter.Router, h Handlers, authMW *middleware.Auth, rl *ratelim.RateLimiter) {
	router.POST("/api/orders", rl.Limit(h.Orders.Create))
	router.POST("/api/orders/user", rl.Limit(h.Orders.UserOrders))
	router.PUT("/api/orders/:id/edit", h.Orders.EditUser)

	router.GET("/api/admin/orders", authMW.Authenticate(h.Orders.List))
	router.GET("/api/admin/orders/:id", authMW.Authenticate(h.Orders.Get))
	router.PUT("/api/admin/orders/:id/status", authMW.Authenticate(h.Orders.UpdateStatus))
	router.PUT("/api/admin/orders/:id/edit", authMW.Authenticate(h.Orders.EditAdmin))
	router.DELETE("/api/admin/orders/:id", authMW.Authenticate(h.Orders.Delete))
	router.GET("/api/admin/orders/:id/invoice", authMW.Authenticate(h.Orders.Invoice))

	// Analytics live under their own prefix so the :id routes above stay
	// unambiguous.
	router.GET("/api/admin/analytics/summary", authMW.Authenticate(h.Orders.Summary))
	router.GET("/api/admin/analytics/sales", authMW.Authenticate(h.Orders.Analytics))

	// The websocket feed authenticates via bearer token like any admin route.
	router.GET("/api/admin/live", authMW.Authenticate(h.Hub.ServeWS))
}

func addContentRoutes(router *httprouter.Router, h Handlers, authMW *middleware.Auth) {
	router.GET("/api/content", h.Content.List)
	router.GET("/api/content/:id", h.Content.Get)
	router.POST("/api/admin/content", authMW.Authenticate(h.Content.Create))
	router.PUT("/api/admin/content/:id", authMW.Authenticate(h.Content.Update))
	router.DELETE("/api/admin/content/:id", authMW.Authenticate(h.Content.Delete))

	router.GET("/api/contact", h.Contact.Get)
	router.PUT("/api/admin/contact", authMW.Authenticate(h.Contact.Update))

	router.GET("/api/recipes", h.Recipes.List)
	router.GET("/api/recipes/:id", h.Recipes.Get)
	router.POST("/api/admin/recipes", authMW.Authenticate(h.Recipes.Create))
	router.PUT("/api/admin/recipes/:id", authMW.Authenticate(h.Recipes.Update))
	router.DELETE("/api/admin/recipes/:id", authMW.Authenticate(h.Recipes.Delete))

	router.GET("/api/settings", h.Settings.List)
	router.GET("/api/settings/:key", h.Settings.Get)
	router.PUT("/api/admin/settings/:key", authMW.Authenticate(h.Settings.Update))
}

func addUploadRoutes(router *httprouter.Router, h Handlers, authMW *middleware.Auth) {
	router.POST("/api/admin/categories/:id/image", authMW.Authenticate(h.Uploads.CategoryImage))
	router.POST("/api/admin/products/:id/image", authMW.Authenticate(h.Uploads.ProductImage))
	router.POST("/api/admin/content/:id/logo", authMW.Authenticate(h.Uploads.ContentLogo))
	router.POST("/api/admin/recipes/:id/image", authMW.Authenticate(h.Uploads.RecipeImage))
	router.POST("/api/admin/recipes/:id/pdf", authMW.Authenticate(h.Uploads.RecipePDF))
}

func addStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/*filepath", http.Dir("static"))
}
