package routes

import (
	"net/http"

	"tokri/auth"
	"tokri/cart"
	"tokri/categories"
	"tokri/content"
	"tokri/middleware"
	"tokri/orderfeed"
	"tokri/orders"
	"tokri/products"
	"tokri/ratelim"
	"tokri/settings"
	"tokri/shipments"
	"tokri/uploads"
	"tokri/users"
	"tokri/variations"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rateLimiter.Limit(auth.Register))
	router.POST("/api/auth/login", rateLimiter.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.POST("/api/auth/token/refresh", rateLimiter.Limit(auth.RefreshToken))
}

func AddUserRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/users/me", middleware.Authenticate(users.GetProfile))
	router.PUT("/api/users/me", middleware.Authenticate(users.UpdateProfile))
	router.POST("/api/users/me/addresses", middleware.Authenticate(users.AddAddress))
	router.DELETE("/api/users/me/addresses/:label", middleware.Authenticate(users.RemoveAddress))
	router.GET("/api/users", middleware.AdminOnly(users.ListUsers))
}

func AddProductRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/products", rateLimiter.Limit(products.GetProducts))
	router.GET("/api/products/:productid", rateLimiter.Limit(products.GetProduct))
	router.GET("/api/p/:slug", rateLimiter.Limit(products.GetProductBySlug))
	router.POST("/api/products", middleware.AdminOnly(products.CreateProduct))
	router.PUT("/api/products/:productid", middleware.AdminOnly(products.UpdateProduct))
	router.PUT("/api/products/:productid/stock", middleware.AdminOnly(products.SetStock))
	router.DELETE("/api/products/:productid", middleware.AdminOnly(products.DeleteProduct))

	router.GET("/api/products/:productid/variations", rateLimiter.Limit(variations.GetVariations))
	router.POST("/api/products/:productid/variations", middleware.AdminOnly(variations.CreateVariation))
	router.PUT("/api/variations/:variationid", middleware.AdminOnly(variations.UpdateVariation))
	router.DELETE("/api/variations/:variationid", middleware.AdminOnly(variations.DeleteVariation))
}

func AddCategoryRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/categories", rateLimiter.Limit(categories.GetCategories))
	router.POST("/api/categories", middleware.AdminOnly(categories.CreateCategory))
	router.PUT("/api/categories/:categoryid", middleware.AdminOnly(categories.UpdateCategory))
	router.DELETE("/api/categories/:categoryid", middleware.AdminOnly(categories.DeleteCategory))
}

func AddContentRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/sliders", rateLimiter.Limit(content.GetSliders))
	router.POST("/api/sliders", middleware.AdminOnly(content.CreateSlider))
	router.PUT("/api/sliders/:sliderid", middleware.AdminOnly(content.UpdateSlider))
	router.DELETE("/api/sliders/:sliderid", middleware.AdminOnly(content.DeleteSlider))

	router.GET("/api/pages", rateLimiter.Limit(content.GetPages))
	router.GET("/api/pages/:slug", rateLimiter.Limit(content.GetPageBySlug))
	router.POST("/api/pages", middleware.AdminOnly(content.CreatePage))
	router.PUT("/api/pages/:pageid", middleware.AdminOnly(content.UpdatePage))
	router.DELETE("/api/pages/:pageid", middleware.AdminOnly(content.DeletePage))
}

func AddCartRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
	router.POST("/api/cart", middleware.Authenticate(cart.AddToCart))
	router.DELETE("/api/cart/:productid", middleware.Authenticate(cart.RemoveFromCart))
	router.DELETE("/api/cart", middleware.Authenticate(cart.ClearCart))
}

func AddOrderRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, h *orders.Handler) {
	router.POST("/api/orders", rateLimiter.Limit(middleware.OptionalAuth(h.CreateOrder)))
	router.GET("/api/orders", middleware.Authenticate(h.GetOrders))
	router.GET("/api/orders/:orderid", middleware.Authenticate(h.GetOrder))
	router.GET("/api/orders/:orderid/invoice", middleware.Authenticate(h.Invoice))
	router.PUT("/api/orders/:orderid/status", middleware.AdminOnly(h.UpdateOrderStatus))

	// Gateway callbacks carry their own transaction proof, never a JWT.
	router.POST("/api/orders/ssl-success", rateLimiter.Limit(h.SSLSuccess))
	router.POST("/api/orders/ssl-fail", rateLimiter.Limit(h.SSLFail))
	router.POST("/api/orders/ssl-cancel", rateLimiter.Limit(h.SSLCancel))
	router.POST("/api/orders/ssl-ipn", rateLimiter.Limit(h.SSLIPN))
}

func AddShipmentRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, h *shipments.Handler) {
	router.POST("/api/couriers/:provider/shipments", middleware.AdminOnly(h.CreateShipment))
	router.POST("/api/couriers/:provider/shipments/bulk", middleware.AdminOnly(h.BulkCreate))
	router.POST("/api/couriers/:provider/quote", rateLimiter.Limit(h.Quote))
	router.POST("/api/couriers/:provider/webhook", rateLimiter.Limit(h.Webhook))

	router.GET("/api/shipments", middleware.AdminOnly(h.ListShipments))
	router.GET("/api/shipments/:shipmentid", middleware.AdminOnly(h.GetShipment))
	router.GET("/api/shipments/:shipmentid/status", middleware.AdminOnly(h.GetStatus))
}

func AddSettingsRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, h *settings.Handler) {
	router.GET("/api/settings", middleware.AdminOnly(h.GetSettings))
	router.PUT("/api/settings", middleware.AdminOnly(h.UpdateSettings))
	router.PUT("/api/settings/payment-methods/:name", middleware.AdminOnly(h.UpdatePaymentMethod))
	router.PUT("/api/settings/couriers/:name", middleware.AdminOnly(h.UpdateCourier))
}

func AddUploadRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/uploads", middleware.AdminOnly(uploads.UploadImages))
}

func AddFeedRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, hub *orderfeed.Hub) {
	router.GET("/api/orderfeed/ws", middleware.AdminOnly(hub.HandleWS))
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/uploads/*filepath", http.Dir(uploads.UploadDir))
}
