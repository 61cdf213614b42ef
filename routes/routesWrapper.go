package routes

import (
	"tokri/orderfeed"
	"tokri/orders"
	"tokri/ratelim"
	"tokri/settings"
	"tokri/shipments"

	"github.com/julienschmidt/httprouter"
)

// Deps are the constructed handler instances the routes need.
type Deps struct {
	Orders    *orders.Handler
	Shipments *shipments.Handler
	Settings  *settings.Handler
	Feed      *orderfeed.Hub
}

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, deps Deps) {
	AddAuthRoutes(router, rateLimiter)
	AddUserRoutes(router, rateLimiter)
	AddProductRoutes(router, rateLimiter)
	AddCategoryRoutes(router, rateLimiter)
	AddContentRoutes(router, rateLimiter)
	AddCartRoutes(router, rateLimiter)
	AddOrderRoutes(router, rateLimiter, deps.Orders)
	AddShipmentRoutes(router, rateLimiter, deps.Shipments)
	AddSettingsRoutes(router, rateLimiter, deps.Settings)
	AddUploadRoutes(router, rateLimiter)
	AddFeedRoutes(router, rateLimiter, deps.Feed)
	AddStaticRoutes(router)
}
