// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/picker-payroll/internal/handler"
)

// Handlers bundles everything RegisterAPI mounts.
type Handlers struct {
	Pickers    *handler.PickerHandler
	Orchards   *handler.OrchardHandler
	Prices     *handler.PriceHandler
	Packhouses *handler.PackhouseHandler
	Picks      *handler.PickHandler
	Earnings   *handler.EarningsHandler
}

// RegisterRoutes registers the unauthenticated liveness endpoints: the
// health check plus the legacy smoke-test paths.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	for _, p := range []string{"/", "/test", "/api/test", "/api/picker"} {
		e.GET(p, handler.Liveness)
	}
}

// RegisterAPI mounts the payroll API under /api. mw runs on every API
// route, typically the rate limiter and the response cache.
func RegisterAPI(e *echo.Echo, h Handlers, mw ...echo.MiddlewareFunc) {
	api := e.Group("/api", mw...)

	api.GET("/pickers/active", h.Pickers.ListActive)
	api.GET("/pickers", h.Pickers.List)
	api.GET("/pickers/:id", h.Pickers.Get)
	api.GET("/pickers/:id/picks", h.Pickers.PickHistory)
	api.POST("/picker/admin/create", h.Pickers.Create)
	api.PUT("/picker/admin/:id", h.Pickers.Update)
	api.PUT("/picker/admin/:id/status", h.Pickers.SetStatus)

	api.GET("/orchards/active", h.Orchards.ListActive)
	api.GET("/orchards/:id", h.Orchards.Get)
	api.GET("/orchards/:id/blocks", h.Orchards.ListBlocks)
	api.POST("/orchard/admin/create", h.Orchards.Create)
	api.PUT("/orchard/admin/:id", h.Orchards.Update)
	api.PUT("/orchard/admin/:id/status", h.Orchards.SetStatus)

	api.GET("/orchard-blocks/active", h.Orchards.ListActiveBlocks)
	api.GET("/orchard-blocks/:id", h.Orchards.GetBlock)
	api.POST("/orchard-block/admin/create", h.Orchards.CreateBlock)
	api.PUT("/orchard-block/admin/:id", h.Orchards.UpdateBlock)
	api.PUT("/orchard-block/admin/:id/status", h.Orchards.SetBlockStatus)

	api.GET("/apple-prices/active", h.Prices.ListActive)
	api.GET("/apple-prices/:id", h.Prices.Get)
	api.POST("/apple-price/admin/create", h.Prices.Create)
	api.PUT("/apple-price/admin/:id", h.Prices.Update)
	api.PUT("/apple-price/admin/:id/status", h.Prices.SetStatus)
	api.GET("/bin-rates/:variety", h.Prices.BinRate)

	api.GET("/packhouses/active", h.Packhouses.ListActive)
	api.GET("/packhouses/:id", h.Packhouses.Get)
	api.POST("/packhouse/admin/create", h.Packhouses.Create)
	api.PUT("/packhouse/admin/:id", h.Packhouses.Update)
	api.PUT("/packhouse/admin/:id/status", h.Packhouses.SetStatus)

	api.POST("/picks", h.Picks.Create)
	api.GET("/picks/:id", h.Picks.Get)
	api.GET("/admin/pick-records", h.Picks.ListAll)
	api.GET("/admin/picker-earnings", h.Earnings.Summary)
	api.GET("/admin/picker-earnings/export", h.Earnings.Export)
}
