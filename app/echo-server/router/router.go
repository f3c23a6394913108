package router

import (
	"github.com/labstack/echo/v4"
	"github.com/zachorg/SwipeCore-sub002/internal/rest"
)

func SetupTrackingRoutes(api *echo.Group, handler *rest.TrackerHandler, authRequired echo.MiddlewareFunc) {
	tracking := api.Group("/prefetch", authRequired)

	tracking.POST("/track/view", handler.TrackView)
	tracking.POST("/track/swipe", handler.TrackSwipe)
	tracking.POST("/track/detail", handler.TrackDetail)
	tracking.POST("/track/photo", handler.TrackPhoto)
	tracking.POST("/session/end", handler.EndSession)
	tracking.GET("/signals", handler.Signals)
}

func SetupPrefetchRoutes(api *echo.Group, handler *rest.PrefetchHandler, authRequired echo.MiddlewareFunc) {
	prefetch := api.Group("/prefetch", authRequired)

	prefetch.POST("/score", handler.Score)
	prefetch.POST("/optimize", handler.Optimize)
	prefetch.POST("/events", handler.ReportEvents)
}

func SetupAnalyticsRoutes(api *echo.Group, handler *rest.AnalyticsHandler, authRequired echo.MiddlewareFunc) {
	analytics := api.Group("/prefetch/analytics", authRequired)

	analytics.GET("", handler.Get)
	analytics.GET("/events", handler.Events)
	analytics.GET("/export", handler.Export)
	analytics.DELETE("", handler.Clear)
}

func SetupAdminRoutes(api *echo.Group, handler *rest.EngineAdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/prefetch", authRequired, adminOnly)

	admin.GET("/config", handler.GetConfig)
	admin.PUT("/config", handler.UpsertConfig)
}
