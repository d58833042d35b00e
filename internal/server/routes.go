package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jerusalem-70-ad/jad-builder/internal/server/middleware"
	"github.com/jerusalem-70-ad/jad-builder/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo, app *middleware.App, apiKey string) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	if app.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(app.Metrics.Handler()))
	}

	apiRoutes := e.Group("/api")

	// Passage graph routes
	apiRoutes.GET("/passages/:id/graph", routes.GetGraphHandler)
	apiRoutes.GET("/passages/:id/related", routes.GetRelatedHandler)

	// Build routes
	apiRoutes.POST("/rebuild", routes.PostRebuildHandler, middleware.APIKeyMiddleware(apiKey))
}
