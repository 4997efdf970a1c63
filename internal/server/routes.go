package server

import (
	"schemaforge/internal/server/middleware"
	"schemaforge/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Batch routes
	apiRoutes.POST("/batches", routes.CreateBatchHandler)
	apiRoutes.GET("/batches", routes.GetBatchesHandler)
	apiRoutes.GET("/batches/:id", routes.GetBatchHandler)
	apiRoutes.GET("/batches/:id/report", routes.GetBatchReportHandler)
	apiRoutes.GET("/batches/:id/archive", routes.GetBatchArchiveHandler)
	apiRoutes.DELETE("/batches/:id", routes.DeleteBatchHandler)
}
