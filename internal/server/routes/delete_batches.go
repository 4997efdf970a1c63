package routes

import (
	"errors"
	"net/http"

	"schemaforge/internal/server/middleware"
	"schemaforge/internal/storage"
	"schemaforge/pkg/logger"
	"schemaforge/pkg/store"
	storepgx "schemaforge/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// DeleteBatchHandler removes a batch, its rows, its result and every
// archived file.
func DeleteBatchHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	batches := storepgx.NewBatchDBStoreWithConnection(app.DBConn)
	ctx := c.Request().Context()
	publicID := c.Param("id")

	err := batches.DeleteBatch(ctx, publicID)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Batch not found"})
	}
	if err != nil {
		logger.Error("Failed to delete batch", "batch", publicID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	if err := storage.DeleteFolder(ctx, app.S3, "batches/"+publicID); err != nil {
		logger.Warn("Failed to delete batch files", "batch", publicID, "err", err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Batch deleted"})
}
