package routes

import (
	"errors"
	"net/http"

	"schemaforge/internal/server/middleware"
	"schemaforge/pkg/logger"
	"schemaforge/pkg/store"
	storepgx "schemaforge/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// GetBatchReportHandler returns the markdown validation report of a
// completed batch.
func GetBatchReportHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	batches := storepgx.NewBatchDBStoreWithConnection(app.DBConn)
	ctx := c.Request().Context()

	batch, err := batches.GetBatch(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Batch not found"})
	}
	if err != nil {
		logger.Error("Failed to get batch", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	result, err := batches.GetResult(ctx, batch.ID)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusConflict, map[string]string{"message": "Batch has no result yet"})
	}
	if err != nil {
		logger.Error("Failed to get batch result", "batch", batch.PublicID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(result.ReportMarkdown))
}
