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

// GetBatchesHandler lists every batch, newest first.
func GetBatchesHandler(c echo.Context) error {
	type getBatchesResponse struct {
		Message string        `json:"message"`
		Batches []store.Batch `json:"batches,omitempty"`
	}

	app := c.(*middleware.AppContext).App
	batches := storepgx.NewBatchDBStoreWithConnection(app.DBConn)

	all, err := batches.ListBatches(c.Request().Context())
	if err != nil {
		logger.Error("Failed to list batches", "err", err)
		return c.JSON(http.StatusInternalServerError, getBatchesResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getBatchesResponse{
		Message: "OK",
		Batches: all,
	})
}

// GetBatchHandler returns one batch with its per-row outcomes.
func GetBatchHandler(c echo.Context) error {
	type getBatchResponse struct {
		Message string           `json:"message"`
		Batch   *store.Batch     `json:"batch,omitempty"`
		Rows    []store.BatchRow `json:"rows,omitempty"`
	}

	app := c.(*middleware.AppContext).App
	batches := storepgx.NewBatchDBStoreWithConnection(app.DBConn)
	ctx := c.Request().Context()

	batch, err := batches.GetBatch(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, getBatchResponse{
			Message: "Batch not found",
		})
	}
	if err != nil {
		logger.Error("Failed to get batch", "err", err)
		return c.JSON(http.StatusInternalServerError, getBatchResponse{
			Message: "Internal server error",
		})
	}

	rows, err := batches.GetRows(ctx, batch.ID)
	if err != nil {
		logger.Error("Failed to get batch rows", "batch", batch.PublicID, "err", err)
		return c.JSON(http.StatusInternalServerError, getBatchResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getBatchResponse{
		Message: "OK",
		Batch:   &batch,
		Rows:    rows,
	})
}
