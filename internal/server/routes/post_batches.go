package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"schemaforge/internal/queue"
	"schemaforge/internal/server/middleware"
	"schemaforge/internal/storage"
	"schemaforge/pkg/loader"
	"schemaforge/pkg/logger"
	"schemaforge/pkg/store"
	storepgx "schemaforge/pkg/store/pgx"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CreateBatchHandler accepts a CSV upload, archives it, registers the batch
// and enqueues it for generation.
func CreateBatchHandler(c echo.Context) error {
	type createBatchResponse struct {
		Message string       `json:"message"`
		Batch   *store.Batch `json:"batch,omitempty"`
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, createBatchResponse{
			Message: "Invalid request body",
		})
	}
	uploads := form.File["file"]
	if len(uploads) != 1 {
		return c.JSON(http.StatusBadRequest, createBatchResponse{
			Message: "Exactly one CSV file is required",
		})
	}

	src, err := uploads[0].Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, createBatchResponse{
			Message: "Invalid request body",
		})
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, createBatchResponse{
			Message: "Invalid request body",
		})
	}

	// reject unusable CSVs before anything is stored
	records, err := loader.ParseBatchCSV(content)
	if err != nil {
		return c.JSON(http.StatusBadRequest, createBatchResponse{
			Message: err.Error(),
		})
	}

	publicID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createBatchResponse{
			Message: "Internal server error",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	csvKey, err := storage.PutFile(ctx, app.S3, publicID, "input.csv", bytes.NewReader(content))
	if err != nil {
		logger.Error("Failed to archive batch CSV", "err", err)
		return c.JSON(http.StatusInternalServerError, createBatchResponse{
			Message: "Internal server error",
		})
	}

	batches := storepgx.NewBatchDBStoreWithConnection(app.DBConn)
	batch, err := batches.CreateBatch(ctx, store.CreateBatchParams{
		PublicID: publicID,
		CSVKey:   csvKey,
		RowCount: len(records),
	})
	if err != nil {
		logger.Error("Failed to create batch", "err", err)
		return c.JSON(http.StatusInternalServerError, createBatchResponse{
			Message: "Internal server error",
		})
	}

	msgBytes, err := json.Marshal(queue.GenerateBatchMsg{
		Message:       "Batch uploaded",
		BatchPublicID: publicID,
		CSVKey:        csvKey,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createBatchResponse{
			Message: "Internal server error",
		})
	}
	if err := queue.PublishFIFO(app.Queue, queue.GenerateQueue, msgBytes); err != nil {
		logger.Error("Failed to enqueue batch", "batch", publicID, "err", err)
		return c.JSON(http.StatusInternalServerError, createBatchResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, createBatchResponse{
		Message: "Batch accepted",
		Batch:   &batch,
	})
}
