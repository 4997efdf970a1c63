package routes

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"schemaforge/internal/server/middleware"
	"schemaforge/pkg/jsonld"
	"schemaforge/pkg/logger"
	"schemaforge/pkg/store"
	storepgx "schemaforge/pkg/store/pgx"
	"schemaforge/pkg/validate"

	"github.com/labstack/echo/v4"
)

// GetBatchArchiveHandler streams a ZIP of the completed batch: the full
// graph, the report, and a per-URL fragment as both raw JSON and a
// copy-paste script tag.
func GetBatchArchiveHandler(c echo.Context) error {
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

	rows, err := batches.GetRows(ctx, batch.ID)
	if err != nil {
		logger.Error("Failed to get batch rows", "batch", batch.PublicID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	archive, err := buildArchive(result, rows)
	if err != nil {
		logger.Error("Failed to build archive", "batch", batch.PublicID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s.zip"`, batch.PublicID))
	return c.Blob(http.StatusOK, "application/zip", archive)
}

func buildArchive(result store.BatchResult, rows []store.BatchRow) ([]byte, error) {
	var document struct {
		Context any             `json:"@context"`
		Graph   []jsonld.Entity `json:"@graph"`
	}
	if err := json.Unmarshal(result.Graph, &document); err != nil {
		return nil, fmt.Errorf("failed to decode stored graph: %w", err)
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	writeFile := func(name string, content []byte) error {
		f, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = f.Write(content)
		return err
	}

	if err := writeFile("graph.json", result.Graph); err != nil {
		return nil, err
	}
	if err := writeFile("report.md", []byte(result.ReportMarkdown)); err != nil {
		return nil, err
	}

	for _, row := range rows {
		// blocked and unprocessed rows stay out of the exported set;
		// the report still accounts for them
		if row.Status == store.BatchFailed || row.Status == string(validate.StatusBlock) {
			continue
		}
		entities := entitiesForURL(document.Graph, row.URL)
		if len(entities) == 0 {
			continue
		}
		fragment := map[string]any{
			"@context": jsonld.ContextURI,
			"@graph":   entities,
		}
		content, err := json.MarshalIndent(fragment, "", "  ")
		if err != nil {
			return nil, err
		}

		slug := urlSlug(row.URL)
		if err := writeFile("pages/"+slug+".json", content); err != nil {
			return nil, err
		}
		wrapped := fmt.Sprintf("<script type=\"application/ld+json\">\n%s\n</script>\n", content)
		if err := writeFile("pages/"+slug+".html", []byte(wrapped)); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// entitiesForURL selects the graph entities anchored to a page, by @id
// prefix.
func entitiesForURL(entities []jsonld.Entity, pageURL string) []jsonld.Entity {
	prefix := jsonld.NormalizeURL(pageURL) + "#"
	var out []jsonld.Entity
	for _, entity := range entities {
		if strings.HasPrefix(entity.ID(), prefix) {
			out = append(out, entity)
		}
	}
	return out
}

func urlSlug(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "page"
	}
	slug := strings.Trim(parsed.Path, "/")
	if slug == "" {
		return "index"
	}
	return strings.ReplaceAll(slug, "/", "-")
}
