package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"schemaforge/internal/storage"
	"schemaforge/internal/util"
	"schemaforge/pkg/ai"
	"schemaforge/pkg/graph"
	"schemaforge/pkg/loader"
	"schemaforge/pkg/logger"
	"schemaforge/pkg/sitemap"
	"schemaforge/pkg/store"
	storepgx "schemaforge/pkg/store/pgx"
	"schemaforge/pkg/validate"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GenerateBatchMsg is the job the API enqueues for every uploaded CSV.
type GenerateBatchMsg struct {
	Message       string `json:"message"`
	BatchPublicID string `json:"batch_public_id"`
	CSVKey        string `json:"csv_key"`
}

// ProcessGenerateMessage runs the full pipeline for one queued batch: load
// the archived CSV, process every row, persist the wired graph, the report
// and the per-row outcomes.
func ProcessGenerateMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	aiClient ai.SchemaAIClient,
	conn *pgxpool.Pool,
	msg string,
) (err error) {
	data := new(GenerateBatchMsg)
	if err = json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}

	batches := storepgx.NewBatchDBStoreWithConnection(conn)

	defer func() {
		if err == nil {
			return
		}
		updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if updateErr := batches.UpdateBatchStatus(updateCtx, data.BatchPublicID, store.BatchFailed, err.Error()); updateErr != nil {
			logger.Warn("[Queue] Failed to mark batch as failed", "batch", data.BatchPublicID, "err", updateErr)
		}
	}()

	if err = batches.UpdateBatchStatus(ctx, data.BatchPublicID, store.BatchProcessing, ""); err != nil {
		return fmt.Errorf("failed to claim batch %s: %w", data.BatchPublicID, err)
	}

	csvContent, err := storage.GetFile(ctx, s3Client, data.CSVKey)
	if err != nil {
		return err
	}
	records, err := loader.ParseBatchCSV(csvContent)
	if err != nil {
		return fmt.Errorf("failed to parse batch CSV: %w", err)
	}

	client := graph.NewBatchClient(graph.NewBatchClientParams{
		ParallelRows:     util.GetEnvInt("BATCH_PARALLEL_ROWS", 4),
		MaxRetries:       util.GetEnvInt("BATCH_ROW_RETRIES", 2),
		StructuredFormat: util.GetEnvBool("AI_STRUCTURED_FORMAT", true),
	})

	result, err := client.ProcessBatch(ctx, graph.BatchParams{
		Records:  records,
		AIClient: aiClient,
		Fetcher:  loader.NewPageFetcher(nil),
	})
	if err != nil {
		return err
	}

	graphJSON, err := json.Marshal(result.Graph.Document())
	if err != nil {
		return err
	}
	metricsJSON, err := json.Marshal(result.Metrics)
	if err != nil {
		return err
	}

	err = batches.SaveResult(ctx, store.SaveResultParams{
		PublicID:       data.BatchPublicID,
		Domain:         result.Domain,
		Graph:          graphJSON,
		ReportMarkdown: result.Report.Markdown(result.Rows),
		Notes:          result.Notes,
		Metrics:        metricsJSON,
		Rows:           buildStoreRows(records, result),
	})
	if err != nil {
		return fmt.Errorf("failed to persist batch result: %w", err)
	}

	logger.Info("[Queue] Batch completed",
		"batch", data.BatchPublicID,
		"domain", result.Domain,
		"rows", len(result.Rows),
		"skipped", len(result.Failed),
		"overall", string(result.Report.Overall()),
	)
	return nil
}

// buildStoreRows flattens the pipeline outcome into persistable rows,
// including the rows that never resolved to a type.
func buildStoreRows(records []sitemap.URLRecord, result *graph.BatchResult) []store.BatchRow {
	overridesByURL := make(map[string]map[string]string, len(records))
	overrideTypeByURL := make(map[string]string, len(records))
	for _, record := range records {
		overridesByURL[record.URL] = record.OverrideFields
		overrideTypeByURL[record.URL] = record.OverrideType
	}

	rows := make([]store.BatchRow, 0, len(result.Rows)+len(result.Failed))
	for _, row := range result.Rows {
		issues := make([]store.RowIssue, 0)
		for _, issue := range result.Report.RowIssues(row) {
			issues = append(issues, store.RowIssue{
				Rule:     issue.Rule,
				Severity: string(issue.Severity),
				Message:  issue.Message,
			})
		}
		rows = append(rows, store.BatchRow{
			URL:          row.URL,
			SchemaType:   row.Assignment.String(),
			OverrideType: overrideTypeByURL[row.URL],
			Overrides:    overridesByURL[row.URL],
			Status:       string(result.Report.RowStatus(row)),
			Issues:       issues,
			AutoFixes:    result.Report.RowFixes(row),
			ErrorMessage: errText(row),
		})
	}
	for url, ferr := range result.Failed {
		rows = append(rows, store.BatchRow{
			URL:          url,
			OverrideType: overrideTypeByURL[url],
			Overrides:    overridesByURL[url],
			Status:       store.BatchFailed,
			ErrorMessage: ferr.Error(),
		})
	}
	return rows
}

func errText(row validate.RowInput) string {
	var parts []string
	if row.GenerationErr != nil {
		parts = append(parts, row.GenerationErr.Error())
	}
	if row.ParseErr != nil {
		parts = append(parts, row.ParseErr.Error())
	}
	return strings.Join(parts, "; ")
}
