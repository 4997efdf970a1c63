// Package store defines the persistence interface for batches, their rows
// and the wired result, with a PostgreSQL implementation in the pgx
// subpackage.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a batch or result does not exist.
var ErrNotFound = errors.New("not found")

// Batch statuses, in lifecycle order.
const (
	BatchPending    = "pending"
	BatchProcessing = "processing"
	BatchCompleted  = "completed"
	BatchFailed     = "failed"
)

// Batch is one uploaded CSV and its processing state.
type Batch struct {
	ID           int64      `json:"id"`
	PublicID     string     `json:"public_id"`
	Domain       string     `json:"domain"`
	Status       string     `json:"status"`
	CSVKey       string     `json:"-"`
	RowCount     int        `json:"row_count"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// BatchRow is one URL's outcome within a batch.
type BatchRow struct {
	ID           int64             `json:"id"`
	BatchID      int64             `json:"-"`
	URL          string            `json:"url"`
	SchemaType   string            `json:"schema_type"`
	OverrideType string            `json:"override_type,omitempty"`
	Overrides    map[string]string `json:"overrides,omitempty"`
	Status       string            `json:"status"`
	Issues       []RowIssue        `json:"issues,omitempty"`
	AutoFixes    []string          `json:"auto_fixes,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// RowIssue is one validator finding, stored alongside the row.
type RowIssue struct {
	Rule     int    `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// BatchResult holds the wired graph and report for a completed batch.
type BatchResult struct {
	BatchID        int64           `json:"-"`
	Graph          json.RawMessage `json:"graph"`
	ReportMarkdown string          `json:"report_markdown"`
	Notes          []string        `json:"notes,omitempty"`
	Metrics        json.RawMessage `json:"metrics,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateBatchParams defines the fields needed to register an uploaded batch.
type CreateBatchParams struct {
	PublicID string
	CSVKey   string
	RowCount int
}

// SaveResultParams carries everything persisted when a batch finishes: the
// result document, the per-row outcomes, and the batch-level rollup.
type SaveResultParams struct {
	PublicID       string
	Domain         string
	Graph          json.RawMessage
	ReportMarkdown string
	Notes          []string
	Metrics        json.RawMessage
	Rows           []BatchRow
}

// BatchStore persists batches through their lifecycle. Implementations must
// be safe for concurrent use; the worker and the API share one store.
type BatchStore interface {
	CreateBatch(ctx context.Context, params CreateBatchParams) (Batch, error)
	GetBatch(ctx context.Context, publicID string) (Batch, error)
	ListBatches(ctx context.Context) ([]Batch, error)
	UpdateBatchStatus(ctx context.Context, publicID, status, errorMessage string) error

	// SaveResult atomically stores the result document, replaces the
	// batch's rows and marks the batch completed.
	SaveResult(ctx context.Context, params SaveResultParams) error

	GetRows(ctx context.Context, batchID int64) ([]BatchRow, error)
	GetResult(ctx context.Context, batchID int64) (BatchResult, error)

	DeleteBatch(ctx context.Context, publicID string) error
}
