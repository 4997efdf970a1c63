// Package pgx implements store.BatchStore on PostgreSQL.
package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"schemaforge/pkg/store"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// BatchDBStore implements store.BatchStore on a pgx connection pool.
//
// A BatchDBStore should be created using NewBatchDBStoreWithConnection.
type BatchDBStore struct {
	conn pgxIConn
}

// NewBatchDBStoreWithConnection creates a BatchDBStore using an existing
// database connection or pool.
func NewBatchDBStoreWithConnection(conn pgxIConn) *BatchDBStore {
	return &BatchDBStore{conn: conn}
}

const batchColumns = `id, public_id, domain, status, csv_key, row_count, error_message, created_at, updated_at, completed_at`

func scanBatch(row pgxv5.Row) (store.Batch, error) {
	var b store.Batch
	err := row.Scan(
		&b.ID, &b.PublicID, &b.Domain, &b.Status, &b.CSVKey, &b.RowCount,
		&b.ErrorMessage, &b.CreatedAt, &b.UpdatedAt, &b.CompletedAt,
	)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return store.Batch{}, store.ErrNotFound
	}
	return b, err
}

func (s *BatchDBStore) CreateBatch(ctx context.Context, params store.CreateBatchParams) (store.Batch, error) {
	return scanBatch(s.conn.QueryRow(ctx, `
		INSERT INTO batches (public_id, csv_key, row_count)
		VALUES ($1, $2, $3)
		RETURNING `+batchColumns,
		params.PublicID, params.CSVKey, params.RowCount,
	))
}

func (s *BatchDBStore) GetBatch(ctx context.Context, publicID string) (store.Batch, error) {
	return scanBatch(s.conn.QueryRow(ctx,
		`SELECT `+batchColumns+` FROM batches WHERE public_id = $1`,
		publicID,
	))
}

func (s *BatchDBStore) ListBatches(ctx context.Context) ([]store.Batch, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT `+batchColumns+` FROM batches ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := make([]store.Batch, 0)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func (s *BatchDBStore) UpdateBatchStatus(ctx context.Context, publicID, status, errorMessage string) error {
	tag, err := s.conn.Exec(ctx, `
		UPDATE batches
		SET status = $2, error_message = $3, updated_at = now(),
		    completed_at = CASE WHEN $2 IN ('completed', 'failed') THEN now() ELSE completed_at END
		WHERE public_id = $1`,
		publicID, status, errorMessage,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SaveResult stores the finished batch in one transaction: the result
// document is upserted, the rows replaced, and the batch marked completed.
func (s *BatchDBStore) SaveResult(ctx context.Context, params store.SaveResultParams) error {
	batch, err := s.GetBatch(ctx, params.PublicID)
	if err != nil {
		return err
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	notes, err := json.Marshal(params.Notes)
	if err != nil {
		return err
	}
	metrics := params.Metrics
	if len(metrics) == 0 {
		metrics = json.RawMessage("{}")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO batch_results (batch_id, graph, report_markdown, notes, metrics)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (batch_id) DO UPDATE
		SET graph = EXCLUDED.graph, report_markdown = EXCLUDED.report_markdown,
		    notes = EXCLUDED.notes, metrics = EXCLUDED.metrics, created_at = now()`,
		batch.ID, []byte(params.Graph), params.ReportMarkdown, notes, []byte(metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to save batch result: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM batch_rows WHERE batch_id = $1`, batch.ID); err != nil {
		return err
	}
	for _, row := range params.Rows {
		if err = insertRow(ctx, tx, batch.ID, row); err != nil {
			return fmt.Errorf("failed to save row %s: %w", row.URL, err)
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE batches
		SET domain = $2, status = $3, row_count = $4, error_message = '',
		    updated_at = now(), completed_at = now()
		WHERE id = $1`,
		batch.ID, params.Domain, store.BatchCompleted, len(params.Rows),
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertRow(ctx context.Context, tx pgxv5.Tx, batchID int64, row store.BatchRow) error {
	overrides, err := json.Marshal(orEmptyMap(row.Overrides))
	if err != nil {
		return err
	}
	issues, err := json.Marshal(orEmptyIssues(row.Issues))
	if err != nil {
		return err
	}
	fixes, err := json.Marshal(orEmptyStrings(row.AutoFixes))
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO batch_rows
			(batch_id, url, schema_type, override_type, overrides, status, issues, auto_fixes, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		batchID, row.URL, row.SchemaType, row.OverrideType,
		overrides, row.Status, issues, fixes, row.ErrorMessage,
	)
	return err
}

func (s *BatchDBStore) GetRows(ctx context.Context, batchID int64) ([]store.BatchRow, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, batch_id, url, schema_type, override_type, overrides, status, issues, auto_fixes, error_message
		FROM batch_rows WHERE batch_id = $1 ORDER BY id`,
		batchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]store.BatchRow, 0)
	for rows.Next() {
		var (
			r         store.BatchRow
			overrides []byte
			issues    []byte
			fixes     []byte
		)
		err := rows.Scan(
			&r.ID, &r.BatchID, &r.URL, &r.SchemaType, &r.OverrideType,
			&overrides, &r.Status, &issues, &fixes, &r.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(overrides, &r.Overrides); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(issues, &r.Issues); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(fixes, &r.AutoFixes); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *BatchDBStore) GetResult(ctx context.Context, batchID int64) (store.BatchResult, error) {
	var (
		result store.BatchResult
		graph  []byte
		notes  []byte
	)
	err := s.conn.QueryRow(ctx, `
		SELECT batch_id, graph, report_markdown, notes, metrics, created_at
		FROM batch_results WHERE batch_id = $1`,
		batchID,
	).Scan(&result.BatchID, &graph, &result.ReportMarkdown, &notes, (*[]byte)(&result.Metrics), &result.CreatedAt)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return store.BatchResult{}, store.ErrNotFound
	}
	if err != nil {
		return store.BatchResult{}, err
	}
	result.Graph = json.RawMessage(graph)
	if err := json.Unmarshal(notes, &result.Notes); err != nil {
		return store.BatchResult{}, err
	}
	return result, nil
}

// DeleteBatch removes the batch; rows and results cascade.
func (s *BatchDBStore) DeleteBatch(ctx context.Context, publicID string) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM batches WHERE public_id = $1`, publicID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func orEmptyIssues(issues []store.RowIssue) []store.RowIssue {
	if issues == nil {
		return []store.RowIssue{}
	}
	return issues
}

func orEmptyStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
