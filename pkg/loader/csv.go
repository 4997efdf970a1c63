// Package loader reads batch input: the uploaded CSV of URLs and the live
// pages behind them.
package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"schemaforge/pkg/sitemap"
)

// urlColumn and typeColumn are matched case-insensitively against the CSV
// header. Every other column becomes a field override handed to generation.
const (
	urlColumn  = "url"
	typeColumn = "schematype"
)

// ParseBatchCSV parses an uploaded batch CSV into URL records. The first row
// is the header and must name a URL column. Rows without a URL are skipped,
// a UTF-8 BOM is tolerated.
func ParseBatchCSV(content []byte) ([]sitemap.URLRecord, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	urlIdx, typeIdx := -1, -1
	columns := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		columns[i] = name
		switch strings.ToLower(name) {
		case urlColumn:
			urlIdx = i
		case typeColumn:
			typeIdx = i
		}
	}
	if urlIdx < 0 {
		return nil, fmt.Errorf("CSV header has no URL column")
	}

	var records []sitemap.URLRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		record := sitemap.URLRecord{}
		for i, value := range row {
			if i >= len(columns) {
				break
			}
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			switch i {
			case urlIdx:
				record.URL = value
			case typeIdx:
				record.OverrideType = value
			default:
				if record.OverrideFields == nil {
					record.OverrideFields = make(map[string]string)
				}
				record.OverrideFields[columns[i]] = value
			}
		}
		if record.URL == "" {
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file contains no URL rows")
	}
	return records, nil
}
