// =============================================================================
// Returns Analyzer - FBA Returns Feed Parser
// =============================================================================
//
// This module parses the tab-delimited FBA customer returns export
// (.txt). The feed has a single header row of fixed hyphenated column
// names (return-date, order-id, sku, ...) followed by one row per returned
// unit.
//
// The parser is deliberately thin: it produces RawRecords keyed by the raw
// feed headers and leaves every coercion (dates, quantities, reason codes)
// to the standardizer. A file that cannot be read at all is a hard error;
// sparse or empty data rows are skipped silently.
//
// =============================================================================

package fbaparser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/ginjaninja78/returns-analyzer/internal/types"
)

// Parse reads the tab-delimited feed content and returns one RawRecord per
// data row, keyed by the raw feed header.
//
// RETURNS:
//   - The extracted records (possibly empty: a header-only file is not an
//     error).
//   - An error only when the stream itself is unreadable.
func Parse(content []byte) ([]types.RawRecord, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	configureReader(reader)

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read FBA returns feed: %w", err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("FBA returns feed is empty")
	}

	headers := cleanHeaders(allRows[0])

	records := make([]types.RawRecord, 0, len(allRows)-1)
	for _, row := range allRows[1:] {
		if isRowEmpty(row) {
			continue
		}

		record := make(types.RawRecord, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[header] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// configureReader sets up the CSV reader for the feed's dialect.
func configureReader(reader *csv.Reader) {
	reader.Comma = '\t'

	// Allow variable field counts; the feed occasionally ships ragged rows.
	reader.FieldsPerRecord = -1

	// Allow quotes that don't follow strict CSV rules.
	reader.LazyQuotes = true

	reader.TrimLeadingSpace = true
}

// cleanHeaders trims whitespace from the header row.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		cleaned[i] = strings.TrimSpace(h)
	}
	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
