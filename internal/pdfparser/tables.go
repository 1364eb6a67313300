// =============================================================================
// Returns Analyzer - Table Extractor
// =============================================================================
//
// Given one page worth of tabular cells, pull out the rows that look like
// return records. PDFs are full of decorative and summary tables, so the
// extractor is defensive:
//
//   - A grid is a candidate return table only when it has at least two rows
//     and its header row mentions one of the domain keywords.
//   - Headers map onto canonical fields through the ordered PDF-scope rule
//     table; unmapped columns are ignored.
//   - A data row is kept only when it yields an order id or a SKU. Sparse
//     and decorative rows are dropped silently, never reported as errors.
//
// This is a pure function of its input grid.
//
// =============================================================================

package pdfparser

import (
	"strings"

	"github.com/ginjaninja78/returns-analyzer/internal/registry"
	"github.com/ginjaninja78/returns-analyzer/internal/types"
)

// ExtractTable extracts return records from a cell grid. Records are keyed
// by canonical field name.
func ExtractTable(grid [][]string, reg *registry.Registry) []types.RawRecord {
	if !isReturnTable(grid, reg) {
		return nil
	}

	indices := mapHeaders(grid[0], reg)
	if len(indices) == 0 {
		return nil
	}

	var records []types.RawRecord
	for _, row := range grid[1:] {
		if isRowEmpty(row) {
			continue
		}

		record := make(types.RawRecord)
		for field, index := range indices {
			if index < len(row) {
				if value := strings.TrimSpace(row[index]); value != "" {
					record[field] = value
				}
			}
		}

		// Rows without an identifier are decoration or summaries.
		if !record.Has("order_id") && !record.Has("sku") {
			continue
		}

		if !record.Has("quantity") {
			record["quantity"] = "1"
		}
		records = append(records, record)
	}

	return records
}

// isReturnTable applies the table-candidacy test: at least two rows, and a
// header row that mentions one of the domain keywords.
func isReturnTable(grid [][]string, reg *registry.Registry) bool {
	if len(grid) < 2 {
		return false
	}

	joined := strings.ToLower(strings.Join(grid[0], " "))
	for _, keyword := range reg.TableKeywords {
		if strings.Contains(joined, keyword) {
			return true
		}
	}
	return false
}

// mapHeaders resolves each header cell to a canonical field and records its
// column index. When two headers map to the same field the later column
// wins, matching how the source reports repeat refined columns to the
// right.
func mapHeaders(headers []string, reg *registry.Registry) map[string]int {
	indices := make(map[string]int)
	for i, header := range headers {
		if field, ok := reg.NormalizeHeader(registry.ScopePDF, header); ok {
			indices[field] = i
		}
	}
	return indices
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
