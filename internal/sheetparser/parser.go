// =============================================================================
// Returns Analyzer - Spreadsheet Parser
// =============================================================================
//
// This module handles the two spreadsheet-shaped sources:
//
//   - Ad-hoc CSV/XLSX return reports (the "Pivot Return Report" vocabulary
//     and its variants): parsed into RawRecords keyed by the raw column
//     headers, for the standardizer to normalize.
//
//   - Odoo inventory-forecast exports: parsed into SalesRecords that serve
//     as the return-rate denominator. These carry their own lightweight
//     coercion because they never pass through the return standardizer.
//
// Multi-sheet workbooks are searched for the sheet whose header row carries
// the expected vocabulary; the first sheet is the fallback, matching how
// the upstream export tools behave.
//
// =============================================================================

package sheetparser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/returns-analyzer/internal/registry"
	"github.com/ginjaninja78/returns-analyzer/internal/standardizer"
	"github.com/ginjaninja78/returns-analyzer/internal/types"
)

// Header keywords used to pick the right sheet out of a workbook.
var (
	returnSheetKeywords = []string{"return", "reason", "rma"}
	salesSheetKeywords  = []string{"product", "sku"}
)

// =============================================================================
// RETURN REPORTS
// =============================================================================

// ParseReturns reads a CSV or XLSX return report and returns one RawRecord
// per data row, keyed by the raw column headers.
//
// RETURNS:
//   - The extracted records (possibly empty; a header-only sheet is not an
//     error).
//   - An error only when the file itself is unreadable.
func ParseReturns(content []byte, filename string) ([]types.RawRecord, error) {
	grid, err := readGrid(content, filename, returnSheetKeywords)
	if err != nil {
		return nil, err
	}
	return gridToRecords(grid), nil
}

// gridToRecords converts a header-plus-rows grid into raw-header-keyed
// records, skipping empty rows.
func gridToRecords(grid [][]string) []types.RawRecord {
	if len(grid) < 2 {
		return nil
	}

	headers := grid[0]
	records := make([]types.RawRecord, 0, len(grid)-1)

	for _, row := range grid[1:] {
		if isRowEmpty(row) {
			continue
		}

		record := make(types.RawRecord, len(headers))
		for i, header := range headers {
			key := strings.TrimSpace(header)
			if key == "" || i >= len(row) {
				continue
			}
			if value := strings.TrimSpace(row[i]); value != "" {
				record[key] = value
			}
		}
		if len(record) > 0 {
			records = append(records, record)
		}
	}

	return records
}

// =============================================================================
// SALES DATA (ODOO INVENTORY FORECAST)
// =============================================================================

// ParseSales reads an Odoo inventory-forecast export (CSV or XLSX) into
// SalesRecords. Rows without a positive numeric quantity are filtered out:
// a zero-quantity forecast row cannot serve as a return-rate denominator.
func ParseSales(content []byte, filename string) ([]types.SalesRecord, error) {
	grid, err := readGrid(content, filename, salesSheetKeywords)
	if err != nil {
		return nil, err
	}
	if len(grid) < 2 {
		return nil, nil
	}

	reg := registry.Default()

	// Resolve each column once against the sales header scope.
	fields := make([]string, len(grid[0]))
	for i, header := range grid[0] {
		if field, ok := reg.NormalizeHeader(registry.ScopeSales, header); ok {
			fields[i] = field
		}
	}

	var sales []types.SalesRecord
	for _, row := range grid[1:] {
		if isRowEmpty(row) {
			continue
		}

		record := make(types.RawRecord)
		for i, field := range fields {
			if field == "" || i >= len(row) {
				continue
			}
			if value := strings.TrimSpace(row[i]); value != "" {
				record[field] = value
			}
		}

		quantity, ok := standardizer.CoerceQuantity(record.Get("quantity", ""))
		if !ok || quantity <= 0 {
			continue
		}

		sale := types.SalesRecord{
			SKU:         record.Get("sku", ""),
			ProductName: record.Get("product_name", ""),
			Quantity:    quantity,
			Warehouse:   record.Get("warehouse", ""),
		}
		if raw := record.Get("date", ""); raw != "" {
			if date, ok := standardizer.ParseDate(raw); ok {
				sale.Date = date
			}
		}
		sales = append(sales, sale)
	}

	return sales, nil
}

// =============================================================================
// GRID READING
// =============================================================================

// readGrid loads a CSV or XLSX file into a single header-plus-rows grid.
func readGrid(content []byte, filename string, sheetKeywords []string) ([][]string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return readCSV(content)
	}
	return readWorkbook(content, sheetKeywords)
}

// readCSV parses CSV content with the lenient reader settings used for all
// ad-hoc exports.
func readCSV(content []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

// readWorkbook opens an XLSX workbook and returns the rows of the sheet
// whose header matches the expected vocabulary, falling back to the first
// sheet.
func readWorkbook(content []byte, sheetKeywords []string) ([][]string, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook contains no sheets")
	}

	var fallback [][]string
	for i, sheet := range sheets {
		rows, err := workbook.GetRows(sheet)
		if err != nil {
			continue
		}
		if i == 0 {
			fallback = rows
		}
		if len(rows) > 0 && headerMatches(rows[0], sheetKeywords) {
			return rows, nil
		}
	}

	if fallback == nil {
		return nil, fmt.Errorf("workbook contains no readable sheet")
	}
	return fallback, nil
}

// headerMatches reports whether a header row mentions any of the keywords.
func headerMatches(headers []string, keywords []string) bool {
	joined := strings.ToLower(strings.Join(headers, " "))
	for _, keyword := range keywords {
		if strings.Contains(joined, keyword) {
			return true
		}
	}
	return false
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
