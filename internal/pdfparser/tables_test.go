package pdfparser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/returns-analyzer/internal/registry"
)

func TestExtractTable(t *testing.T) {
	reg := registry.Default()

	grid := [][]string{
		{"Order ID", "SKU", "Return Reason", "Qty", "Return Date"},
		{"111-2223334-4445556", "AB123", "defective", "2", "2024-05-01"},
		{"111-2223334-4445557", "CD456", "changed mind", "1", "2024-05-02"},
	}

	records := ExtractTable(grid, reg)
	assert.Len(t, records, 2)

	assert.Equal(t, "111-2223334-4445556", records[0]["order_id"])
	assert.Equal(t, "AB123", records[0]["sku"])
	assert.Equal(t, "defective", records[0]["reason"])
	assert.Equal(t, "2", records[0]["quantity"])
	assert.Equal(t, "2024-05-01", records[0]["return_date"])
}

func TestExtractTableRejectsNonDomainHeaders(t *testing.T) {
	reg := registry.Default()

	grid := [][]string{
		{"Name", "Age", "City"},
		{"Alice", "30", "Springfield"},
		{"Bob", "25", "Shelbyville"},
	}

	assert.Empty(t, ExtractTable(grid, reg))
}

func TestExtractTableRejectsHeaderOnlyGrid(t *testing.T) {
	reg := registry.Default()

	grid := [][]string{{"Order ID", "SKU", "Reason"}}
	assert.Empty(t, ExtractTable(grid, reg))
}

func TestExtractTableDropsRowsWithoutIdentifier(t *testing.T) {
	reg := registry.Default()

	grid := [][]string{
		{"Order ID", "SKU", "Reason"},
		{"", "", "summary row"},
		{"111-2223334-4445556", "", "broken"},
		{"", "AB123", "too small"},
	}

	records := ExtractTable(grid, reg)
	assert.Len(t, records, 2)

	// Quantity defaults to one unit when the table has no quantity column.
	assert.Equal(t, "1", records[0]["quantity"])
	assert.Equal(t, "1", records[1]["quantity"])
}

func TestExtractTableLaterDuplicateColumnWins(t *testing.T) {
	reg := registry.Default()

	grid := [][]string{
		{"SKU", "Order ID", "SKU"},
		{"OLD1", "111-2223334-4445556", "NEW1"},
	}

	records := ExtractTable(grid, reg)
	assert.Len(t, records, 1)
	assert.Equal(t, "NEW1", records[0]["sku"])
}
