package standardizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/returns-analyzer/internal/fbaparser"
	"github.com/ginjaninja78/returns-analyzer/internal/registry"
	"github.com/ginjaninja78/returns-analyzer/internal/types"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStandardizer(requirePositive bool) *Standardizer {
	return New(registry.Default(), Options{
		RequirePositiveQuantity: requirePositive,
		Now:                     func() time.Time { return fixedNow },
	})
}

func TestStandardizeFBAFeed(t *testing.T) {
	feed := "return-date\torder-id\tsku\tasin\treason\n" +
		"2024-01-15\t123-4567890-1234567\tSKU1\tB012345678\tDEFECTIVE\n"

	raw, err := fbaparser.Parse([]byte(feed))
	assert.NoError(t, err)

	records := newTestStandardizer(false).Standardize(raw, registry.ScopeFBA, registry.SourceFBAReturns)
	assert.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "123-4567890-1234567", record.OrderID)
	assert.Equal(t, "SKU1", record.SKU)
	assert.Equal(t, "B012345678", record.ASIN)
	assert.Equal(t, "DEFECTIVE", record.ReasonCode)
	assert.Equal(t, "Product defective or doesn't work", record.ReasonDescription)
	assert.Equal(t, 1, record.Quantity)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), record.ReturnDate)
	assert.Equal(t, "FBA_RETURNS", record.Source)
	assert.Equal(t, fixedNow, record.ProcessedDate)
}

func TestStandardizeQuantityCoercion(t *testing.T) {
	std := newTestStandardizer(false)

	cases := []struct {
		raw  string
		want int
	}{
		{"", 1},       // absent
		{"abc", 1},    // non-numeric
		{"-3", 1},     // negative
		{"2.7", 2},    // fractional, truncated
		{"0", 0},      // zero is a valid quantity
		{"4", 4},
	}

	for _, tc := range cases {
		records := std.Standardize(
			[]types.RawRecord{{"order_id": "X", "quantity": tc.raw}},
			ScopeCanonical, registry.SourcePDFText)
		assert.Len(t, records, 1, "quantity %q", tc.raw)
		assert.Equal(t, tc.want, records[0].Quantity, "quantity %q", tc.raw)
	}
}

func TestStandardizeRequirePositiveQuantity(t *testing.T) {
	std := newTestStandardizer(true)

	records := std.Standardize([]types.RawRecord{
		{"order_id": "A", "quantity": "0"},
		{"order_id": "B", "quantity": "abc"},
		{"order_id": "C", "quantity": "2"},
	}, ScopeCanonical, registry.SourcePDFText)

	assert.Len(t, records, 1)
	assert.Equal(t, "C", records[0].OrderID)
	assert.Equal(t, 2, records[0].Quantity)
}

func TestStandardizeDateCoercion(t *testing.T) {
	std := newTestStandardizer(false)

	records := std.Standardize([]types.RawRecord{
		{"order_id": "A", "return_date": "2024-03-05"},
		{"order_id": "B", "return_date": "01/15/2024"},
		{"order_id": "C", "return_date": "January 2, 2024"},
		{"order_id": "D", "return_date": "not a date"},
		{"order_id": "E"},
	}, ScopeCanonical, registry.SourcePDFText)

	assert.Len(t, records, 5)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), records[0].ReturnDate)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), records[1].ReturnDate)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), records[2].ReturnDate)

	// Unparseable or absent dates fall back to the processing time.
	assert.Equal(t, fixedNow, records[3].ReturnDate)
	assert.Equal(t, fixedNow, records[4].ReturnDate)
}

func TestStandardizeReasonLastMatchWins(t *testing.T) {
	std := newTestStandardizer(false)

	// "broken" and "damaged" both match; "damaged" is later in the rule
	// table and overrides.
	records := std.Standardize([]types.RawRecord{
		{"order_id": "A", "reason": "Broken and damaged in transit"},
	}, ScopeCanonical, registry.SourcePDFText)

	assert.Len(t, records, 1)
	assert.Equal(t, "CUSTOMER_DAMAGED", records[0].ReasonCode)
	assert.Equal(t, "Customer damaged", records[0].ReasonDescription)
	assert.Equal(t, "Broken and damaged in transit", records[0].ReasonRaw)
}

func TestStandardizeUnknownReasonCodeDemoted(t *testing.T) {
	std := newTestStandardizer(false)

	records := std.Standardize([]types.RawRecord{
		{"order_id": "A", "reason_code": "NOT_A_REAL_CODE"},
	}, ScopeCanonical, registry.SourcePDFText)

	assert.Len(t, records, 1)
	assert.Equal(t, "", records[0].ReasonCode)
	assert.Equal(t, "NOT_A_REAL_CODE", records[0].ReasonRaw)
	assert.Equal(t, "NOT_A_REAL_CODE", records[0].ReasonDescription)
}

func TestStandardizeDescriptionFallsBackToUnknown(t *testing.T) {
	std := newTestStandardizer(false)

	records := std.Standardize([]types.RawRecord{
		{"order_id": "A"},
	}, ScopeCanonical, registry.SourcePDFText)

	assert.Len(t, records, 1)
	assert.Equal(t, "Unknown", records[0].ReasonDescription)
}

func TestStandardizeDropsUnmappedColumns(t *testing.T) {
	std := newTestStandardizer(false)

	records := std.Standardize([]types.RawRecord{
		{"Order Number": "A1", "Warranty Expiry": "2030-01-01"},
	}, registry.ScopeSpreadsheet, registry.SourceReturnReport)

	assert.Len(t, records, 1)
	assert.Equal(t, "A1", records[0].OrderID)
	// The unmapped column must not leak into any canonical field.
	assert.Equal(t, fixedNow, records[0].ReturnDate)
}

func TestCoerceQuantity(t *testing.T) {
	quantity, ok := CoerceQuantity(" 3 ")
	assert.True(t, ok)
	assert.Equal(t, 3, quantity)

	_, ok = CoerceQuantity("")
	assert.False(t, ok)

	_, ok = CoerceQuantity("three")
	assert.False(t, ok)

	quantity, ok = CoerceQuantity("-2")
	assert.True(t, ok)
	assert.Equal(t, -2, quantity)
}

func TestParseDateLayouts(t *testing.T) {
	for _, raw := range []string{
		"2024-01-15",
		"2024-01-15 10:30:00",
		"2024/01/15",
		"1/15/2024",
		"Jan 15, 2024",
		"15 Jan 2024",
	} {
		date, ok := ParseDate(raw)
		assert.True(t, ok, "layout of %q", raw)
		assert.Equal(t, 2024, date.Year(), "layout of %q", raw)
		assert.Equal(t, time.January, date.Month(), "layout of %q", raw)
		assert.Equal(t, 15, date.Day(), "layout of %q", raw)
	}

	_, ok := ParseDate("the ides of March")
	assert.False(t, ok)

	_, ok = ParseDate("")
	assert.False(t, ok)
}
