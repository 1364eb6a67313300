package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/returns-analyzer/internal/types"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		MaxConcurrency: 4,
		Now:            func() time.Time { return fixedNow },
	}
}

func fbaFile() types.InputFile {
	feed := "return-date\torder-id\tsku\tasin\treason\n" +
		"2024-01-15\t123-4567890-1234567\tSKU1\tB012345678\tDEFECTIVE\n"
	return types.InputFile{Content: []byte(feed), Filename: "returns.txt"}
}

func csvFile() types.InputFile {
	report := "Order Number,SKU,Return Reason,Quantity,Return Date\n" +
		"111-2223334-4445556,AB123,broken handle,1,2024-05-01\n"
	return types.InputFile{Content: []byte(report), Filename: "report.csv"}
}

func TestAnalyzeFBAFeed(t *testing.T) {
	result := Analyze([]types.InputFile{fbaFile()}, nil, testOptions())

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.FileSummary.Processed)
	assert.Equal(t, 0, result.FileSummary.Failed)
	assert.Equal(t, 1, result.FileSummary.FileTypes[types.KindFBAReturns])
	assert.Equal(t, 1, result.TotalReturns)

	record := result.Returns[0]
	assert.Equal(t, "123-4567890-1234567", record.OrderID)
	assert.Equal(t, "SKU1", record.SKU)
	assert.Equal(t, "DEFECTIVE", record.ReasonCode)
	assert.Equal(t, "Product defective or doesn't work", record.ReasonDescription)
	assert.Equal(t, 1, record.Quantity)
	assert.Equal(t, "FBA_RETURNS", record.Source)

	assert.NotNil(t, result.Insights)
	assert.Equal(t, 1, result.Insights.Summary.TotalReturns)
}

func TestAnalyzeSpreadsheetReport(t *testing.T) {
	result := Analyze([]types.InputFile{csvFile()}, nil, testOptions())

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.TotalReturns)

	record := result.Returns[0]
	assert.Equal(t, "111-2223334-4445556", record.OrderID)
	assert.Equal(t, "Pivot Return Report", record.Source)
	assert.Equal(t, "DEFECTIVE", record.ReasonCode)
	assert.Equal(t, "broken handle", record.ReasonRaw)
}

func TestAnalyzeMixedBatchWithFailure(t *testing.T) {
	files := []types.InputFile{
		fbaFile(),
		{Content: []byte("binary gibberish"), Filename: "notes.dat"},
	}

	result := Analyze(files, nil, testOptions())

	// The unusable file is counted but never aborts the batch.
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.FileSummary.Processed)
	assert.Equal(t, 1, result.FileSummary.Failed)
	assert.Equal(t, 1, result.FileSummary.FileTypes[types.KindUnknown])
	assert.Equal(t, 1, result.TotalReturns)
}

func TestAnalyzeNoUsableData(t *testing.T) {
	files := []types.InputFile{
		{Content: []byte("just some prose"), Filename: "notes.txt"},
		{Content: []byte("binary gibberish"), Filename: "notes.dat"},
	}

	result := Analyze(files, nil, testOptions())

	assert.False(t, result.Success)
	assert.Equal(t, "no return data could be extracted from the provided files", result.Error)
	assert.Equal(t, 0, result.TotalReturns)
	assert.Equal(t, 2, result.FileSummary.Failed)
	assert.Empty(t, result.Returns)
	assert.Nil(t, result.Insights)
}

func TestAnalyzeEmptyBatch(t *testing.T) {
	result := Analyze(nil, nil, testOptions())

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.TotalReturns)
}

func TestAnalyzeCrossSourceDedup(t *testing.T) {
	// The same order id arrives from the FBA feed and a CSV report; the
	// feed record must win.
	report := "Order Number,SKU,Return Reason\n" +
		"123-4567890-1234567,CSV-SKU,broken\n"

	files := []types.InputFile{
		{Content: []byte(report), Filename: "report.csv"},
		fbaFile(),
	}

	result := Analyze(files, nil, testOptions())

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.TotalReturns)
	assert.Equal(t, "FBA_RETURNS", result.Returns[0].Source)
	assert.Equal(t, "SKU1", result.Returns[0].SKU)
}

func TestAnalyzeWithSalesData(t *testing.T) {
	sales := []types.SalesRecord{{SKU: "SKU1", Quantity: 50}}

	result := Analyze([]types.InputFile{fbaFile()}, sales, testOptions())

	assert.True(t, result.Success)
	assert.NotNil(t, result.Insights.Summary.OverallReturnRate)
	assert.Equal(t, 2.0, *result.Insights.Summary.OverallReturnRate)
}

// The same batch must produce the same result regardless of worker
// scheduling.
func TestAnalyzeDeterministic(t *testing.T) {
	feedA := "return-date\torder-id\tsku\n" +
		"2024-01-15\t123-0000000-0000001\tAA111\n" +
		"2024-01-16\t123-0000000-0000002\tBB222\n"
	feedB := "return-date\torder-id\tsku\n" +
		"2024-01-17\t123-0000000-0000003\tCC333\n"
	report := "Order Number,SKU,Return Reason,Return Date\n" +
		"111-2223334-4445556,DD444,too small,2024-01-18\n"

	files := []types.InputFile{
		{Content: []byte(feedA), Filename: "a.txt"},
		{Content: []byte(feedB), Filename: "b.txt"},
		{Content: []byte(report), Filename: "c.csv"},
	}

	first := Analyze(files, nil, testOptions())
	second := Analyze(files, nil, testOptions())

	assert.True(t, first.Success)
	assert.Equal(t, first.Returns, second.Returns)
	assert.Equal(t, first.Insights, second.Insights)
	assert.Equal(t, first.FileSummary, second.FileSummary)
}

func TestAnalyzeSequentialFallback(t *testing.T) {
	opts := testOptions()
	opts.MaxConcurrency = 0 // values below one mean sequential

	result := Analyze([]types.InputFile{fbaFile()}, nil, opts)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.TotalReturns)
}
