// =============================================================================
// Returns Analyzer - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - detector
//   - fbaparser / pdfparser / sheetparser
//   - standardizer
//   - merger / categorizer / insights
//   - pipeline
//
// =============================================================================

package types

import "time"

// =============================================================================
// FILE KIND
// =============================================================================

// FileKind identifies the detected format of an uploaded file.
type FileKind string

// The set of formats the detector can classify. A file that matches none of
// these is KindUnknown; the pipeline counts it as failed without aborting
// the batch.
const (
	KindPDF         FileKind = "pdf"
	KindFBAReturns  FileKind = "fba_returns"
	KindText        FileKind = "txt"
	KindSpreadsheet FileKind = "spreadsheet"
	KindUnknown     FileKind = "unknown"
)

// =============================================================================
// RAW RECORD
// =============================================================================

// RawRecord is a transient mapping from a canonical field name to the raw
// text value pulled out of a source table or text block. It exists only
// between extraction and standardization; it is never persisted.
type RawRecord map[string]string

// Get returns the value for a field, or the provided default when the field
// is absent or empty. Every "maybe this column exists" access goes through
// here so the absent-field branch is explicit and testable.
func (r RawRecord) Get(field, def string) string {
	if v, ok := r[field]; ok && v != "" {
		return v
	}
	return def
}

// Has reports whether a field is present with a non-empty value.
func (r RawRecord) Has(field string) bool {
	return r.Get(field, "") != ""
}

// =============================================================================
// RETURN RECORD
// =============================================================================

// ReturnRecord is the canonical, normalized unit of return data. Every
// source format is standardized into this shape before merging. Changing a
// field name here is a breaking change for every downstream consumer of the
// canonical table.
type ReturnRecord struct {
	// OrderID is the cross-source identifier. When present it is the
	// deduplication key during merging.
	OrderID string `json:"order_id,omitempty"`

	// Product identifiers.
	SKU         string `json:"sku,omitempty"`
	ASIN        string `json:"asin,omitempty"`
	FNSKU       string `json:"fnsku,omitempty"`
	ProductName string `json:"product_name,omitempty"`

	// Quantity is always >= 0 after standardization. Inputs that fail
	// numeric coercion default to 1.
	Quantity int `json:"quantity"`

	// ReturnDate is always a valid date after standardization. Inputs that
	// fail date parsing default to the processing time.
	ReturnDate time.Time `json:"return_date"`

	// ReasonCode, when set, is always a key of the fixed reason code table.
	// ReasonDescription is the human-readable text derived from it.
	ReasonCode        string `json:"reason_code,omitempty"`
	ReasonDescription string `json:"reason_description,omitempty"`

	// Original free text, preserved for categorization.
	ReasonRaw        string `json:"reason_raw,omitempty"`
	CustomerComments string `json:"customer_comments,omitempty"`

	// Category is one of the fixed category tags or "UNCATEGORIZED".
	// Both fields are assigned by the categorizer as a final annotation
	// pass after merging; the record is otherwise immutable post-merge.
	Category           string  `json:"category,omitempty"`
	CategoryConfidence float64 `json:"category_confidence"`

	// Source is the originating format/channel tag, e.g. FBA_RETURNS or
	// SELLER_CENTRAL_PDF. ProcessedDate is when the record was normalized.
	Source        string    `json:"source"`
	ProcessedDate time.Time `json:"processed_date"`

	// Feed-specific pass-through columns. Present only for sources that
	// carry them (the FBA feed and RMA-style return reports).
	FulfillmentCenterID string `json:"fc_id,omitempty"`
	Disposition         string `json:"disposition,omitempty"`
	Status              string `json:"status,omitempty"`
	LicensePlate        string `json:"lpn,omitempty"`
	RMANumber           string `json:"rma_number,omitempty"`
	Channel             string `json:"channel,omitempty"`
}

// =============================================================================
// SALES RECORD
// =============================================================================

// SalesRecord is the minimal sales row used as the denominator for
// return-rate computation. It is supplied by the caller (typically parsed
// from an Odoo inventory forecast export) and is not owned by the pipeline.
type SalesRecord struct {
	SKU         string    `json:"sku"`
	ProductName string    `json:"product_name,omitempty"`
	Quantity    int       `json:"quantity"`
	Date        time.Time `json:"date,omitempty"`
	Warehouse   string    `json:"warehouse,omitempty"`
}

// =============================================================================
// PIPELINE INPUT / OUTPUT
// =============================================================================

// InputFile is one uploaded file: raw bytes plus the original file name.
// The name is a weak classification signal only; content decides the rest.
type InputFile struct {
	Content  []byte
	Filename string
}

// FileSummary tallies the outcome of a pipeline run per file.
type FileSummary struct {
	// Processed counts files that yielded at least one usable record.
	Processed int `json:"processed"`

	// Failed counts files that were unreadable, unsupported, or yielded
	// zero records. A failed file never aborts the rest of the batch.
	Failed int `json:"failed"`

	// FileTypes counts the detected kind of every input file.
	FileTypes map[FileKind]int `json:"file_types"`
}

// AnalysisResult is the top-level output of a pipeline run.
type AnalysisResult struct {
	// Success is false only when no return data could be extracted from
	// any file in the batch; downstream aggregation cannot proceed on
	// zero rows.
	Success bool `json:"success"`

	FileSummary  FileSummary    `json:"file_summary"`
	TotalReturns int            `json:"total_returns"`
	Returns      []ReturnRecord `json:"returns_data,omitempty"`
	Insights     *Insights      `json:"analysis,omitempty"`

	// Error carries the descriptive reason when Success is false.
	Error string `json:"error,omitempty"`
}

// =============================================================================
// INSIGHTS SHAPES
// =============================================================================

// Insights is the structured quality-insights object computed from the
// merged, categorized return table. The five top-level keys are a stable
// contract with downstream reporting consumers.
type Insights struct {
	Summary         Summary                  `json:"summary"`
	CategoryStats   map[string]CategoryStats `json:"category_breakdown"`
	ProductStats    map[string]ProductStats  `json:"product_specific"`
	Trends          Trends                   `json:"trends"`
	Recommendations []Recommendation         `json:"recommendations"`
	Quality         *CategorizationQuality   `json:"categorization_quality,omitempty"`
}

// Summary holds whole-table counts.
type Summary struct {
	TotalReturns   int       `json:"total_returns"`
	UniqueProducts int       `json:"unique_products"`
	DateRange      DateRange `json:"date_range"`

	// OverallReturnRate is total returns / total sales * 100, present only
	// when sales data was supplied.
	OverallReturnRate *float64 `json:"overall_return_rate,omitempty"`
}

// DateRange is the observed min/max return date.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CategoryStats is the per-category breakdown.
type CategoryStats struct {
	Count            int     `json:"count"`
	Percentage       float64 `json:"percentage"`
	ProductsAffected int     `json:"products_affected"`
}

// ProductStats is the per-SKU breakdown.
type ProductStats struct {
	TotalReturns         int            `json:"total_returns"`
	PrimaryIssue         string         `json:"primary_issue"`
	CategoryDistribution map[string]int `json:"category_distribution"`

	// ReturnRate is returns/sales*100, present only when sales data with a
	// positive quantity was supplied for this SKU.
	ReturnRate *float64 `json:"return_rate,omitempty"`
}

// Trends groups returns over time.
type Trends struct {
	// Monthly maps "YYYY-MM" to per-category counts.
	Monthly map[string]map[string]int `json:"monthly,omitempty"`
}

// Recommendation is a threshold-derived action item.
type Recommendation struct {
	Priority string `json:"priority"`
	Category string `json:"category"`
	Issue    string `json:"issue"`
	Action   string `json:"action"`
	Impact   string `json:"impact"`
}

// CategorizationQuality reports how confidently reasons were categorized.
type CategorizationQuality struct {
	AverageConfidence  float64 `json:"average_confidence"`
	LowConfidenceCount int     `json:"low_confidence_count"`
	UncategorizedCount int     `json:"uncategorized_count"`
}
