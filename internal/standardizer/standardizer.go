// =============================================================================
// Returns Analyzer - Record Standardizer
// =============================================================================
//
// This module coerces raw extracted records into the canonical return
// schema. Responsibilities, applied in this exact order per record:
//
//   1. Header mapping through the scoped rule tables (skipped for records
//      the extractors already emit with canonical keys)
//   2. Quantity coercion (failure or absence -> 1)
//   3. Date coercion through the permissive multi-layout parser (failure or
//      absence -> processing time)
//   4. Reason normalization: the raw reason is lower-cased and tested
//      against the ordered phrase table. ALL matching rules are applied in
//      sequence, so the LAST matching rule in table order wins. Rule order
//      encodes business priority; preserve it exactly.
//   5. Description backfill from the reason code table, falling back to the
//      raw reason text, then "Unknown"
//   6. Source and processed-date stamping
//
// FAILURE POLICY: a malformed cell never aborts the batch; every coercion
// failure degrades to its documented default. Only an unreadable file is a
// hard error, and that is the parsers' job to report.
//
// =============================================================================

package standardizer

import (
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/returns-analyzer/internal/registry"
	"github.com/ginjaninja78/returns-analyzer/internal/types"
)

// ScopeCanonical marks record sets whose keys are already canonical field
// names (PDF tables and mined text); header mapping is skipped for them.
const ScopeCanonical registry.HeaderScope = "canonical"

// =============================================================================
// STANDARDIZER
// =============================================================================

// Options tunes standardization behavior.
type Options struct {
	// RequirePositiveQuantity drops records whose quantity coerces to a
	// non-positive number instead of defaulting them to 1.
	RequirePositiveQuantity bool

	// Now supplies the processing timestamp; defaults to time.Now.
	// Overridable for deterministic tests.
	Now func() time.Time
}

// Standardizer converts raw records into canonical return records using the
// shared rule registry. Safe for concurrent use: it holds only read-only
// state.
type Standardizer struct {
	reg  *registry.Registry
	opts Options
}

// New creates a Standardizer.
func New(reg *registry.Registry, opts Options) *Standardizer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Standardizer{reg: reg, opts: opts}
}

// Standardize converts a batch of raw records extracted from one source
// into canonical return records tagged with the given source.
func (s *Standardizer) Standardize(records []types.RawRecord, scope registry.HeaderScope, sourceTag string) []types.ReturnRecord {
	now := s.opts.Now()

	out := make([]types.ReturnRecord, 0, len(records))
	for _, raw := range records {
		mapped := s.mapFields(raw, scope)

		record, ok := s.buildRecord(mapped, sourceTag, now)
		if !ok {
			continue
		}
		out = append(out, record)
	}
	return out
}

// mapFields rewrites a record's keys onto canonical field names. Keys with
// no matching header rule are dropped; they carry no canonical meaning.
func (s *Standardizer) mapFields(raw types.RawRecord, scope registry.HeaderScope) types.RawRecord {
	if scope == ScopeCanonical {
		return raw
	}

	mapped := make(types.RawRecord, len(raw))
	for key, value := range raw {
		if field, ok := s.reg.NormalizeHeader(scope, key); ok {
			mapped[field] = value
		}
	}
	return mapped
}

// buildRecord applies the coercion steps to one mapped record. The bool
// result is false only when the record is dropped by the positive-quantity
// policy.
func (s *Standardizer) buildRecord(raw types.RawRecord, sourceTag string, now time.Time) (types.ReturnRecord, bool) {
	record := types.ReturnRecord{
		OrderID:             raw.Get("order_id", ""),
		SKU:                 raw.Get("sku", ""),
		ASIN:                raw.Get("asin", ""),
		FNSKU:               raw.Get("fnsku", ""),
		ProductName:         raw.Get("product_name", ""),
		ReasonRaw:           raw.Get("reason", ""),
		CustomerComments:    raw.Get("customer_comments", ""),
		FulfillmentCenterID: raw.Get("fc_id", ""),
		Disposition:         raw.Get("disposition", ""),
		Status:              raw.Get("status", ""),
		LicensePlate:        raw.Get("lpn", ""),
		RMANumber:           raw.Get("rma_number", ""),
		Channel:             raw.Get("channel", ""),
	}

	// Step 2: quantity.
	quantity, numeric := CoerceQuantity(raw.Get("quantity", ""))
	if s.opts.RequirePositiveQuantity && (!numeric || quantity <= 0) {
		return types.ReturnRecord{}, false
	}
	if !numeric || quantity < 0 {
		quantity = 1
	}
	record.Quantity = quantity

	// Step 3: return date.
	if date, ok := ParseDate(raw.Get("return_date", "")); ok {
		record.ReturnDate = date
	} else {
		record.ReturnDate = now
	}

	// Step 4: reason code. A source that ships codes directly (the FBA
	// feed) has them validated against the code table; an unknown code is
	// demoted to raw reason text so the code invariant holds.
	if code := raw.Get("reason_code", ""); code != "" {
		if _, known := s.reg.ReasonCodes[code]; known {
			record.ReasonCode = code
		} else if record.ReasonRaw == "" {
			record.ReasonRaw = code
		}
	}

	// Free-text reasons run through the ordered phrase table. Every
	// matching rule applies; the last match in table order wins.
	if record.ReasonRaw != "" {
		lowered := strings.ToLower(strings.TrimSpace(record.ReasonRaw))
		for _, rule := range s.reg.ReasonRules {
			if strings.Contains(lowered, rule.Phrase) {
				record.ReasonCode = rule.Code
			}
		}
	}

	// Step 5: description backfill.
	switch {
	case record.ReasonCode != "":
		record.ReasonDescription = s.reg.ReasonCodes[record.ReasonCode]
	case record.ReasonRaw != "":
		record.ReasonDescription = record.ReasonRaw
	default:
		record.ReasonDescription = "Unknown"
	}

	// Step 6: stamps.
	record.Source = sourceTag
	record.ProcessedDate = now

	return record, true
}

// =============================================================================
// COERCION HELPERS
// =============================================================================

// CoerceQuantity parses a quantity cell. The bool result is false when the
// value is absent or non-numeric. Fractional quantities are truncated; the
// feeds only ever ship whole units.
func CoerceQuantity(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return int(value), true
}

// dateLayouts is the ordered layout list for the permissive date parser.
// ISO forms first (the feeds' native format), then US forms, then the long
// month spellings seen on PDF pages.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1-2-2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 Jan 2006",
}

// ParseDate parses a date cell against the layout list in order. The bool
// result is false when nothing matches; callers substitute the processing
// time.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, raw); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}
