// =============================================================================
// Returns Analyzer - Text Record Miner
// =============================================================================
//
// Anchor-and-window extraction of return records from unstructured page
// text. The order identifier's rigid hyphen-grouped digit format is a
// strong signal, so it anchors each candidate record; the surrounding lines
// are then searched for the weaker-signal fields (SKU, ASIN, reason).
//
// The miner is stateless and deterministic: re-running it on the same text
// yields the same records.
//
// KNOWN LIMITATION: after a window is processed the scan pointer jumps past
// it rather than advancing line by line, to avoid re-anchoring on the same
// block. A second valid anchor within the skip distance of a prior one is
// therefore missed. Downstream record counts are calibrated against this
// behavior; do not "fix" it.
//
// =============================================================================

package pdfparser

import (
	"regexp"
	"strings"

	"github.com/ginjaninja78/returns-analyzer/internal/types"
)

// Window geometry: the anchor line, the next windowForward-1 lines, and the
// previous windowBack lines.
const (
	windowForward = 5
	windowBack    = 2
)

// Field patterns seen on marketplace return pages.
var (
	orderIDPattern = regexp.MustCompile(`\b(\d{3}-\d{7}-\d{7})\b`)
	skuPattern     = regexp.MustCompile(`\b([A-Z]{2,4}\d{3,6}[A-Z0-9]*)\b`)
	asinPattern    = regexp.MustCompile(`\b(B[0-9]{2}[A-Z0-9]{7})\b`)
)

// reasonKeywords are the markers that introduce a reason on a line. Checked
// in order; the first marker found on a line wins.
var reasonKeywords = []string{"reason:", "return reason:", "returned:"}

// MineText extracts return records from a block of free text. Records are
// keyed by canonical field name. A candidate is accepted only when the
// window produced a SKU or an ASIN alongside the order id.
func MineText(text string) []types.RawRecord {
	lines := strings.Split(text, "\n")

	var records []types.RawRecord

	i := 0
	for i < len(lines) {
		match := orderIDPattern.FindStringSubmatch(lines[i])
		if match == nil {
			i++
			continue
		}

		record := types.RawRecord{"order_id": match[1]}

		lo := max(0, i-windowBack)
		hi := min(len(lines), i+windowForward)

		// Each field independently takes the first match scanning forward
		// through the window; once filled it is never overwritten.
		fillPattern(record, "sku", skuPattern, lines, lo, hi)
		fillPattern(record, "asin", asinPattern, lines, lo, hi)
		fillReason(record, lines, lo, hi)

		if record.Has("sku") || record.Has("asin") {
			record["quantity"] = "1"
			records = append(records, record)
		}

		// Skip past the window; see the limitation note above.
		i += windowForward
	}

	return records
}

// fillPattern sets record[field] to the first pattern match found in
// lines[lo:hi], if any.
func fillPattern(record types.RawRecord, field string, pattern *regexp.Regexp, lines []string, lo, hi int) {
	for j := lo; j < hi; j++ {
		if m := pattern.FindStringSubmatch(lines[j]); m != nil {
			record[field] = m[1]
			return
		}
	}
}

// fillReason looks for a reason marker in the window. The reason is the
// text trailing the marker on the same line, or, when that is empty, the
// next line's trimmed text.
func fillReason(record types.RawRecord, lines []string, lo, hi int) {
	for j := lo; j < hi; j++ {
		lower := strings.ToLower(lines[j])
		for _, keyword := range reasonKeywords {
			idx := strings.Index(lower, keyword)
			if idx < 0 {
				continue
			}

			reason := strings.TrimSpace(lines[j][idx+len(keyword):])
			if reason == "" && j+1 < len(lines) {
				reason = strings.TrimSpace(lines[j+1])
			}
			if reason != "" {
				record["reason"] = reason
				return
			}
			break // marker found but no text; try later lines
		}
	}
}
