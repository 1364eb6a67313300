// =============================================================================
// Returns Analyzer - File Type Detector
// =============================================================================
//
// This module classifies a raw byte blob plus its file name into one of the
// known source formats. The signals are deliberately weak: extension first,
// then a content sniff for the one ambiguous case (.txt files, which may be
// the tab-delimited FBA returns feed or arbitrary text).
//
// Detect never returns an error and never panics: a decode failure is a
// negative signal, not a failure. Callers decide what to do with
// KindUnknown.
//
// =============================================================================

package detector

import (
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/returns-analyzer/internal/types"
)

// The two column names whose joint presence marks a .txt file as the FBA
// returns feed.
const (
	fbaReturnDateMarker = "return-date"
	fbaOrderIDMarker    = "order-id"
)

// Detect classifies file content by extension, with a content sniff for
// .txt files.
//
// RULES:
//   - .pdf                -> KindPDF
//   - .csv / .xlsx / .xls -> KindSpreadsheet
//   - .txt                -> KindFBAReturns when the content decodes as
//     UTF-8 AND contains both the return-date and order-id column markers;
//     otherwise KindText. An invalid encoding fails closed to KindText.
//   - anything else       -> KindUnknown
func Detect(content []byte, filename string) types.FileKind {
	name := strings.ToLower(filename)

	switch {
	case strings.HasSuffix(name, ".pdf"):
		return types.KindPDF

	case strings.HasSuffix(name, ".txt"):
		if isFBAReturns(content) {
			return types.KindFBAReturns
		}
		return types.KindText

	case strings.HasSuffix(name, ".csv"),
		strings.HasSuffix(name, ".xlsx"),
		strings.HasSuffix(name, ".xls"):
		return types.KindSpreadsheet
	}

	return types.KindUnknown
}

// isFBAReturns sniffs content for the FBA returns feed markers. A body that
// is not valid UTF-8 is treated as a negative signal only.
func isFBAReturns(content []byte) bool {
	if !utf8.Valid(content) {
		return false
	}
	text := string(content)
	return strings.Contains(text, fbaReturnDateMarker) &&
		strings.Contains(text, fbaOrderIDMarker)
}
