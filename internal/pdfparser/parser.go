// =============================================================================
// Returns Analyzer - Seller Central PDF Parser
// =============================================================================
//
// This module pulls candidate return records out of Seller Central PDF
// exports. A PDF page yields two things:
//
//   1. A cell grid, reconstructed from the page's positioned text rows.
//      Words on the same visual row are clustered into cells wherever the
//      horizontal gap between them is wide enough to read as a column
//      boundary. The grid is fed to the table extractor.
//
//   2. The page's plain text, fed to the anchor-and-window text miner for
//      records that never made it into a proper table layout.
//
// The underlying PDF library is known to panic on malformed documents, so
// every call into it is wrapped in a recover guard; a page we cannot read
// contributes nothing rather than killing the run. Only a document whose
// reader cannot be constructed at all is a hard error.
//
// =============================================================================

package pdfparser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ginjaninja78/returns-analyzer/internal/registry"
	"github.com/ginjaninja78/returns-analyzer/internal/types"
)

// cellGapPoints is the minimum horizontal whitespace (in PDF points)
// between two words for them to be split into separate cells.
const cellGapPoints = 10.0

// PageContent is the extracted content of a single PDF page.
type PageContent struct {
	// Grid is the page's text arranged as rows of cells.
	Grid [][]string

	// Text is the page's plain text, one line per visual row.
	Text string
}

// Result separates records by how they were extracted, since the two paths
// carry different source tags through standardization.
type Result struct {
	// TableRecords came from recognized return-data tables.
	TableRecords []types.RawRecord

	// TextRecords came from anchor-and-window mining of free text.
	TextRecords []types.RawRecord
}

// Parse extracts return records from PDF content.
//
// RETURNS:
//   - The table- and text-derived records (either may be empty; a PDF with
//     no extractable returns is not an error).
//   - An error only when the document is unreadable.
func Parse(content []byte, reg *registry.Registry) (*Result, error) {
	pages, err := readPages(content)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, page := range pages {
		result.TableRecords = append(result.TableRecords, ExtractTable(page.Grid, reg)...)
		if page.Text != "" {
			result.TextRecords = append(result.TextRecords, MineText(page.Text)...)
		}
	}

	return result, nil
}

// readPages opens the document and extracts every page's grid and text.
func readPages(content []byte) ([]PageContent, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	// The library may panic while counting pages on malformed documents.
	numPages := 0
	func() {
		defer func() { _ = recover() }()
		numPages = reader.NumPage()
	}()
	if numPages <= 0 {
		return nil, fmt.Errorf("PDF contains no readable pages")
	}

	var pages []PageContent
	for i := 1; i <= numPages; i++ {
		// Per-page recover guard: one bad page must not lose the rest.
		func() {
			defer func() { _ = recover() }()

			page := reader.Page(i)
			if page.V.IsNull() {
				return
			}

			rows, err := page.GetTextByRow()
			if err != nil {
				return
			}
			pages = append(pages, buildPageContent(rows))
		}()
	}

	return pages, nil
}

// buildPageContent turns positioned text rows into a cell grid and a plain
// text block.
func buildPageContent(rows pdf.Rows) PageContent {
	var grid [][]string
	var text strings.Builder

	for _, row := range rows {
		cells := clusterRow(row.Content)
		if len(cells) == 0 {
			continue
		}
		grid = append(grid, cells)
		text.WriteString(strings.Join(cells, " "))
		text.WriteString("\n")
	}

	return PageContent{Grid: grid, Text: text.String()}
}

// clusterRow groups a row's words into cells. Words separated by less than
// cellGapPoints of whitespace belong to the same cell.
func clusterRow(words []pdf.Text) []string {
	var cells []string
	var cell strings.Builder
	var prevEnd float64

	for i, word := range words {
		if word.S == "" {
			continue
		}

		if i > 0 && cell.Len() > 0 {
			if word.X-prevEnd > cellGapPoints {
				cells = append(cells, strings.TrimSpace(cell.String()))
				cell.Reset()
			} else {
				cell.WriteString(" ")
			}
		}

		cell.WriteString(word.S)
		prevEnd = word.X + word.W
	}

	if cell.Len() > 0 {
		cells = append(cells, strings.TrimSpace(cell.String()))
	}

	return cells
}
