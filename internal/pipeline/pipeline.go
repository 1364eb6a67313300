// =============================================================================
// Returns Analyzer - Analysis Pipeline
// =============================================================================
//
// This module orchestrates the full run:
//
//   1. Per file (concurrently): detect format -> extract raw records ->
//      standardize into a per-source canonical table. Files are independent
//      and share no mutable state, so this stage parallelizes freely.
//   2. Join: merging waits until every worker has finished. A partial merge
//      would corrupt the source-priority dedup, so this is a barrier, not a
//      streaming merge.
//   3. Merge all per-source tables with priority dedup.
//   4. Categorize reasons (final annotation pass).
//   5. Aggregate metrics into the insights object.
//
// Per-file tables are collected by input position, so a run over the same
// inputs is deterministic regardless of worker scheduling.
//
// ERROR POLICY: a file that cannot be parsed, or parses to zero usable
// records, is counted as failed and the run continues. Only a batch that
// yields zero records overall is a top-level failure (Success=false).
//
// =============================================================================

package pipeline

import (
	"sync"
	"time"

	"github.com/ginjaninja78/returns-analyzer/internal/categorizer"
	"github.com/ginjaninja78/returns-analyzer/internal/detector"
	"github.com/ginjaninja78/returns-analyzer/internal/fbaparser"
	"github.com/ginjaninja78/returns-analyzer/internal/insights"
	"github.com/ginjaninja78/returns-analyzer/internal/merger"
	"github.com/ginjaninja78/returns-analyzer/internal/pdfparser"
	"github.com/ginjaninja78/returns-analyzer/internal/registry"
	"github.com/ginjaninja78/returns-analyzer/internal/sheetparser"
	"github.com/ginjaninja78/returns-analyzer/internal/standardizer"
	"github.com/ginjaninja78/returns-analyzer/internal/types"
)

// errNoData is the descriptive reason reported when a whole batch yields
// nothing.
const errNoData = "no return data could be extracted from the provided files"

// Options tunes a pipeline run.
type Options struct {
	// MaxConcurrency caps the number of files processed at once.
	// Values < 1 mean sequential processing.
	MaxConcurrency int

	// RequirePositiveQuantity drops records that coerce to a non-positive
	// quantity instead of defaulting them to 1.
	RequirePositiveQuantity bool

	// Now supplies the processing timestamp; defaults to time.Now.
	Now func() time.Time
}

// Pipeline runs the extraction and analysis stages. All held state is
// read-only rule data, so one Pipeline is safe for concurrent runs.
type Pipeline struct {
	reg         *registry.Registry
	std         *standardizer.Standardizer
	cat         *categorizer.Categorizer
	mrg         *merger.Merger
	concurrency int
}

// New creates a Pipeline around the shared rule registry.
func New(reg *registry.Registry, opts Options) *Pipeline {
	concurrency := opts.MaxConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		reg: reg,
		std: standardizer.New(reg, standardizer.Options{
			RequirePositiveQuantity: opts.RequirePositiveQuantity,
			Now:                     opts.Now,
		}),
		cat:         categorizer.New(reg),
		mrg:         merger.New(reg),
		concurrency: concurrency,
	}
}

// fileOutcome is one worker's result: the per-source tables it produced
// (a PDF yields up to two) plus the detected kind and usable-record flag.
type fileOutcome struct {
	kind   types.FileKind
	tables [][]types.ReturnRecord
	usable bool
}

// Analyze runs the full pipeline over a batch of uploaded files, with an
// optional sales table for return-rate computation.
func Analyze(files []types.InputFile, sales []types.SalesRecord, opts Options) *types.AnalysisResult {
	return New(registry.Default(), opts).Analyze(files, sales)
}

// Analyze runs the full pipeline. See the package comment for staging.
func (p *Pipeline) Analyze(files []types.InputFile, sales []types.SalesRecord) *types.AnalysisResult {
	outcomes := make([]fileOutcome, len(files))

	// STAGE 1: per-file extraction, bounded by the concurrency cap.
	// Workers write only to their own index; no shared mutable state.
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.concurrency)

	for i, file := range files {
		wg.Add(1)
		go func(i int, file types.InputFile) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcomes[i] = p.processFile(file)
		}(i, file)
	}

	// STAGE 2: the join barrier. Nothing downstream may start before every
	// per-file table exists.
	wg.Wait()

	summary := types.FileSummary{FileTypes: make(map[types.FileKind]int)}
	var tables [][]types.ReturnRecord
	for _, outcome := range outcomes {
		summary.FileTypes[outcome.kind]++
		if outcome.usable {
			summary.Processed++
			tables = append(tables, outcome.tables...)
		} else {
			summary.Failed++
		}
	}

	// STAGE 3: merge with priority dedup.
	merged := p.mrg.Merge(tables...)
	if len(merged) == 0 {
		return &types.AnalysisResult{
			Success:     false,
			FileSummary: summary,
			Error:       errNoData,
		}
	}

	// STAGE 4: final annotation pass.
	p.cat.Annotate(merged)

	// STAGE 5: metrics.
	return &types.AnalysisResult{
		Success:      true,
		FileSummary:  summary,
		TotalReturns: len(merged),
		Returns:      merged,
		Insights:     insights.Aggregate(merged, sales),
	}
}

// processFile runs detection, extraction, and standardization for one file.
// Every failure mode degrades to an unusable outcome; it never panics the
// batch.
func (p *Pipeline) processFile(file types.InputFile) fileOutcome {
	kind := detector.Detect(file.Content, file.Filename)
	outcome := fileOutcome{kind: kind}

	switch kind {
	case types.KindFBAReturns:
		records, err := fbaparser.Parse(file.Content)
		if err != nil {
			return outcome
		}
		table := p.std.Standardize(records, registry.ScopeFBA, registry.SourceFBAReturns)
		outcome.tables = append(outcome.tables, table)

	case types.KindPDF:
		result, err := pdfparser.Parse(file.Content, p.reg)
		if err != nil {
			return outcome
		}
		outcome.tables = append(outcome.tables,
			p.std.Standardize(result.TableRecords, standardizer.ScopeCanonical, registry.SourceSellerCentralPDF),
			p.std.Standardize(result.TextRecords, standardizer.ScopeCanonical, registry.SourcePDFText),
		)

	case types.KindSpreadsheet:
		records, err := sheetparser.ParseReturns(file.Content, file.Filename)
		if err != nil {
			return outcome
		}
		table := p.std.Standardize(records, registry.ScopeSpreadsheet, registry.SourceReturnReport)
		outcome.tables = append(outcome.tables, table)

	default:
		// Plain text and unknown formats carry no extractable returns.
		return outcome
	}

	for _, table := range outcome.tables {
		if len(table) > 0 {
			outcome.usable = true
			break
		}
	}
	return outcome
}
