// =============================================================================
// Returns Analyzer - Analyze Command
// =============================================================================
//
// This file defines the 'analyze' command, which runs the full extraction
// and analysis pipeline over the input directory.
//
// COMMAND USAGE:
//   returns-analyzer analyze [flags]
//
// FLAGS:
//   --sales       : Path to an Odoo inventory-forecast export for return rates
//   --file        : Analyze only a single file instead of the input directory
//   --dry-run     : Run the analysis without writing a report or archiving
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Discover return files in the input directory
//   3. Parse the optional sales file
//   4. Run the analysis pipeline (per-file extraction is concurrent)
//   5. Write the JSON insights report
//   6. Archive processed input files
//   7. Print a summary report
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/returns-analyzer/internal/config"
	"github.com/ginjaninja78/returns-analyzer/internal/pipeline"
	"github.com/ginjaninja78/returns-analyzer/internal/sheetparser"
	"github.com/ginjaninja78/returns-analyzer/internal/types"
	"github.com/ginjaninja78/returns-analyzer/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// salesPath points at an optional sales export for return-rate computation.
var salesPath string

// singleFilePath restricts the run to one file.
var singleFilePath string

// dryRun runs the analysis without writing output or archiving inputs.
var dryRun bool

// inputExtensions are the file extensions picked up from the input
// directory. Detection happens later; this is only discovery.
var inputExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// =============================================================================
// ANALYZE COMMAND DEFINITION
// =============================================================================

// analyzeCmd represents the 'analyze' command.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze return files and generate a quality-insights report",
	Long: `The analyze command scans the input directory for return files (PDF, FBA
returns txt, CSV, XLSX), normalizes them into a single canonical return table,
categorizes return reasons, and writes a JSON insights report.

Each file is processed independently; an unreadable file is counted as failed
and does not abort the rest of the batch. Successfully processed inputs are
moved to the archive directory.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze()
	},
}

// init registers the analyze command and its flags.
func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(
		&salesPath,
		"sales",
		"",
		"Path to a sales export (CSV/XLSX) used as the return-rate denominator",
	)

	analyzeCmd.Flags().StringVar(
		&singleFilePath,
		"file",
		"",
		"Analyze only this file instead of scanning the input directory",
	)

	analyzeCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Run the analysis without writing a report or archiving inputs",
	)
}

// =============================================================================
// MAIN ANALYSIS FUNCTION
// =============================================================================

// runAnalyze orchestrates the analysis run.
func runAnalyze() error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	fmt.Println("=== Returns Analyzer ===")

	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	paths, err := discoverInputFiles(mainConfig.InputDir)
	if err != nil {
		return fmt.Errorf("failed to discover input files: %w", err)
	}
	if singleFilePath != "" {
		paths = []string{singleFilePath}
	}
	if len(paths) == 0 {
		fmt.Println("No return files found in the input directory.")
		return nil
	}
	fmt.Printf("Found %d file(s) to analyze\n", len(paths))

	files := make([]types.InputFile, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			// Unreadable on disk: report and continue with the rest.
			fmt.Printf("  ✗ %s: %v\n", filepath.Base(path), err)
			continue
		}
		files = append(files, types.InputFile{Content: content, Filename: filepath.Base(path)})
	}

	// =========================================================================
	// STEP 3: PARSE SALES DATA
	// =========================================================================

	var sales []types.SalesRecord
	if salesPath != "" {
		content, err := os.ReadFile(salesPath)
		if err != nil {
			return fmt.Errorf("failed to read sales file: %w", err)
		}
		sales, err = sheetparser.ParseSales(content, filepath.Base(salesPath))
		if err != nil {
			return fmt.Errorf("failed to parse sales file: %w", err)
		}
		fmt.Printf("Loaded %d sales record(s) from %s\n", len(sales), filepath.Base(salesPath))
	}

	// =========================================================================
	// STEP 4: RUN THE PIPELINE
	// =========================================================================

	fmt.Println("Analyzing returns...")

	result := pipeline.Analyze(files, sales, pipeline.Options{
		MaxConcurrency:          mainConfig.MaxConcurrency,
		RequirePositiveQuantity: mainConfig.RequirePositiveQuantity,
	})

	// =========================================================================
	// STEP 5: WRITE THE REPORT
	// =========================================================================

	reportPath := "(dry run)"
	if !dryRun {
		name := utils.BuildReportName(mainConfig.ReportNameFormat, time.Now())
		reportPath, err = utils.WriteJSONReport(mainConfig.OutputDir, name, result)
		if err != nil {
			return err
		}
	}

	// =========================================================================
	// STEP 6: ARCHIVE PROCESSED INPUTS
	// =========================================================================
	// Inputs are only archived when the whole batch processed cleanly, so a
	// partially failed run leaves everything in place for inspection.

	if !dryRun && singleFilePath == "" && mainConfig.ShouldArchive() &&
		result.Success && result.FileSummary.Failed == 0 {
		for _, path := range paths {
			if err := utils.ArchiveFile(path, mainConfig.InputArchiveDir); err != nil {
				fmt.Printf("  ! could not archive %s: %v\n", filepath.Base(path), err)
			}
		}
	}

	// =========================================================================
	// STEP 7: PRINT SUMMARY
	// =========================================================================

	printSummary(result, reportPath, time.Since(startTime))

	if !result.Success {
		return fmt.Errorf("%s", result.Error)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// discoverInputFiles scans the input directory for candidate return files.
func discoverInputFiles(inputDir string) ([]string, error) {
	var files []string

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if inputExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// printSummary writes the run summary to stdout.
func printSummary(result *types.AnalysisResult, reportPath string, elapsed time.Duration) {
	fmt.Println("\n=== Analysis Complete ===")
	fmt.Printf("Files processed: %d\n", result.FileSummary.Processed)
	fmt.Printf("Files failed:    %d\n", result.FileSummary.Failed)
	fmt.Printf("Total returns:   %d\n", result.TotalReturns)
	fmt.Printf("Report:          %s\n", reportPath)
	fmt.Printf("Time elapsed:    %s\n", elapsed)

	if verbose && result.Insights != nil {
		fmt.Println("\nCategory breakdown:")
		categories := make([]string, 0, len(result.Insights.CategoryStats))
		for category := range result.Insights.CategoryStats {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			stats := result.Insights.CategoryStats[category]
			fmt.Printf("  %-24s %4d (%.2f%%)\n", category, stats.Count, stats.Percentage)
		}

		for _, rec := range result.Insights.Recommendations {
			fmt.Printf("\n[%s] %s\n  Issue:  %s\n  Action: %s\n", rec.Priority, rec.Category, rec.Issue, rec.Action)
		}
	}

	if !result.Success {
		fmt.Printf("\n✗ %s\n", result.Error)
	}
}
