// =============================================================================
// Returns Analyzer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (returns-analyzer)
//   ├── analyzeCmd (returns-analyzer analyze)
//   └── versionCmd (returns-analyzer version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose output when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "returns-analyzer",

	Short: "Returns Analyzer - Normalize marketplace return reports into quality insights",

	Long: `Returns Analyzer is a CLI tool that ingests heterogeneous return reports
(FBA returns feeds, Seller Central PDFs, ad-hoc CSV/XLSX return reports) and
normalizes them into a single canonical return table for quality-management
reporting.

Key Features:
  - Automatic file-type detection from name and content
  - Table and free-text extraction from PDF exports
  - Header reconciliation across divergent column vocabularies
  - Cross-source deduplication with fixed source priority
  - Pattern-based return-reason categorization with confidence scoring
  - Return-rate metrics and threshold-driven recommendations

Example Usage:
  returns-analyzer analyze                       # Analyze all files in the input directory
  returns-analyzer analyze --sales ./sales.xlsx  # Include sales data for return rates
  returns-analyzer analyze --config ./my.yaml    # Use a custom configuration file`,

	Run: func(cmd *cobra.Command, args []string) {
		// No subcommand: print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// Persistent flags are available to this command and all subcommands.

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output",
	)
}
