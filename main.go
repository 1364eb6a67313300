// =============================================================================
// Returns Analyzer - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Returns Analyzer CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   returns-analyzer analyze       - Analyze all return files in the input directory
//   returns-analyzer version       - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/returns-analyzer/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
