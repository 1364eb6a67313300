// =============================================================================
// Returns Analyzer - Configuration Module
// =============================================================================
//
// This module loads the main application configuration. Rule tables (reason
// codes, category patterns, header mappings) are deliberately NOT here:
// they are fixed business vocabulary compiled into the registry package,
// not per-deployment settings.
//
// The configuration system is designed to be:
//   - Forgiving: every option has a default, an empty file is valid
//   - Validated: required directories are created on load
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration, loaded from the
// main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for return files to analyze.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the generated analysis reports.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir is where successfully processed input files are
	// moved. Files that failed stay in InputDir for inspection.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// ReportNameFormat defines report file names. Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	// Default: "returns_analysis_{timestamp}_{uuid}.json"
	ReportNameFormat string `yaml:"report_name_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency caps how many files are extracted at once.
	// Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// RequirePositiveQuantity drops records whose quantity is missing,
	// non-numeric, or non-positive instead of defaulting them to 1.
	// Default: false
	RequirePositiveQuantity bool `yaml:"require_positive_quantity"`

	// ArchiveProcessed moves successfully processed inputs into the
	// archive directory after a run.
	// Default: true
	ArchiveProcessed *bool `yaml:"archive_processed"`
}

// ShouldArchive resolves the ArchiveProcessed default.
func (c *MainConfig) ShouldArchive() bool {
	return c.ArchiveProcessed == nil || *c.ArchiveProcessed
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file. A missing
// file is not an error; defaults apply.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Run on defaults.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&config)

	if err := ensureDirectories(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.ReportNameFormat == "" {
		config.ReportNameFormat = "returns_analysis_{timestamp}_{uuid}.json"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
}

// ensureDirectories creates the working directories if they do not exist.
func ensureDirectories(config *MainConfig) error {
	dirs := []string{
		config.InputDir,
		config.OutputDir,
		config.InputArchiveDir,
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}
