// =============================================================================
// Returns Analyzer - File Manager Utilities
// =============================================================================
//
// Shared helpers for the file lifecycle around an analysis run: report
// naming, report writing, and archival of successfully processed inputs.
//
// =============================================================================

package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BuildReportName expands the report name format. Supported placeholders:
//   {uuid}      - a random UUID
//   {timestamp} - the given time as YYYYMMDD_HHMMSS
func BuildReportName(format string, now time.Time) string {
	name := format
	name = strings.ReplaceAll(name, "{uuid}", uuid.New().String())
	name = strings.ReplaceAll(name, "{timestamp}", now.Format("20060102_150405"))
	return name
}

// WriteJSONReport marshals the report payload with indentation and writes
// it into the output directory under the given name. Returns the full path
// of the written file.
func WriteJSONReport(outputDir, name string, payload any) (string, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	path := filepath.Join(outputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// ArchiveFile moves a processed input file into the archive directory. A
// name collision gets a timestamp suffix rather than overwriting the
// earlier archive entry. Falls back to copy+delete when the rename crosses
// filesystems.
func ArchiveFile(path, archiveDir string) error {
	target := filepath.Join(archiveDir, filepath.Base(path))

	if _, err := os.Stat(target); err == nil {
		ext := filepath.Ext(target)
		base := strings.TrimSuffix(target, ext)
		target = fmt.Sprintf("%s_%s%s", base, time.Now().Format("20060102_150405"), ext)
	}

	if err := os.Rename(path, target); err == nil {
		return nil
	}

	if err := copyFile(path, target); err != nil {
		return fmt.Errorf("failed to archive %s: %w", path, err)
	}
	return os.Remove(path)
}

// copyFile copies src to dst, preserving nothing but the bytes.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
