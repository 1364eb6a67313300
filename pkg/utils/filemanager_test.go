package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildReportName(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)

	name := BuildReportName("report_{timestamp}.json", now)
	assert.Equal(t, "report_20240601_123045.json", name)

	name = BuildReportName("report_{uuid}.json", now)
	assert.True(t, strings.HasPrefix(name, "report_"))
	assert.True(t, strings.HasSuffix(name, ".json"))
	assert.NotContains(t, name, "{uuid}")

	// Two expansions must not collide.
	assert.NotEqual(t,
		BuildReportName("{uuid}", now),
		BuildReportName("{uuid}", now))
}

func TestWriteJSONReport(t *testing.T) {
	tmpDir := t.TempDir()

	payload := map[string]int{"total_returns": 3}
	path, err := WriteJSONReport(tmpDir, "report.json", payload)
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "report.json"), path)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"total_returns": 3`)
}

func TestArchiveFile(t *testing.T) {
	tmpDir := t.TempDir()
	archiveDir := filepath.Join(tmpDir, "archive")
	assert.NoError(t, os.MkdirAll(archiveDir, 0755))

	source := filepath.Join(tmpDir, "returns.txt")
	assert.NoError(t, os.WriteFile(source, []byte("data"), 0644))

	assert.NoError(t, ArchiveFile(source, archiveDir))

	_, err := os.Stat(source)
	assert.True(t, os.IsNotExist(err))

	moved, err := os.ReadFile(filepath.Join(archiveDir, "returns.txt"))
	assert.NoError(t, err)
	assert.Equal(t, "data", string(moved))
}

func TestArchiveFileNameCollision(t *testing.T) {
	tmpDir := t.TempDir()
	archiveDir := filepath.Join(tmpDir, "archive")
	assert.NoError(t, os.MkdirAll(archiveDir, 0755))

	// An earlier archive entry with the same name already exists.
	assert.NoError(t, os.WriteFile(filepath.Join(archiveDir, "returns.txt"), []byte("old"), 0644))

	source := filepath.Join(tmpDir, "returns.txt")
	assert.NoError(t, os.WriteFile(source, []byte("new"), 0644))

	assert.NoError(t, ArchiveFile(source, archiveDir))

	// The earlier entry is untouched and the new file got a suffixed name.
	old, err := os.ReadFile(filepath.Join(archiveDir, "returns.txt"))
	assert.NoError(t, err)
	assert.Equal(t, "old", string(old))

	entries, err := os.ReadDir(archiveDir)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}
