// =============================================================================
// Returns Analyzer - Source Merger
// =============================================================================
//
// This module combines the per-source canonical tables into one. Dedup is
// by order id with a fixed source-priority tie-break: direct feeds beat
// spreadsheet reports beat PDF-derived records. The ranking breaks ties
// only; it is not a quality judgment persisted on the record.
//
// Records without an order id are never deduplicated against each other —
// there is nothing safe to key them on — so each one is retained.
//
// The output is sorted by return date, newest first. That is a
// presentation convention for downstream consumers, not a correctness
// requirement.
//
// =============================================================================

package merger

import (
	"sort"

	"github.com/ginjaninja78/returns-analyzer/internal/registry"
	"github.com/ginjaninja78/returns-analyzer/internal/types"
)

// Merger combines per-source return tables.
type Merger struct {
	reg *registry.Registry
}

// New creates a Merger.
func New(reg *registry.Registry) *Merger {
	return &Merger{reg: reg}
}

// Merge concatenates the input tables and deduplicates by order id, keeping
// the record from the highest-priority source per id.
func (m *Merger) Merge(tables ...[]types.ReturnRecord) []types.ReturnRecord {
	var combined []types.ReturnRecord
	for _, table := range tables {
		combined = append(combined, table...)
	}
	if len(combined) == 0 {
		return nil
	}

	// Stable sort by source priority so that, within an order id group,
	// the higher-priority source comes first and "keep first occurrence"
	// implements the tie-break.
	sort.SliceStable(combined, func(i, j int) bool {
		return m.reg.Priority(combined[i].Source) < m.reg.Priority(combined[j].Source)
	})

	seen := make(map[string]bool, len(combined))
	merged := make([]types.ReturnRecord, 0, len(combined))
	for _, record := range combined {
		if record.OrderID != "" {
			if seen[record.OrderID] {
				continue
			}
			seen[record.OrderID] = true
		}
		merged = append(merged, record)
	}

	// Presentation order: newest returns first.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ReturnDate.After(merged[j].ReturnDate)
	})

	return merged
}
