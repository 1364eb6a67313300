// =============================================================================
// Returns Analyzer - Metrics Aggregator
// =============================================================================
//
// This module computes the quality-insights object from the merged,
// categorized return table: whole-table summary, per-category and per-SKU
// breakdowns, monthly trends, and the threshold-derived recommendations.
//
// THRESHOLDS: every recommendation bound is a strict, non-inclusive
// lower bound (> X, never >= X). A category sitting exactly on a threshold
// produces no recommendation. These values are part of the reporting
// contract; reproduce them exactly.
//
// =============================================================================

package insights

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/ginjaninja78/returns-analyzer/internal/registry"
	"github.com/ginjaninja78/returns-analyzer/internal/types"
)

// Recommendation trigger thresholds, all strict lower bounds on
// percentages.
const (
	qualityDefectThreshold = 20.0
	sizeFitThreshold       = 15.0
	wrongProductThreshold  = 10.0
	returnRateThreshold    = 10.0
)

// lowConfidenceBound marks categorizations worth a human look.
const lowConfidenceBound = 0.3

// Aggregate computes the full insights object. The sales table is optional;
// without it no return rates are produced.
func Aggregate(returns []types.ReturnRecord, sales []types.SalesRecord) *types.Insights {
	out := &types.Insights{}

	out.Summary = summarize(returns, sales)
	out.CategoryStats = categoryBreakdown(returns)
	out.ProductStats = productBreakdown(returns, sales)
	out.Trends = trends(returns)
	out.Recommendations = recommend(out.CategoryStats, out.ProductStats)
	out.Quality = categorizationQuality(returns)

	return out
}

// =============================================================================
// SUMMARY
// =============================================================================

// summarize computes the whole-table counts and date range.
func summarize(returns []types.ReturnRecord, sales []types.SalesRecord) types.Summary {
	summary := types.Summary{TotalReturns: len(returns)}

	skus := make(map[string]bool)
	for i, record := range returns {
		if record.SKU != "" {
			skus[record.SKU] = true
		}
		if i == 0 || record.ReturnDate.Before(summary.DateRange.Start) {
			summary.DateRange.Start = record.ReturnDate
		}
		if i == 0 || record.ReturnDate.After(summary.DateRange.End) {
			summary.DateRange.End = record.ReturnDate
		}
	}
	summary.UniqueProducts = len(skus)

	// Overall return rate: returned units over sold units, all channels.
	if len(sales) > 0 {
		totalSold := 0
		for _, sale := range sales {
			totalSold += sale.Quantity
		}
		if totalSold > 0 {
			totalReturned := 0
			for _, record := range returns {
				totalReturned += record.Quantity
			}
			rate := round2(float64(totalReturned) / float64(totalSold) * 100)
			summary.OverallReturnRate = &rate
		}
	}

	return summary
}

// =============================================================================
// CATEGORY BREAKDOWN
// =============================================================================

// categoryBreakdown counts records per category with percentage-of-total
// and distinct affected SKUs.
func categoryBreakdown(returns []types.ReturnRecord) map[string]types.CategoryStats {
	counts := make(map[string]int)
	skus := make(map[string]map[string]bool)

	for _, record := range returns {
		counts[record.Category]++
		if record.SKU != "" {
			if skus[record.Category] == nil {
				skus[record.Category] = make(map[string]bool)
			}
			skus[record.Category][record.SKU] = true
		}
	}

	total := len(returns)
	breakdown := make(map[string]types.CategoryStats, len(counts))
	for category, count := range counts {
		breakdown[category] = types.CategoryStats{
			Count:            count,
			Percentage:       round2(float64(count) / float64(total) * 100),
			ProductsAffected: len(skus[category]),
		}
	}
	return breakdown
}

// =============================================================================
// PRODUCT BREAKDOWN
// =============================================================================

// productBreakdown computes per-SKU stats and, when sales data covers the
// SKU, its return rate.
func productBreakdown(returns []types.ReturnRecord, sales []types.SalesRecord) map[string]types.ProductStats {
	salesBySKU := make(map[string]int)
	for _, sale := range sales {
		if sale.SKU != "" {
			salesBySKU[sale.SKU] += sale.Quantity
		}
	}

	grouped := make(map[string][]types.ReturnRecord)
	for _, record := range returns {
		if record.SKU != "" {
			grouped[record.SKU] = append(grouped[record.SKU], record)
		}
	}

	stats := make(map[string]types.ProductStats, len(grouped))
	for sku, records := range grouped {
		distribution := make(map[string]int)
		for _, record := range records {
			distribution[record.Category]++
		}

		entry := types.ProductStats{
			TotalReturns:         len(records),
			PrimaryIssue:         mode(distribution),
			CategoryDistribution: distribution,
		}

		if sold := salesBySKU[sku]; sold > 0 {
			rate := round2(float64(len(records)) / float64(sold) * 100)
			entry.ReturnRate = &rate
		}

		stats[sku] = entry
	}
	return stats
}

// mode returns the most frequent category. Ties go to the
// lexicographically smaller name so the result is deterministic.
func mode(distribution map[string]int) string {
	best := ""
	bestCount := 0
	for category, count := range distribution {
		if count > bestCount || (count == bestCount && (best == "" || category < best)) {
			best = category
			bestCount = count
		}
	}
	if best == "" {
		return "Unknown"
	}
	return best
}

// =============================================================================
// TRENDS
// =============================================================================

// trends buckets returns into per-month category counts.
func trends(returns []types.ReturnRecord) types.Trends {
	if len(returns) == 0 {
		return types.Trends{}
	}

	monthly := make(map[string]map[string]int)
	for _, record := range returns {
		month := record.ReturnDate.Format("2006-01")
		if monthly[month] == nil {
			monthly[month] = make(map[string]int)
		}
		monthly[month][record.Category]++
	}
	return types.Trends{Monthly: monthly}
}

// =============================================================================
// RECOMMENDATIONS
// =============================================================================

// recommend derives action items from the breakdowns. Rules are
// order-independent; each fires on its own strict threshold.
func recommend(categories map[string]types.CategoryStats, products map[string]types.ProductStats) []types.Recommendation {
	var recs []types.Recommendation

	if qd, ok := categories["QUALITY_DEFECTS"]; ok && qd.Percentage > qualityDefectThreshold {
		recs = append(recs, types.Recommendation{
			Priority: "HIGH",
			Category: "Quality Control",
			Issue:    fmt.Sprintf("Quality defects account for %s%% of returns", formatPercent(qd.Percentage)),
			Action:   "Implement enhanced quality control inspection at manufacturing",
			Impact:   fmt.Sprintf("Could reduce returns by up to %d units", qd.Count),
		})
	}

	if sf, ok := categories["SIZE_FIT_ISSUES"]; ok && sf.Percentage > sizeFitThreshold {
		recs = append(recs, types.Recommendation{
			Priority: "MEDIUM",
			Category: "Product Information",
			Issue:    fmt.Sprintf("Size/fit issues represent %s%% of returns", formatPercent(sf.Percentage)),
			Action:   "Update product listings with detailed sizing charts and fit guidance",
			Impact:   "Improve customer satisfaction and reduce size-related returns",
		})
	}

	if wp, ok := categories["WRONG_PRODUCT"]; ok && wp.Percentage > wrongProductThreshold {
		recs = append(recs, types.Recommendation{
			Priority: "MEDIUM",
			Category: "Listing Accuracy",
			Issue:    fmt.Sprintf("Wrong product returns at %s%%", formatPercent(wp.Percentage)),
			Action:   "Review and update product images and descriptions for accuracy",
			Impact:   "Reduce customer confusion and wrong product shipments",
		})
	}

	// Product-specific rules run in sorted SKU order for deterministic
	// report output.
	skus := make([]string, 0, len(products))
	for sku := range products {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	for _, sku := range skus {
		data := products[sku]
		if data.ReturnRate == nil || *data.ReturnRate <= returnRateThreshold {
			continue
		}
		recs = append(recs, types.Recommendation{
			Priority: "HIGH",
			Category: "Product-Specific",
			Issue:    fmt.Sprintf("SKU %s has %s%% return rate", sku, formatPercent(*data.ReturnRate)),
			Action:   fmt.Sprintf("Investigate root cause for %s - primary issue: %s", sku, data.PrimaryIssue),
			Impact:   fmt.Sprintf("Address %d returns for this product", data.TotalReturns),
		})
	}

	return recs
}

// =============================================================================
// CATEGORIZATION QUALITY
// =============================================================================

// categorizationQuality reports average confidence and the counts a human
// reviewer should look at.
func categorizationQuality(returns []types.ReturnRecord) *types.CategorizationQuality {
	if len(returns) == 0 {
		return nil
	}

	quality := &types.CategorizationQuality{}
	sum := 0.0
	for _, record := range returns {
		sum += record.CategoryConfidence
		if record.CategoryConfidence < lowConfidenceBound {
			quality.LowConfidenceCount++
		}
		if record.Category == registry.Uncategorized {
			quality.UncategorizedCount++
		}
	}
	quality.AverageConfidence = round3(sum / float64(len(returns)))
	return quality
}

// =============================================================================
// NUMERIC HELPERS
// =============================================================================

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// formatPercent renders an already-rounded percentage without trailing
// zeros (25.5, not 25.50).
func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
