// =============================================================================
// Returns Analyzer - Rule Registries
// =============================================================================
//
// This module holds every static rule table the pipeline consults:
//   - The marketplace reason-code table (code -> human-readable description)
//   - The ordered reason-phrase rules (free text -> reason code)
//   - The ordered header-mapping rules, scoped per source format
//   - The return-reason categories (regex patterns + keywords)
//   - The source-priority ranking used for merge deduplication
//
// All of it is immutable configuration built once at process start by
// Default() and passed by reference into each component. Nothing here is a
// mutable global, so a single Registry is safe to share across concurrent
// pipeline runs without locking.
//
// ORDERING IS LOAD-BEARING: the header rules, reason-phrase rules, and
// category list are slices, not maps. Their declaration order encodes
// business priority; reordering entries silently changes classification
// outcomes.
//
// =============================================================================

package registry

import (
	"regexp"
	"strings"
)

// =============================================================================
// SOURCE TAGS
// =============================================================================

// Source tags stamped on standardized records. The merger ranks these; see
// SourcePriority.
const (
	SourceFBAReturns       = "FBA_RETURNS"
	SourceSellerCentralPDF = "SELLER_CENTRAL_PDF"
	SourcePDFText          = "PDF_TEXT"
	SourceReturnReport     = "Pivot Return Report"
	SourceOdooInventory    = "Odoo Inventory Forecast"
)

// Uncategorized is the sentinel category for reasons that score below the
// confidence floor (or are empty).
const Uncategorized = "UNCATEGORIZED"

// =============================================================================
// HEADER RULES
// =============================================================================

// HeaderScope selects which header-mapping rule table applies to a source.
type HeaderScope string

const (
	// ScopeFBA matches the exact hyphenated column names of the FBA
	// returns feed.
	ScopeFBA HeaderScope = "fba"

	// ScopePDF matches the looser header variants seen in Seller Central
	// PDF tables, by substring.
	ScopePDF HeaderScope = "pdf"

	// ScopeSpreadsheet matches the column vocabulary of ad-hoc CSV/XLSX
	// return reports (Pivot Return Report and similar), by substring.
	ScopeSpreadsheet HeaderScope = "spreadsheet"

	// ScopeSales matches Odoo inventory-forecast sales columns, by
	// substring.
	ScopeSales HeaderScope = "sales"
)

// HeaderRule maps a raw header pattern onto a canonical field name.
type HeaderRule struct {
	// Pattern is compared against the lower-cased, trimmed raw header.
	// Exact match for ScopeFBA, substring match for the other scopes.
	Pattern string

	// Field is the canonical field the header feeds.
	Field string
}

// =============================================================================
// REASON RULES
// =============================================================================

// ReasonRule maps a lower-cased phrase found in raw reason text onto a
// reason code. During standardization ALL matching rules are applied in
// table order, so the LAST matching rule wins; later entries deliberately
// override earlier, weaker ones.
type ReasonRule struct {
	Phrase string
	Code   string
}

// =============================================================================
// CATEGORIES
// =============================================================================

// Category is one return-reason category: a name plus its weighted match
// signals. Pattern matches score 2 each, keyword hits score 1 each; the
// categorizer normalizes by the category's maximum possible score.
type Category struct {
	Name     string
	Patterns []*regexp.Regexp
	Keywords []string
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry bundles every rule table. Treat as read-only after Default().
type Registry struct {
	// ReasonCodes maps marketplace reason codes to human-readable
	// descriptions.
	ReasonCodes map[string]string

	// ReasonRules is the ordered phrase -> code table.
	ReasonRules []ReasonRule

	// HeaderRules holds the ordered header-mapping table per scope.
	HeaderRules map[HeaderScope][]HeaderRule

	// Categories is the ordered category list. Declaration order is the
	// tie-break when two categories score identically.
	Categories []Category

	// SourcePriority ranks source tags for merge deduplication; lower is
	// higher priority. Unknown sources rank last.
	SourcePriority map[string]int

	// TableKeywords are the domain words a header row must contain for a
	// grid to be considered a candidate return table.
	TableKeywords []string
}

// NormalizeHeader maps a raw header onto its canonical field under the given
// scope. It is case- and whitespace-insensitive. Returns ("", false) when no
// rule matches. Collisions are resolved by rule order: the most specific
// patterns are authored first, and the first match wins.
func (r *Registry) NormalizeHeader(scope HeaderScope, raw string) (string, bool) {
	h := normalizeKey(raw)
	if h == "" {
		return "", false
	}

	exact := scope == ScopeFBA
	for _, rule := range r.HeaderRules[scope] {
		if exact {
			if h == rule.Pattern {
				return rule.Field, true
			}
			continue
		}
		if containsPattern(h, rule.Pattern) {
			return rule.Field, true
		}
	}
	return "", false
}

// Priority returns the merge rank for a source tag. Sources not in the
// table rank after every known source.
func (r *Registry) Priority(source string) int {
	if p, ok := r.SourcePriority[source]; ok {
		return p
	}
	return len(r.SourcePriority) + 1
}

// =============================================================================
// DEFAULT REGISTRY
// =============================================================================

// Default builds the full rule registry. Called once at startup; the result
// is shared by reference.
func Default() *Registry {
	return &Registry{
		ReasonCodes:    reasonCodes(),
		ReasonRules:    reasonRules(),
		HeaderRules:    headerRules(),
		Categories:     categories(),
		SourcePriority: sourcePriority(),
		TableKeywords:  []string{"return", "order", "reason"},
	}
}

// reasonCodes is the marketplace return reason code table.
func reasonCodes() map[string]string {
	return map[string]string{
		"DEFECTIVE":                      "Product defective or doesn't work",
		"NOT_COMPATIBLE":                 "Item not compatible",
		"QUALITY_NOT_ADEQUATE":           "Quality not adequate",
		"DAMAGED_BY_FC":                  "Damaged by fulfillment center",
		"DAMAGED_BY_CARRIER":             "Damaged by carrier",
		"CUSTOMER_DAMAGED":               "Customer damaged",
		"MISSING_PARTS":                  "Missing parts or accessories",
		"FOUND_BETTER_PRICE":             "Found better price",
		"NOT_AS_DESCRIBED":               "Product not as described",
		"WRONG_ITEM":                     "Wrong item sent",
		"UNWANTED_ITEM":                  "No longer wanted",
		"UNAUTHORIZED_PURCHASE":          "Bought by mistake",
		"MISSED_ESTIMATED_DELIVERY":      "Missed estimated delivery",
		"SWITCHEROO":                     "Different product returned",
		"UNDELIVERABLE_FAILED_DELIVERY":  "Undeliverable",
		"UNDELIVERABLE_UNABLE_TO_DELIVER": "Unable to deliver",
		"ORDERED_WRONG_ITEM":             "Customer ordered wrong item",
	}
}

// reasonRules is the ordered free-text phrase table. All matching rules are
// applied in sequence (last match wins), so more specific phrases belong
// later in the table.
func reasonRules() []ReasonRule {
	return []ReasonRule{
		{"defective", "DEFECTIVE"},
		{"not working", "DEFECTIVE"},
		{"broken", "DEFECTIVE"},
		{"damaged", "CUSTOMER_DAMAGED"},
		{"wrong item", "WRONG_ITEM"},
		{"not as described", "NOT_AS_DESCRIBED"},
		{"doesnt fit", "NOT_COMPATIBLE"},
		{"changed mind", "UNWANTED_ITEM"},
		{"no longer needed", "UNWANTED_ITEM"},
		{"bought by mistake", "UNAUTHORIZED_PURCHASE"},
	}
}

// headerRules builds the per-scope header tables. Most specific patterns
// come first within each scope.
func headerRules() map[HeaderScope][]HeaderRule {
	return map[HeaderScope][]HeaderRule{
		// The FBA feed uses fixed hyphenated names, matched exactly.
		// Note: the feed's "reason" column carries a reason CODE, not free
		// text, so it maps straight onto reason_code.
		ScopeFBA: {
			{"return-date", "return_date"},
			{"order-id", "order_id"},
			{"sku", "sku"},
			{"asin", "asin"},
			{"fnsku", "fnsku"},
			{"product-name", "product_name"},
			{"quantity", "quantity"},
			{"fulfillment-center-id", "fc_id"},
			{"detailed-disposition", "disposition"},
			{"reason", "reason_code"},
			{"status", "status"},
			{"license-plate-number", "lpn"},
			{"customer-comments", "customer_comments"},
		},

		// Seller Central PDF table headers, matched by substring.
		ScopePDF: {
			{"order id", "order_id"},
			{"order number", "order_id"},
			{"order-id", "order_id"},
			{"order", "order_id"},
			{"sku", "sku"},
			{"asin", "asin"},
			{"return reason", "reason"},
			{"reason", "reason"},
			{"product", "product_name"},
			{"item", "product_name"},
			{"qty", "quantity"},
			{"quantity", "quantity"},
			{"return date", "return_date"},
			{"date", "return_date"},
			{"buyer comments", "customer_comments"},
			{"comments", "customer_comments"},
		},

		// Ad-hoc CSV/XLSX return reports (Pivot Return Report vocabulary),
		// matched by substring.
		ScopeSpreadsheet: {
			{"product name", "product_name"},
			{"product code", "sku"},
			{"internal reference", "sku"},
			{"item code", "sku"},
			{"part number", "sku"},
			{"sku", "sku"},
			{"asin", "asin"},
			{"return quantity", "quantity"},
			{"returned qty", "quantity"},
			{"qty", "quantity"},
			{"quantity", "quantity"},
			{"return date", "return_date"},
			{"returned date", "return_date"},
			{"rma date", "return_date"},
			{"date", "return_date"},
			{"return reason", "reason"},
			{"reason code", "reason_code"},
			{"reason", "reason"},
			{"customer comments", "customer_comments"},
			{"comments", "customer_comments"},
			{"notes", "customer_comments"},
			{"order number", "order_id"},
			{"order id", "order_id"},
			{"order", "order_id"},
			{"rma number", "rma_number"},
			{"rma", "rma_number"},
			{"marketplace", "channel"},
			{"sales channel", "channel"},
			{"channel", "channel"},
			{"item", "product_name"},
			{"product", "product_name"},
		},

		// Odoo inventory-forecast sales exports, matched by substring.
		ScopeSales: {
			{"product code", "sku"},
			{"internal reference", "sku"},
			{"sku", "sku"},
			{"product name", "product_name"},
			{"product/product", "product_name"},
			{"product", "product_name"},
			{"forecasted quantity", "quantity"},
			{"qty", "quantity"},
			{"quantity", "quantity"},
			{"date from", "date"},
			{"date", "date"},
			{"warehouse", "warehouse"},
			{"location", "warehouse"},
			{"sales channel", "channel"},
		},
	}
}

// sourcePriority ranks sources for merge dedup. Direct feeds outrank
// spreadsheet reports, which outrank PDF-derived records.
func sourcePriority() map[string]int {
	return map[string]int{
		SourceFBAReturns:       0,
		SourceReturnReport:     1,
		SourceSellerCentralPDF: 2,
		SourcePDFText:          3,
	}
}

// categories builds the fixed category list. Slice order is the score
// tie-break (first declared wins), which is implementation-defined rather
// than a semantic ranking.
func categories() []Category {
	return []Category{
		{
			Name: "SIZE_FIT_ISSUES",
			Patterns: compile(
				`too\s+(small|large|big|tight|loose)`,
				`doesn'?t?\s+fit`,
				`wrong\s+size`,
				`size\s+(issue|problem)`,
				`(small|large)r?\s+than\s+expected`,
				`runs?\s+(small|large|big)`,
				`fit\s+(issue|problem)`,
				`not\s+the\s+right\s+size`,
			),
			Keywords: []string{"size", "fit", "small", "large", "tight", "loose", "big"},
		},
		{
			Name: "QUALITY_DEFECTS",
			Patterns: compile(
				`defective`,
				`broken`,
				`damaged`,
				`doesn'?t?\s+work`,
				`poor\s+quality`,
				`fell?\s+apart`,
				`cheap`,
				`malfunction`,
				`not\s+working`,
				`stopped?\s+working`,
				`dead\s+on\s+arrival`,
				`doa`,
				`faulty`,
				`ripped`,
				`torn`,
				`hole`,
			),
			Keywords: []string{"defect", "broken", "damage", "quality", "malfunction", "faulty", "rip", "tear"},
		},
		{
			Name: "WRONG_PRODUCT",
			Patterns: compile(
				`wrong\s+(item|product|model|color)`,
				`not\s+as\s+described`,
				`incorrect\s+(item|product)`,
				`different\s+than\s+(pictured|described|ordered)`,
				`not\s+what\s+i\s+ordered`,
				`received?\s+(wrong|different)`,
				`misrepresented`,
			),
			Keywords: []string{"wrong", "incorrect", "different", "not as described", "misrepresent"},
		},
		{
			Name: "BUYER_MISTAKE",
			Patterns: compile(
				`bought?\s+by\s+mistake`,
				`accidentally\s+ordered`,
				`ordered?\s+(wrong|incorrect)`,
				`my\s+(mistake|fault|error)`,
				`didn'?t?\s+mean\s+to`,
				`wrong\s+selection`,
				`user\s+error`,
			),
			Keywords: []string{"mistake", "accident", "error", "fault", "wrong order"},
		},
		{
			Name: "NO_LONGER_NEEDED",
			Patterns: compile(
				`no\s+longer\s+need`,
				`don'?t?\s+need`,
				`changed?\s+my?\s+mind`,
				`found?\s+(better|cheaper|different)`,
				`not\s+needed?\s+anymore`,
				`plans?\s+changed`,
				`duplicate\s+order`,
			),
			Keywords: []string{"no longer", "not need", "changed mind", "duplicate"},
		},
		{
			Name: "FUNCTIONALITY_ISSUES",
			Patterns: compile(
				`not\s+comfortable`,
				`hard\s+to\s+use`,
				`difficult\s+to\s+(use|operate|handle)`,
				`unstable`,
				`complicated`,
				`confusing`,
				`uncomfortable`,
				`awkward`,
				`not\s+user\s+friendly`,
				`design\s+(flaw|issue|problem)`,
			),
			Keywords: []string{"uncomfortable", "difficult", "hard to use", "unstable", "awkward", "design"},
		},
		{
			Name: "COMPATIBILITY_ISSUES",
			Patterns: compile(
				`doesn'?t?\s+fit\s+(my|the|our)?\s*(toilet|chair|walker|bed)`,
				`not\s+compatible`,
				`incompatible`,
				`won'?t?\s+(fit|work)\s+with`,
				`doesn'?t?\s+match`,
				`not\s+suitable\s+for`,
			),
			Keywords: []string{"compatible", "fit toilet", "fit chair", "match", "suitable"},
		},
	}
}

// compile compiles a list of case-insensitive patterns.
func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// =============================================================================
// MATCHING HELPERS
// =============================================================================

// normalizeKey lower-cases and trims a raw header for matching.
func normalizeKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// containsPattern is the substring test used by the fuzzy scopes.
func containsPattern(header, pattern string) bool {
	return strings.Contains(header, pattern)
}
