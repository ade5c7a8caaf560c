package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// BudgetRequirement is the minimum acceptable budget derived from the tech
// and pages slots. It is recomputed on demand, never stored.
type BudgetRequirement struct {
	Key       string
	Label     string
	Min       int
	Wants3D   bool
	Range     *BudgetRange
	BaseKey   string
	BaseLabel string
}

type budgetTier struct {
	key   string
	label string
	min   int
	// Canonical needles. Short ones need a whole-token hit, six characters
	// and up match as canonical substrings.
	needles []string
}

// Ordered by ascending minimum. When several tiers match the same tech
// string the highest minimum wins.
var budgetTiers = []budgetTier{
	{key: "wordpress", label: "WordPress", min: 30_000, needles: []string{"wordpress", "wp", "woocommerce"}},
	{key: "shopify", label: "Shopify", min: 30_000, needles: []string{"shopify"}},
	{key: "custom_shopify", label: "Custom Shopify (Hydrogen)", min: 80_000, needles: []string{"customshopify", "hydrogen", "headlessshopify"}},
	{key: "custom_code", label: "Custom Website (React + Node.js)", min: 150_000, needles: []string{"react", "reactjs", "node", "nodejs", "mern", "pern", "customcode", "customwebsite", "express", "mongodb"}},
	{key: "nextjs", label: "Next.js Website", min: 175_000, needles: []string{"next", "nextjs"}},
}

// Fallback when the tech slot names no known stack.
var defaultTier = budgetTier{key: "website", label: "Website", min: 30_000}

var threeDSignalRx = regexp.MustCompile(`(?i)\b3\s*-?d\b|virtual\s+try|try-?on|\bar\b|augmented\s+reality|shade\s+match`)

func tierMatches(tier budgetTier, canonText string, tokens map[string]bool) bool {
	for _, needle := range tier.needles {
		if len(needle) < 6 {
			if tokens[needle] || tokens[needle+"js"] {
				return true
			}
			continue
		}
		if strings.Contains(canonText, needle) {
			return true
		}
	}
	return false
}

// ResolveBudgetRequirement computes the minimum budget for a website build
// from the tech, pages and description slots. 3D or AR signals upgrade the
// base tier: WordPress becomes a fixed 3D WordPress tier, anything else a 3D
// custom build with a display range.
func ResolveBudgetRequirement(tech, pages, description string) BudgetRequirement {
	norm := NormalizeForMatching(tech)
	canonText := Canonicalize(norm)
	tokens := canonicalTokenSet(norm)

	base := defaultTier
	matchedAny := false
	for _, tier := range budgetTiers {
		if tierMatches(tier, canonText, tokens) {
			if !matchedAny || tier.min >= base.min {
				base = tier
			}
			matchedAny = true
		}
	}

	req := BudgetRequirement{
		Key:       base.key,
		Label:     base.label,
		Min:       base.min,
		BaseKey:   base.key,
		BaseLabel: base.label,
	}
	if threeDSignalRx.MatchString(pages + " " + description) {
		req.Wants3D = true
		if base.key == "wordpress" {
			req.Key = "3d_wordpress"
			req.Label = "3D WordPress"
			req.Min = 45_000
		} else {
			req.Key = "3d_custom"
			req.Label = "3D Custom Website"
			if req.Min < 100_000 {
				req.Min = 100_000
			}
			req.Range = &BudgetRange{Min: req.Min, Max: 400_000}
		}
	}
	return req
}

// Validation reasons.
const (
	BudgetUnparsed = "unparsed"
	BudgetTooLow   = "too_low"
)

// BudgetValidation is the outcome of checking a collected budget against
// the policy minimum.
type BudgetValidation struct {
	IsValid     bool
	Reason      string
	Requirement BudgetRequirement
	Parsed      *BudgetRange
}

// ValidateWebsiteBudget checks the collected budget slot against the
// resolved requirement. Unparseable, skipped or "Flexible" budgets never
// block the conversation; parsed amounts below the minimum do.
func ValidateWebsiteBudget(collected map[string]string) BudgetValidation {
	req := ResolveBudgetRequirement(collected["tech"], pagesForPolicy(collected), collected["description"])
	v := BudgetValidation{IsValid: true, Requirement: req}

	budget := collected["budget"]
	if budget == "" || budget == Skipped || budget == Flexible {
		v.Reason = BudgetUnparsed
		return v
	}
	parsed, ok := ParseINRBudgetRange(budget)
	if !ok {
		v.Reason = BudgetUnparsed
		return v
	}
	v.Parsed = &parsed
	if parsed.Max < req.Min {
		v.IsValid = false
		v.Reason = BudgetTooLow
	}
	return v
}

func pagesForPolicy(collected map[string]string) string {
	pages := collected["pages"]
	if inferred := collected[pagesInferredKey]; inferred != "" {
		pages = pages + " " + inferred
	}
	return pages
}

// BudgetSuggestions renders the requirement as budget chips, always ending
// with the change-technology escape option.
func BudgetSuggestions(req BudgetRequirement) []string {
	first := fmt.Sprintf("%s (%s+)", req.Label, formatINR(req.Min))
	if req.Range != nil {
		first = fmt.Sprintf("%s (%s - %s)", req.Label, formatINR(req.Range.Min), formatINR(req.Range.Max))
	}
	return []string{first, ChangeTechnologyOption}
}
