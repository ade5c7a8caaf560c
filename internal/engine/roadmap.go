package engine

import (
	"fmt"
	"strings"
)

var ecommerceMilestones = []string{
	"Discovery, wireframes & visual design",
	"Product catalog & product detail pages",
	"Cart & checkout flow",
	"Payments & customer accounts",
	"Admin panel & third-party integrations",
	"Testing, content load & launch",
}

var informationalMilestones = []string{
	"Discovery, wireframes & visual design",
	"Core pages & content build-out",
	"Integrations & polish",
	"Testing & launch",
}

type costBucket struct {
	label string
	pct   int
}

var ecommerceCostSplit = []costBucket{
	{"Design", 15},
	{"Frontend", 25},
	{"Backend & catalog", 25},
	{"Payments & integrations", 20},
	{"Testing & deployment", 15},
}

var genericCostSplit = []costBucket{
	{"Design", 20},
	{"Development", 45},
	{"Content & integrations", 20},
	{"Testing & deployment", 15},
}

// compressMilestones fits the milestone list into the available number of
// weeks. With enough weeks each milestone gets its own; with fewer, adjacent
// milestones are merged evenly so the plan still covers everything.
func compressMilestones(milestones []string, weeks int) []string {
	if weeks <= 0 || weeks >= len(milestones) {
		lines := make([]string, len(milestones))
		for i, m := range milestones {
			lines[i] = fmt.Sprintf("Week %d: %s", i+1, m)
		}
		return lines
	}
	lines := make([]string, weeks)
	for w := 0; w < weeks; w++ {
		lo := w * len(milestones) / weeks
		hi := (w + 1) * len(milestones) / weeks
		lines[w] = fmt.Sprintf("Week %d: %s", w+1, strings.Join(milestones[lo:hi], " + "))
	}
	return lines
}

func isEcommerceState(s *ConversationState) bool {
	source := s.Collected["website_type"] + " " + s.Collected["pages"] + " " + s.Collected["description"]
	return ecommerceSignalRx.MatchString(NormalizeForMatching(source))
}

// GenerateRoadmap renders the delivery plan and cost breakdown for a
// completed state. The cost split is always computed against a feasible
// number: the user's parsed budget ceiling, or the policy minimum when the
// quoted budget fell below it or never parsed.
func GenerateRoadmap(s *ConversationState) string {
	ecommerce := isEcommerceState(s)

	milestones := informationalMilestones
	split := genericCostSplit
	if ecommerce {
		milestones = ecommerceMilestones
		split = ecommerceCostSplit
	}

	weeks := ParseTimelineWeeks(s.Collected["timeline"])
	lines := compressMilestones(milestones, weeks)

	// The budget floor only exists for website builds. Other services split
	// against the quoted ceiling, or skip the split when nothing parsed.
	total := 0
	rejected := false
	var req BudgetRequirement
	var parsed *BudgetRange
	if s.q.IsWebsite() {
		v := ValidateWebsiteBudget(s.Collected)
		req = v.Requirement
		parsed = v.Parsed
		total = req.Min
		switch {
		case v.Parsed != nil && v.IsValid:
			total = v.Parsed.Max
		case v.Parsed != nil:
			rejected = true
		}
		if total < req.Min {
			total = req.Min
		}
	} else if r, ok := ParseINRBudgetRange(s.Collected["budget"]); ok {
		total = r.Max
	}

	title := s.Collected["organization"]
	if title == "" || title == Skipped {
		title = withDefault(nonSkipped(s.Collected["name"]), "Your Project")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Project Roadmap: %s\n\n", title)
	fmt.Fprintf(&b, "Stack: %s\n", withDefault(nonSkipped(s.Collected["tech"]), "To be finalized"))
	fmt.Fprintf(&b, "Summary: %s\n", withDefault(nonSkipped(s.Collected["description"]), "Custom website build"))
	if pages := nonSkipped(s.Collected["pages"]); pages != "" {
		fmt.Fprintf(&b, "Pages: %s\n", pages)
	}
	if integrations := nonSkipped(s.Collected["integrations"]); integrations != "" && Canonicalize(integrations) != "none" {
		fmt.Fprintf(&b, "Integrations: %s\n", integrations)
	}
	b.WriteString("\nMilestones:\n")
	for _, line := range lines {
		fmt.Fprintf(&b, "- %s\n", line)
	}

	if total > 0 {
		parts := make([]string, len(split))
		for i, bucket := range split {
			parts[i] = fmt.Sprintf("%s %s (%d%%)", bucket.label, formatINR(total*bucket.pct/100), bucket.pct)
		}
		fmt.Fprintf(&b, "\nCost split (est. %s): %s\n", formatINR(total), strings.Join(parts, " | "))
	}

	if rejected {
		fmt.Fprintf(&b, "\nNote: the quoted budget of %s is below the minimum of %s for a %s build; the breakdown above uses the feasible minimum.\n",
			FormatBudgetDisplay(*parsed), formatINR(req.Min), req.Label)
	}
	return strings.TrimRight(b.String(), "\n")
}

func nonSkipped(v string) string {
	if v == Skipped {
		return ""
	}
	return v
}
