package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// proposalFields is the normalized bucket set every service's answers are
// classified into before rendering.
type proposalFields struct {
	name         string
	company      string
	description  string
	websiteType  string
	pages        string
	tech         string
	budget       string
	timeline     string
	deployment   string
	domainStatus string
	designStatus string
	integrations string
}

var (
	deploymentRx   = regexp.MustCompile(`(?i)\b(vercel|netlify|aws|azure|gcp|heroku|render|railway|digital\s?ocean|hostinger|cpanel|hosting)\b`)
	domainStatusRx = regexp.MustCompile(`(?i)\bdomain\b|\.com\b|\.in\b|\bgodaddy\b|\bnamecheap\b`)
	designStatusRx = regexp.MustCompile(`(?i)\bdesign\b|\bfigma\b|\bmockups?\b|\bwireframes?\b|\bui\s?kit\b`)
	websiteTypeRx  = regexp.MustCompile(`(?i)\b(ecommerce|online\s+store|portfolio|blog|business\s+website|informational|landing\s+page|booking|saas|marketplace|news|community)\b`)
	integrationRx  = regexp.MustCompile(`(?i)\b(payment|razorpay|stripe|paypal|upi|whatsapp|email|newsletter|analytics|crm|api|sms|maps?|chat)\b`)
	pagesListRx    = regexp.MustCompile(`(?i)\b(home|about|contact|shop|store|cart|checkout|gallery|blog|faq|account|login|admin|dashboard|wishlist|reviews)\b`)
	affirmativeRx  = regexp.MustCompile(`(?i)\b(yes|yeah|already|have|own|purchased|bought|ready|booked)\b`)
	negativeRx     = regexp.MustCompile(`(?i)\b(no|not|don'?t|need|nothing|none|scratch|yet)\b`)
)

func looksLikeBudget(v string) bool {
	if v == Flexible {
		return true
	}
	_, ok := ParseINRBudgetRange(v)
	return ok && (strings.ContainsAny(v, "₹") || inrAmountRx.MatchString(v))
}

func looksLikeTimeline(v string) bool {
	return timelineSpanRx.MatchString(v) || asapRx.MatchString(v) || monthNameRx.MatchString(v)
}

func looksLikeTechStack(v string) bool {
	return ExtractTechDetails(v) != ""
}

func looksLikePages(v string) bool {
	return len(pagesListRx.FindAllString(v, -1)) >= 2 ||
		(strings.Contains(v, ",") && pagesListRx.MatchString(v))
}

// classifyCollected sorts every non-empty answer into a proposal bucket.
// Slot keys vary by service, so key hints are tried first and content
// patterns decide the rest; whatever remains falls through to the
// name/company/description buckets on a first-assignment-wins basis.
func classifyCollected(collected map[string]string, order []QuestionSpec) proposalFields {
	var f proposalFields
	assign := func(target *string, value string) bool {
		if *target != "" {
			return false
		}
		*target = value
		return true
	}

	for _, q := range order {
		v := strings.TrimSpace(collected[q.Key])
		if v == "" || v == Skipped {
			continue
		}
		key := strings.ToLower(q.Key)
		switch {
		case isOrganizationKey(key):
			assign(&f.company, v)
		case strings.Contains(key, "name"):
			assign(&f.name, v)
		case strings.Contains(key, "budget") || strings.Contains(key, "price"):
			assign(&f.budget, v)
		case strings.Contains(key, "timeline") || strings.Contains(key, "deadline"):
			assign(&f.timeline, v)
		case strings.Contains(key, "tech") || strings.Contains(key, "stack"):
			assign(&f.tech, v)
		case strings.Contains(key, "page") || strings.Contains(key, "screen") || strings.Contains(key, "feature"):
			assign(&f.pages, v)
		case strings.Contains(key, "integration"):
			assign(&f.integrations, v)
		case strings.Contains(key, "design"):
			assign(&f.designStatus, v)
		case strings.Contains(key, "domain"):
			assign(&f.domainStatus, v)
		case strings.Contains(key, "deploy") || strings.Contains(key, "hosting"):
			assign(&f.deployment, v)
		case strings.Contains(key, "type"):
			assign(&f.websiteType, v)
		case strings.Contains(key, "description") || strings.Contains(key, "about"):
			assign(&f.description, v)
		default:
			classifyByContent(&f, v)
		}
	}
	return f
}

// classifyByContent places a value whose key gave no hint, by what the text
// itself looks like.
func classifyByContent(f *proposalFields, v string) {
	assign := func(target *string) bool {
		if *target != "" {
			return false
		}
		*target = v
		return true
	}
	switch {
	case looksLikeBudget(v):
		if assign(&f.budget) {
			return
		}
	case looksLikeTimeline(v):
		if assign(&f.timeline) {
			return
		}
	case looksLikeTechStack(v):
		if assign(&f.tech) {
			return
		}
	case deploymentRx.MatchString(v):
		if assign(&f.deployment) {
			return
		}
	case looksLikePages(v):
		if assign(&f.pages) {
			return
		}
	case integrationRx.MatchString(v):
		if assign(&f.integrations) {
			return
		}
	case designStatusRx.MatchString(v):
		if assign(&f.designStatus) {
			return
		}
	case domainStatusRx.MatchString(v):
		if assign(&f.domainStatus) {
			return
		}
	case websiteTypeRx.MatchString(v) && len(strings.Fields(v)) <= 4:
		if assign(&f.websiteType) {
			return
		}
	}
	// First assignment wins across the free-text buckets.
	switch {
	case len(strings.Fields(v)) >= 6:
		if assign(&f.description) {
			return
		}
	case f.name == "":
		f.name = v
	case f.company == "":
		f.company = v
	default:
		assign(&f.description)
	}
}

// domainPhrase maps a free-text domain answer to professional wording.
func domainPhrase(v string) string {
	switch {
	case v == "":
		return "To be discussed"
	case affirmativeRx.MatchString(v):
		return "Domain already owned by client"
	case negativeRx.MatchString(v):
		return "Domain purchase assistance required"
	default:
		return "To be discussed"
	}
}

func designPhrase(v string) string {
	switch {
	case v == "":
		return "To be discussed"
	case affirmativeRx.MatchString(v):
		return "Design assets provided by client"
	case negativeRx.MatchString(v):
		return "Design to be created from scratch"
	default:
		return "To be discussed"
	}
}

func withDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// GenerateProposal renders the final collected slot set as a structured
// client-facing proposal, wrapped in [PROPOSAL_DATA] delimiters for the
// display layer to extract.
func GenerateProposal(s *ConversationState) string {
	f := classifyCollected(s.Collected, s.q.Questions)

	if f.websiteType == "" {
		source := f.description + " " + f.pages
		if ecommerceSignalRx.MatchString(NormalizeForMatching(source)) {
			f.websiteType = "E-commerce"
		}
	}

	budget := f.budget
	if r, ok := ParseINRBudgetRange(budget); ok {
		budget = FormatBudgetDisplay(r)
	}

	var b strings.Builder
	b.WriteString("[PROPOSAL_DATA]\n")
	b.WriteString("# Project Proposal\n\n")
	fmt.Fprintf(&b, "## Client\n- Name: %s\n- Company: %s\n\n",
		withDefault(f.name, "To be confirmed"),
		withDefault(f.company, "To be confirmed"))
	fmt.Fprintf(&b, "## Overview\n%s\n\n",
		withDefault(f.description, "Custom Project"))
	fmt.Fprintf(&b, "## Scope\n- Type: %s\n- Pages/Screens: %s\n- Integrations: %s\n\n",
		withDefault(f.websiteType, "Custom Project"),
		withDefault(f.pages, "As per requirement"),
		withDefault(f.integrations, "None specified"))
	fmt.Fprintf(&b, "## Technical Approach\n- Stack: %s\n- Deployment: %s\n- Domain: %s\n- Design: %s\n\n",
		withDefault(f.tech, "To be finalized"),
		withDefault(f.deployment, "To be discussed"),
		domainPhrase(f.domainStatus),
		designPhrase(f.designStatus))
	fmt.Fprintf(&b, "## Commercials\n- Budget: %s\n- Timeline: %s\n",
		withDefault(budget, "To be discussed"),
		withDefault(f.timeline, "To be discussed"))
	b.WriteString("[/PROPOSAL_DATA]")
	return b.String()
}
