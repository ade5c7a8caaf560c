package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// --- timeline ---

var (
	asapRx          = regexp.MustCompile(`(?i)\b(asap|urgent(?:ly)?|immediately|right away)\b`)
	timelineSpanRx  = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?(?:\s*(?:-|–|to)\s*\d+(?:\.\d+)?)?\s*(?:days?|weeks?|months?)\b`)
	timelineByRx    = regexp.MustCompile(`(?i)\bby\s+(?:the\s+)?(?:end\s+of\s+)?([a-z]+(?:\s+\d{1,2})?)`)
	monthNameRx     = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	timelineUnitRx  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)(?:\s*(?:-|–|to)\s*(\d+(?:\.\d+)?))?\s*(days?|weeks?|months?)`)
)

// ExtractTimeline pulls a delivery timeframe out of raw text: day/week/month
// spans, "ASAP", "by <date>", month names, or the literal "Flexible".
func ExtractTimeline(text string) string {
	if m := timelineSpanRx.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	if m := asapRx.FindString(text); m != "" {
		return "ASAP"
	}
	if m := timelineByRx.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	if m := monthNameRx.FindString(text); m != "" {
		m = strings.ToLower(m)
		return "By " + strings.ToUpper(m[:1]) + m[1:]
	}
	if flexibleRx.MatchString(text) {
		return Flexible
	}
	return ""
}

// ParseTimelineWeeks converts a stored timeline value to whole weeks.
// Ranges take their upper bound, "ASAP" counts as one week, anything
// unparseable returns 0.
func ParseTimelineWeeks(timeline string) int {
	if asapRx.MatchString(timeline) {
		return 1
	}
	m := timelineUnitRx.FindStringSubmatch(timeline)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	if m[2] != "" {
		if upper, err := strconv.ParseFloat(m[2], 64); err == nil && upper > n {
			n = upper
		}
	}
	unit := strings.ToLower(m[3])
	switch {
	case strings.HasPrefix(unit, "day"):
		weeks := int((n + 6) / 7)
		if weeks < 1 {
			weeks = 1
		}
		return weeks
	case strings.HasPrefix(unit, "month"):
		return int(n * 4)
	default:
		return int(n + 0.5)
	}
}

// --- name ---

var (
	greetingRx     = regexp.MustCompile(`(?i)^\s*(hi+|hii+|hello+|hey+|yo|namaste|good\s+(?:morning|afternoon|evening))\b[\s,!.]*`)
	nameLeadInRx   = regexp.MustCompile(`(?i)\b(?:my\s+name\s+is|name's|i\s+am|i'm|im|this\s+is|it's|myself)\s+([a-zA-Z][a-zA-Z.'\s-]{0,40})`)
	urlOrEmailRx   = regexp.MustCompile(`(?i)(https?://|www\.|@|\.com|\.in\b)`)
	anyDigitRx     = regexp.MustCompile(`\d`)
	greetFromBotRx = regexp.MustCompile(`Nice to meet you, ([^!]+)!`)
)

// Words after which a name candidate is cut off.
var nameStopAfter = map[string]bool{
	"and": true, "from": true, "my": true, "we": true, "i": true,
	"the": true, "a": true, "an": true, "here": true, "based": true,
	"working": true, "looking": true, "with": true,
}

// Lead-in words that mean the captured span is a role or intent, not a name.
var nameRejectLead = map[string]bool{
	"a": true, "an": true, "the": true, "developer": true, "designer": true,
	"founder": true, "owner": true, "ceo": true, "student": true,
	"freelancer": true, "looking": true, "trying": true, "interested": true,
	"working": true, "building": true, "planning": true, "just": true,
	"here": true, "not": true, "really": true, "very": true, "so": true,
}

// Single tokens that read like an address but are not names.
var nameStoplist = map[string]bool{
	"there": true, "bro": true, "team": true, "sir": true, "madam": true,
	"dear": true, "buddy": true, "man": true, "dude": true, "guys": true,
	"everyone": true, "all": true, "friend": true, "folks": true,
	"support": true, "help": true, "admin": true, "bot": true,
	"yes": true, "no": true, "ok": true, "okay": true, "thanks": true,
	"thank": true, "please": true, "skip": true, "none": true,
	"website": true, "app": true, "nothing": true, "test": true,
}

func cleanNameCandidate(raw string) string {
	var words []string
	for _, w := range strings.Fields(raw) {
		w = strings.Trim(w, ".,!?'\"")
		if w == "" {
			continue
		}
		if nameStopAfter[strings.ToLower(w)] {
			break
		}
		words = append(words, w)
		if len(words) == 3 {
			break
		}
	}
	if len(words) == 0 {
		return ""
	}
	if nameRejectLead[strings.ToLower(words[0])] {
		return ""
	}
	if len(words) == 1 && nameStoplist[strings.ToLower(words[0])] {
		return ""
	}
	return strings.Join(words, " ")
}

// ExtractNameExplicit only honors explicit lead-ins like "my name is X".
func ExtractNameExplicit(text string) string {
	m := nameLeadInRx.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return cleanNameCandidate(m[1])
}

// ExtractName tries to read a person's name from a direct reply. Greetings,
// questions, URLs, emails and digit-heavy strings are rejected outright.
func ExtractName(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.Contains(trimmed, "?") {
		return ""
	}
	if urlOrEmailRx.MatchString(trimmed) || anyDigitRx.MatchString(trimmed) {
		return ""
	}
	if name := ExtractNameExplicit(trimmed); name != "" {
		return name
	}
	rest := greetingRx.ReplaceAllString(trimmed, "")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		// A pure greeting carries no name.
		return ""
	}
	if len(strings.Fields(rest)) > 3 {
		return ""
	}
	return cleanNameCandidate(rest)
}

// nameFromGreeting recovers a name from an already-rendered assistant
// greeting, for histories where the user introduced themselves before any
// question was tagged.
func nameFromGreeting(assistantText string) string {
	m := greetFromBotRx.FindStringSubmatch(assistantText)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// --- organization / project name ---

var (
	orgLeadInRx = regexp.MustCompile(`(?i)\b(?:it(?:'s| is)\s+called|called|named|(?:company|brand|business|store|startup)(?:'s)?\s+name\s+is|name\s+i(?:'m| am)\s+thinking\s+of\s+is|we\s+are\s+called)\s+["']?([a-zA-Z0-9][a-zA-Z0-9.&'\s-]{0,50})`)

	// Words that end an organization-name span: the sentence has moved on to
	// budget, tech, timeline or deployment territory.
	orgCutoffRx = regexp.MustCompile(`(?i)\b(and|budget|tech|stack|timeline|deadline|week|weeks|month|months|deploy|deployment|domain|page|pages|using|built|with|for|react|node|next|shopify|wordpress|i|we|the)\b|₹`)
)

// Generic project-type nouns that are never a project's actual name.
var genericProjectNouns = map[string]bool{
	"ecommerce": true, "website": true, "webapp": true, "webapplication": true,
	"app": true, "application": true, "saas": true, "store": true,
	"onlinestore": true, "shop": true, "platform": true, "business": true,
	"startup": true, "company": true, "portfolio": true, "blog": true,
	"landingpage": true, "site": true, "project": true, "brand": true,
	"marketplace": true, "dashboard": true,
}

// ExtractOrganization reads a company or project name from an explicit
// lead-in like "called X" or "company name is X". Candidates that are
// themselves generic project-type nouns are rejected so a project's type is
// never mistaken for its name.
func ExtractOrganization(text string) string {
	m := orgLeadInRx.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	span := m[1]
	if cut := orgCutoffRx.FindStringIndex(span); cut != nil && cut[0] > 0 {
		span = span[:cut[0]]
	}
	words := strings.Fields(span)
	if len(words) > 4 {
		words = words[:4]
	}
	candidate := strings.Trim(strings.Join(words, " "), `"'.,`)
	if candidate == "" || genericProjectNouns[Canonicalize(candidate)] {
		return ""
	}
	return candidate
}

// --- description ---

var (
	descIntentRx = regexp.MustCompile(`(?i)\b(?:i\s+want|i\s+need|we\s+want|we\s+need|i(?:'d| would)\s+like|we(?:'d| would)\s+like|looking\s+for|looking\s+to\s+(?:build|create|make)|want\s+to\s+(?:build|create|make|develop)|need\s+to\s+(?:build|create|make)|planning\s+to\s+(?:build|create|launch)|building|creating)\b\s*`)

	domainMarkerRx = regexp.MustCompile(`(?i)₹|\brs\.?\s*\d|\binr\b|\bbudget\b|\btech\s+stack\b|\btimeline\b|\bdeadline\b|\bweeks?\b|\bmonths?\b|\bdeploy(?:ment)?\b|\bdomain\b|\bwordpress\b|\bshopify\b|\bnext\.?\s?js\b|\breact\b|\bnode\.?\s?js\b|\bmern\b|\bpern\b|\bhydrogen\b`)

	descLeadTrimRx = regexp.MustCompile(`(?i)^\s*(?:and|also|so|basically|actually|to|a|an)\s+`)
)

// ExtractDescription pulls the project description span out of a message:
// the text between an intent lead-in ("we need", "looking for") and the
// first budget/tech/timeline marker. When the message has no such structure
// and is free of domain markers, the whole trimmed text is used.
func ExtractDescription(text string) string {
	seg := text
	if m := descIntentRx.FindStringIndex(text); m != nil {
		seg = text[m[1]:]
	}
	if cut := domainMarkerRx.FindStringIndex(seg); cut != nil {
		seg = seg[:cut[0]]
	}
	for {
		trimmed := descLeadTrimRx.ReplaceAllString(seg, "")
		if trimmed == seg {
			break
		}
		seg = trimmed
	}
	seg = strings.TrimSpace(strings.Trim(strings.TrimSpace(seg), ".,;:-"))
	if len(strings.Fields(seg)) >= 3 {
		return seg
	}
	if !domainMarkerRx.MatchString(text) && len(strings.Fields(text)) >= 3 && !IsQuestion(text) {
		return strings.TrimSpace(text)
	}
	return ""
}

// --- tech-stack details ---

var techTokens = []struct {
	rx    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`(?i)\breact(?:\.?\s?js)?\b`), "React.js"},
	{regexp.MustCompile(`(?i)\bnode(?:\.?\s?js)?\b`), "Node.js"},
	{regexp.MustCompile(`(?i)\bnext\.?\s?js\b`), "Next.js"},
	{regexp.MustCompile(`(?i)\bvue(?:\.?\s?js)?\b`), "Vue.js"},
	{regexp.MustCompile(`(?i)\bangular\b`), "Angular"},
	{regexp.MustCompile(`(?i)\bexpress(?:\.?\s?js)?\b`), "Express"},
	{regexp.MustCompile(`(?i)\bmongo\s?db\b|\bmongodb\b|\bmongo\b`), "MongoDB"},
	{regexp.MustCompile(`(?i)\bpostgres(?:ql)?\b`), "PostgreSQL"},
	{regexp.MustCompile(`(?i)\bmysql\b`), "MySQL"},
	{regexp.MustCompile(`(?i)\bredis\b`), "Redis"},
	{regexp.MustCompile(`(?i)\bdocker\b`), "Docker"},
	{regexp.MustCompile(`(?i)\bprisma\b`), "Prisma"},
	{regexp.MustCompile(`(?i)\bneon(?:\s?db)?\b`), "Neon DB"},
	{regexp.MustCompile(`(?i)\btypescript\b`), "TypeScript"},
	{regexp.MustCompile(`(?i)\btailwind(?:\s?css)?\b`), "Tailwind CSS"},
	{regexp.MustCompile(`(?i)\bfirebase\b`), "Firebase"},
	{regexp.MustCompile(`(?i)\bsupabase\b`), "Supabase"},
	{regexp.MustCompile(`(?i)\bdjango\b`), "Django"},
	{regexp.MustCompile(`(?i)\blaravel\b`), "Laravel"},
	{regexp.MustCompile(`(?i)\bwordpress\b`), "WordPress"},
	{regexp.MustCompile(`(?i)\bshopify\b`), "Shopify"},
	{regexp.MustCompile(`(?i)\bopen[-\s]?source\s+model\b`), "Open-source model"},
}

var techSegmentRx = regexp.MustCompile(`(?i)\b(?:tech\s+stack(?:\s+(?:is|will\s+be))?|stack(?:\s+is)?|built\s+(?:with|on)|using|technolog(?:y|ies))\s*:?\s+([^.!?\n]+)`)

// ExtractTechDetails collects technology names mentioned anywhere in text,
// plus whatever follows a "tech stack is ..." style marker, normalized to
// canonical labels and de-duplicated.
func ExtractTechDetails(text string) string {
	seen := map[string]bool{}
	var found []string
	add := func(label string) {
		c := Canonicalize(label)
		if c == "" || seen[c] {
			return
		}
		seen[c] = true
		found = append(found, label)
	}
	for _, t := range techTokens {
		if t.rx.MatchString(text) {
			add(t.label)
		}
	}
	if m := techSegmentRx.FindStringSubmatch(text); m != nil {
		segment := regexp.MustCompile(`(?i)\s+and\s+`).ReplaceAllString(m[1], ",")
		for _, part := range splitAny(segment, ",/") {
			part = strings.TrimSpace(part)
			if part == "" || len(strings.Fields(part)) > 3 {
				continue
			}
			normalized := part
			for _, t := range techTokens {
				if t.rx.MatchString(part) {
					normalized = t.label
					break
				}
			}
			add(normalized)
		}
	}
	return strings.Join(found, ", ")
}

// --- pages inference ---

var pageCues = []struct {
	rx   *regexp.Regexp
	keys []string
}{
	{regexp.MustCompile(`(?i)\b(cart|checkout|buy|purchase|payment)\b`), []string{"cart", "checkout"}},
	{regexp.MustCompile(`(?i)\b(login|signup|account|register|customers?\s+can\s+sign)\b`), []string{"account", "login"}},
	{regexp.MustCompile(`(?i)\b(admin|dashboard|manage\s+\w+)\b`), []string{"admin"}},
	{regexp.MustCompile(`(?i)\b(products?|catalog|shop|store|items?|collections?)\b`), []string{"shop", "store", "product"}},
	{regexp.MustCompile(`(?i)\b(blog|articles?|news)\b`), []string{"blog"}},
	{regexp.MustCompile(`(?i)\b(contact|enquiry|inquiry)\b`), []string{"contact"}},
	{regexp.MustCompile(`(?i)\babout\s+(us|page)\b`), []string{"about"}},
	{regexp.MustCompile(`(?i)\b(gallery|portfolio)\b`), []string{"gallery", "portfolio"}},
	{regexp.MustCompile(`(?i)\bwishlist\b`), []string{"wishlist"}},
	{regexp.MustCompile(`(?i)\b(reviews|ratings?)\b`), []string{"review"}},
	{regexp.MustCompile(`(?i)\bfaq\b`), []string{"faq"}},
	{regexp.MustCompile(`(?i)\bsearch\b`), []string{"search"}},
}

var ecommerceSignalRx = regexp.MustCompile(`(?i)\b(ecommerce|online\s+store|cart|checkout|sell(?:ing)?\s+\w+)\b`)

// InferPages scans a brief for page/feature cues and returns the matching
// subset of the questionnaire's page options, in option order. A single hit
// is only trusted when the project is clearly e-commerce; otherwise at
// least two distinct cues are required.
func InferPages(text string, options []string) []string {
	norm := NormalizeForMatching(text)
	fired := map[string]bool{}
	hits := 0
	for _, cue := range pageCues {
		if cue.rx.MatchString(norm) {
			hits++
			for _, k := range cue.keys {
				fired[k] = true
			}
		}
	}
	if hits == 0 {
		return nil
	}
	if hits < 2 && !ecommerceSignalRx.MatchString(norm) {
		return nil
	}
	var inferred []string
	for _, opt := range options {
		canon := Canonicalize(opt)
		for key := range fired {
			if strings.Contains(canon, key) {
				inferred = append(inferred, opt)
				break
			}
		}
	}
	return inferred
}

// --- message classification ---

var skipVocabulary = map[string]bool{
	"skip": true, "skipthis": true, "skipit": true, "skipfornow": true,
	"pass": true, "done": true, "na": true, "noidea": true,
	"nothanks": true, "leaveit": true,
}

// IsSkip reports whether the message is an explicit decline to answer.
func IsSkip(text string) bool {
	return skipVocabulary[Canonicalize(text)]
}

var questionOpenerRx = regexp.MustCompile(`(?i)^\s*(what|how|why|when|where|which|who|can\s+you|could\s+you|do\s+you|would\s+you|is\s+it|are\s+you|will\s+you)\b`)

// IsQuestion reports whether the user is asking rather than answering.
func IsQuestion(text string) bool {
	return strings.Contains(text, "?") || questionOpenerRx.MatchString(text)
}

var (
	intentVerbRx  = regexp.MustCompile(`(?i)\b(want|need|build|create|develop|launch|make|looking)\b`)
	featureListRx = regexp.MustCompile(`(?i)\bwith\s+\w+(?:[^.!?]*?\b(?:and|,)\b)`)
)

// IsBrief classifies a message as an information-dense project brief rather
// than a short direct answer, by counting budget, timeline, tech, intent and
// feature-list signals scaled against message length.
func IsBrief(text string) bool {
	words := len(strings.Fields(text))
	if words < 8 {
		return false
	}
	signals := 0
	if _, ok := ParseINRBudgetRange(text); ok {
		signals++
	}
	if timelineSpanRx.MatchString(text) || asapRx.MatchString(text) {
		signals++
	}
	if ExtractTechDetails(text) != "" {
		signals++
	}
	if intentVerbRx.MatchString(text) {
		signals++
	}
	if featureListRx.MatchString(text) || strings.Count(text, ",") >= 2 {
		signals++
	}
	if orgLeadInRx.MatchString(text) || nameLeadInRx.MatchString(text) {
		signals++
	}
	if words >= 25 {
		return signals >= 2
	}
	return signals >= 3
}
