package engine

import (
	"regexp"
	"strings"
	"unicode"
)

var nonAlnumRx = regexp.MustCompile(`[^a-z0-9]+`)

// Canonicalize lowercases text and strips every non-alphanumeric character.
// It is the substrate for all equality checks, so "E-commerce", "ecommerce"
// and "E Commerce" compare equal.
func Canonicalize(text string) string {
	return nonAlnumRx.ReplaceAllString(strings.ToLower(text), "")
}

// Domain synonym rewrites applied before tokenization so downstream
// substring and token checks hit consistently.
var synonymRewrites = []struct {
	rx   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\be-?com(?:merce)?\b`), "ecommerce"},
	{regexp.MustCompile(`(?i)\bonline shop\b`), "online store"},
	{regexp.MustCompile(`(?i)\bwish\s*-?lists?\b`), "wishlist"},
	{regexp.MustCompile(`(?i)\breview\b`), "reviews"},
	{regexp.MustCompile(`(?i)\bsign\s*-?up\b`), "signup"},
	{regexp.MustCompile(`(?i)\blog\s*-?in\b`), "login"},
	{regexp.MustCompile(`(?i)\bsign\s*-?in\b`), "login"},
}

// NormalizeForMatching applies the domain synonym rewrites to raw text.
func NormalizeForMatching(text string) string {
	for _, s := range synonymRewrites {
		text = s.rx.ReplaceAllString(text, s.repl)
	}
	return text
}

func splitAny(s, separators string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func canonicalTokenSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, tok := range tokenize(text) {
		set[Canonicalize(tok)] = true
	}
	return set
}

// optionAliases produces the acceptable surface forms of a suggestion label:
// the label itself, the label without its parenthetical, the parenthetical
// contents split on "/", "|" or "," (single-word parentheticals like
// "(React)" are left alone), slash or pipe alternatives of the base, and a
// variant with a trailing " yet" trimmed.
func optionAliases(option string) []string {
	seen := map[string]bool{}
	var aliases []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		c := Canonicalize(s)
		if c == "" || seen[c] {
			return
		}
		seen[c] = true
		aliases = append(aliases, s)
	}

	add(option)
	base := option
	if open := strings.Index(option, "("); open >= 0 {
		if rel := strings.Index(option[open:], ")"); rel > 0 {
			inner := option[open+1 : open+rel]
			base = strings.TrimSpace(option[:open] + option[open+rel+1:])
			add(base)
			if strings.ContainsAny(inner, "/|,") {
				for _, part := range splitAny(inner, "/|,") {
					add(part)
				}
			}
		}
	}
	if strings.ContainsAny(base, "/|") {
		for _, part := range splitAny(base, "/|") {
			add(part)
		}
	}
	for _, a := range append([]string(nil), aliases...) {
		if trimmed, ok := strings.CutSuffix(strings.ToLower(a), " yet"); ok {
			add(a[:len(trimmed)])
		}
	}
	return aliases
}

// aliasPresent reports whether one alias occurs in the message. Single-word
// aliases need a whole-token hit so "help" never matches inside "helps";
// ".js" style names also accept their bare token ("node" for "Node.js").
// Multi-word aliases match on canonical substring containment.
func aliasPresent(canonText string, tokens map[string]bool, alias string) bool {
	canonAlias := Canonicalize(alias)
	if canonAlias == "" {
		return false
	}
	if len(strings.Fields(alias)) > 1 {
		return strings.Contains(canonText, canonAlias)
	}
	if tokens[canonAlias] {
		return true
	}
	if trimmed, ok := strings.CutSuffix(canonAlias, "js"); ok && tokens[trimmed] {
		return true
	}
	if tokens[canonAlias+"js"] {
		return true
	}
	if len(canonAlias) >= 6 && strings.Contains(canonText, canonAlias) {
		return true
	}
	return false
}

func optionMatches(canonText string, tokens map[string]bool, option string) bool {
	if strings.ContainsAny(option, "+&") {
		// The sub-parts live in the parenthetical when there is one, e.g.
		// "Custom Code (React + Node.js)" decomposes to React and Node.js.
		source := option
		if open := strings.Index(option, "("); open >= 0 {
			if rel := strings.Index(option[open:], ")"); rel > 0 {
				if inner := option[open+1 : open+rel]; strings.ContainsAny(inner, "+&") {
					source = inner
				}
			}
		}
		allParts := true
		for _, part := range splitAny(source, "+&") {
			if !aliasPresent(canonText, tokens, part) {
				allParts = false
				break
			}
		}
		if allParts {
			return true
		}
	}
	for _, alias := range optionAliases(option) {
		if strings.ContainsAny(alias, "+&") {
			// Composite surface forms only match through the all-parts rule.
			continue
		}
		if aliasPresent(canonText, tokens, alias) {
			return true
		}
	}
	return false
}

// MatchSuggestions finds which suggestion options are mentioned in free
// text. When one match's canonical form is a strict substring of another
// match, only the more specific one is kept.
func MatchSuggestions(message string, options []string) []string {
	norm := NormalizeForMatching(message)
	canonText := Canonicalize(norm)
	tokens := canonicalTokenSet(norm)

	var matched []string
	for _, opt := range options {
		if optionMatches(canonText, tokens, opt) {
			matched = append(matched, opt)
		}
	}
	return dropSubsumed(matched)
}

func dropSubsumed(matched []string) []string {
	if len(matched) < 2 {
		return matched
	}
	var kept []string
	for i, m := range matched {
		ci := Canonicalize(m)
		subsumed := false
		for j, other := range matched {
			if i == j {
				continue
			}
			cj := Canonicalize(other)
			if len(cj) > len(ci) && strings.Contains(cj, ci) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			kept = append(kept, m)
		}
	}
	return kept
}

// MatchExactSelection handles short chip-style input: the message is split
// on commas and pipes and every piece must canonically equal one of the
// options, otherwise the whole attempt is rejected. A lone "None" always
// normalizes to ["None"].
func MatchExactSelection(message string, options []string) []string {
	if Canonicalize(message) == "none" {
		return []string{"None"}
	}
	pieces := splitAny(message, ",|")
	if len(pieces) == 0 {
		return nil
	}
	var selected []string
	seen := map[string]bool{}
	for _, piece := range pieces {
		canon := Canonicalize(piece)
		if canon == "" {
			continue
		}
		found := ""
		for _, opt := range options {
			if Canonicalize(opt) == canon || canonicalBase(opt) == canon {
				found = opt
				break
			}
		}
		if found == "" {
			return nil
		}
		if !seen[Canonicalize(found)] {
			seen[Canonicalize(found)] = true
			selected = append(selected, found)
		}
	}
	return selected
}

// canonicalBase is the canonical form of an option with its parenthetical
// removed, so the chip "Shopify (₹30,000+)" still matches a typed "Shopify".
func canonicalBase(option string) string {
	if open := strings.Index(option, "("); open >= 0 {
		if rel := strings.Index(option[open:], ")"); rel > 0 {
			return Canonicalize(option[:open] + option[open+rel+1:])
		}
	}
	return Canonicalize(option)
}

func splitList(value string) []string {
	var items []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
