package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Envelope is the typed form of an assistant reply. The tag-embedded wire
// format ([QUESTION_KEY: x] and friends) is only produced and consumed at
// the boundary; everything internal works with this struct.
type Envelope struct {
	DisplayText string   `json:"display_text"`
	QuestionKey string   `json:"question_key,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	MultiSelect bool     `json:"multi_select,omitempty"`
	MaxSelect   int      `json:"max_select,omitempty"`
}

var (
	questionKeyTagRx = regexp.MustCompile(`\[QUESTION_KEY:\s*([A-Za-z0-9_.-]+)\s*\]`)
	suggestionsTagRx = regexp.MustCompile(`\[SUGGESTIONS:\s*([^\]]+)\]`)
	multiSelectTagRx = regexp.MustCompile(`\[MULTI_SELECT:\s*([^\]]+)\]`)
	maxSelectTagRx   = regexp.MustCompile(`\[MAX_SELECT:\s*(\d+)\s*\]`)
)

// Encode serializes the envelope to the tagged wire format.
func (e Envelope) Encode() string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(e.DisplayText, "\n"))
	if len(e.Suggestions) > 0 {
		tag := "SUGGESTIONS"
		if e.MultiSelect {
			tag = "MULTI_SELECT"
		}
		fmt.Fprintf(&b, "\n[%s: %s]", tag, strings.Join(e.Suggestions, " | "))
		if e.MultiSelect && e.MaxSelect > 0 {
			fmt.Fprintf(&b, "\n[MAX_SELECT: %d]", e.MaxSelect)
		}
	}
	if e.QuestionKey != "" && !questionKeyTagRx.MatchString(e.DisplayText) {
		fmt.Fprintf(&b, "\n[QUESTION_KEY: %s]", e.QuestionKey)
	}
	return b.String()
}

// ParseEnvelope splits a tagged assistant message back into its typed form.
func ParseEnvelope(content string) Envelope {
	var e Envelope
	if m := questionKeyTagRx.FindStringSubmatch(content); m != nil {
		e.QuestionKey = m[1]
	}
	if m := suggestionsTagRx.FindStringSubmatch(content); m != nil {
		e.Suggestions = splitSuggestionTag(m[1])
	}
	if m := multiSelectTagRx.FindStringSubmatch(content); m != nil {
		e.Suggestions = splitSuggestionTag(m[1])
		e.MultiSelect = true
	}
	if m := maxSelectTagRx.FindStringSubmatch(content); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			e.MaxSelect = n
		}
	}
	text := content
	for _, rx := range []*regexp.Regexp{questionKeyTagRx, suggestionsTagRx, multiSelectTagRx, maxSelectTagRx} {
		text = rx.ReplaceAllString(text, "")
	}
	e.DisplayText = strings.TrimSpace(text)
	return e
}

func splitSuggestionTag(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, "|") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// QuestionKeyOf reads the question key tag from an assistant message, or ""
// when the message is untagged.
func QuestionKeyOf(content string) string {
	if m := questionKeyTagRx.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}

// EnsureQuestionKey appends a question key tag unless one is already
// present. Re-tagging is idempotent.
func EnsureQuestionKey(content, key string) string {
	if key == "" || questionKeyTagRx.MatchString(content) {
		return content
	}
	return content + "\n[QUESTION_KEY: " + key + "]"
}
