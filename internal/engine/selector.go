package engine

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// NextPrompt selects and renders the next question for a state. The literal
// next index can be overridden by the user's own focus (an open question
// they asked about out of order); an invalid budget already re-opens the
// budget slot through step recomputation. The second return is true when
// collection is complete and no prompt remains.
func NextPrompt(s *ConversationState, meta TurnMeta) (Envelope, bool) {
	if s.Complete {
		return Envelope{}, true
	}
	idx := s.CurrentStep
	if meta.FocusKey != "" {
		if j := s.q.IndexOf(meta.FocusKey); j >= 0 && s.Collected[meta.FocusKey] == "" {
			idx = j
		}
	}
	q := s.q.Questions[idx]

	prompt := q.Prompts[templateIndex(s, len(q.Prompts))]
	prompt = substituteSlots(prompt, s.Collected)

	env := Envelope{
		DisplayText: prompt,
		QuestionKey: q.Key,
		Suggestions: append([]string(nil), q.Suggestions...),
		MultiSelect: q.MultiSelect,
		MaxSelect:   q.MaxSelect,
	}
	switch {
	case q.Key == "budget" && s.q.IsWebsite():
		applyBudgetOverrides(s, &env)
	case q.Key == "pages":
		applyPagesOverrides(s, &env)
	}
	return env, false
}

// templateIndex picks a prompt template deterministically from the collected
// answers, so replays render identically while successive turns still vary.
func templateIndex(s *ConversationState, n int) int {
	if n <= 1 {
		return 0
	}
	keys := make([]string, 0, len(s.Collected))
	for k := range s.Collected {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h := fnv.New32a()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(s.Collected[k]))
		h.Write([]byte{';'})
	}
	return int(h.Sum32() % uint32(n))
}

// substituteSlots replaces {key} placeholders with collected values.
func substituteSlots(prompt string, collected map[string]string) string {
	if !strings.Contains(prompt, "{") {
		return prompt
	}
	for key, value := range collected {
		if value == Skipped {
			continue
		}
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", value)
	}
	return prompt
}

// applyBudgetOverrides inserts the policy minimum into the budget prompt and
// swaps the suggestions for the requirement chips. A previous answer below
// the minimum gets a rejection line ahead of the question.
func applyBudgetOverrides(s *ConversationState, env *Envelope) {
	v := ValidateWebsiteBudget(s.Collected)
	req := v.Requirement

	minimum := formatINR(req.Min)
	if req.Range != nil {
		minimum = fmt.Sprintf("%s (typically %s - %s)", formatINR(req.Min), formatINR(req.Range.Min), formatINR(req.Range.Max))
	}
	if !v.IsValid && v.Parsed != nil {
		env.DisplayText = fmt.Sprintf(
			"%s won't cover a %s build. The minimum for this stack is %s.\n\n%s",
			FormatBudgetDisplay(*v.Parsed), req.Label, minimum, env.DisplayText,
		)
	} else {
		env.DisplayText = fmt.Sprintf(
			"%s\n\nFor a %s build, plan for at least %s.",
			env.DisplayText, req.Label, minimum,
		)
	}
	env.Suggestions = BudgetSuggestions(req)
	env.MultiSelect = false
	env.MaxSelect = 0
}

// applyPagesOverrides summarizes pages already inferred from a brief and
// trims them out of the remaining suggestion set.
func applyPagesOverrides(s *ConversationState, env *Envelope) {
	inferred := splitList(s.Collected[pagesInferredKey])
	if len(inferred) == 0 {
		return
	}
	shown := inferred
	more := 0
	if len(shown) > 10 {
		more = len(shown) - 10
		shown = shown[:10]
	}
	summary := strings.Join(shown, ", ")
	if more > 0 {
		summary = fmt.Sprintf("%s +%d more", summary, more)
	}
	env.DisplayText = fmt.Sprintf(
		"From your description I've already noted: %s.\n\n%s", summary, env.DisplayText,
	)

	inferredSet := map[string]bool{}
	for _, item := range inferred {
		inferredSet[Canonicalize(item)] = true
	}
	var remaining []string
	for _, opt := range env.Suggestions {
		if !inferredSet[Canonicalize(opt)] {
			remaining = append(remaining, opt)
		}
	}
	env.Suggestions = remaining
}

// ReplyFor composes the full assistant reply for a state after a turn: the
// next tagged question while slots remain open, or the proposal and roadmap
// documents once collection is complete.
func ReplyFor(s *ConversationState, meta TurnMeta) (string, bool) {
	env, done := NextPrompt(s, meta)
	if !done {
		return env.Encode(), false
	}
	return GenerateProposal(s) + "\n\n" + GenerateRoadmap(s), true
}
