package engine

import (
	"strings"
)

// Message is one turn of the conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationState is the reconstructed slot-filling state for one
// conversation. It is always derivable from the message history alone;
// rebuilding from the same history yields an identical state.
type ConversationState struct {
	Service     string            `json:"service"`
	Collected   map[string]string `json:"collected_data"`
	CurrentStep int               `json:"current_step"`
	Complete    bool              `json:"complete"`

	q *Questionnaire
}

// TurnMeta describes what happened on the latest turn. It is ephemeral and
// only drives the selector's override logic for that turn.
type TurnMeta struct {
	AnsweredKey     string
	WasQuestion     bool
	FocusKey        string
	NextQuestionKey string
}

// Questionnaire returns the active questionnaire for this state.
func (s *ConversationState) Questionnaire() *Questionnaire {
	return s.q
}

// BuildConversationState replays a full message history into a state. Every
// user message is harvested for out-of-sequence answers; assistant messages
// tagged with a question key drive the stricter active-question extractor
// for the reply that follows them.
func BuildConversationState(reg *Registry, history []Message, service string) *ConversationState {
	s := newState(reg, service)
	for i, msg := range history {
		if msg.Role != RoleUser {
			continue
		}
		activeKey := ""
		if i > 0 && history[i-1].Role == RoleAssistant {
			activeKey = QuestionKeyOf(history[i-1].Content)
		}
		s.AdvanceTurn(msg.Content, activeKey)
	}
	if s.Collected["name"] == "" {
		// The user may have introduced themselves before any question was
		// tagged; the rendered greeting still carries the name.
		for _, msg := range history {
			if msg.Role != RoleAssistant {
				continue
			}
			if name := nameFromGreeting(msg.Content); name != "" {
				s.Collected["name"] = name
				break
			}
		}
	}
	s.resolveInferredPages()
	s.recomputeStep()
	return s
}

// StateFromCollected rehydrates a state from already-collected slot data,
// for callers that cached the previous turn's outcome.
func StateFromCollected(reg *Registry, service string, collected map[string]string) *ConversationState {
	s := newState(reg, service)
	for k, v := range collected {
		s.Collected[k] = v
	}
	s.recomputeStep()
	return s
}

func newState(reg *Registry, service string) *ConversationState {
	return &ConversationState{
		Service:   service,
		Collected: map[string]string{},
		q:         reg.Lookup(service),
	}
}

// ProcessUserAnswer advances the state by one user message, treating the
// current question as the active one.
func ProcessUserAnswer(s *ConversationState, content string) TurnMeta {
	return s.AdvanceTurn(content, s.nextQuestionKey())
}

// AdvanceTurn applies one user message against the state. The active key,
// when known from the preceding assistant message's tag, selects which slot
// the stricter per-question extractor targets; every other open slot is
// still harvested opportunistically.
func (s *ConversationState) AdvanceTurn(content, activeKey string) TurnMeta {
	meta := TurnMeta{WasQuestion: IsQuestion(content)}

	if activeKey != "" {
		if q, ok := s.q.QuestionByKey(activeKey); ok {
			answer, changeTech := s.extractForQuestion(q, content)
			switch {
			case changeTech:
				delete(s.Collected, "tech")
				delete(s.Collected, "budget")
			case answer != "":
				s.setSlot(q, answer)
				meta.AnsweredKey = q.Key
			}
		}
	}

	s.harvest(content, activeKey)

	if meta.WasQuestion {
		meta.FocusKey = s.focusKey(content)
	}
	s.recomputeStep()
	meta.NextQuestionKey = s.nextQuestionKey()
	return meta
}

// extractForQuestion runs the active-question extractor. The second return
// is true when the user picked the change-technology escape on the budget
// question.
func (s *ConversationState) extractForQuestion(q QuestionSpec, content string) (string, bool) {
	if q.Key == "budget" && Canonicalize(content) == Canonicalize(ChangeTechnologyOption) {
		return "", true
	}
	if IsSkip(content) {
		return Skipped, false
	}

	switch {
	case q.Key == "budget":
		return ExtractBudget(content), false
	case q.Key == "timeline" || strings.Contains(q.Key, "deadline"):
		return ExtractTimeline(content), false
	case q.Key == "name":
		return ExtractName(content), false
	case isOrganizationKey(q.Key):
		if org := ExtractOrganization(content); org != "" {
			return org, false
		}
		return rawOrganization(content), false
	case q.Key == "description":
		return ExtractDescription(content), false
	}

	if q.HasSuggestions() {
		matches := MatchExactSelection(content, q.Suggestions)
		if len(matches) == 0 {
			matches = MatchSuggestions(content, q.Suggestions)
		}
		if len(matches) == 0 {
			return "", false
		}
		if !q.MultiSelect {
			matches = matches[:1]
		}
		if q.MaxSelect > 0 && len(matches) > q.MaxSelect {
			matches = matches[:q.MaxSelect]
		}
		return strings.Join(matches, ", "), false
	}

	// Open-ended question: take the reply as-is unless the user asked
	// something back.
	if IsQuestion(content) {
		return "", false
	}
	return strings.TrimSpace(content), false
}

func isOrganizationKey(key string) bool {
	return strings.Contains(key, "organization") || strings.Contains(key, "company") ||
		strings.Contains(key, "business") || strings.Contains(key, "brand")
}

// rawOrganization accepts a short direct reply as the organization name,
// rejecting anything that reads like a tech choice, a generic project noun
// or free-form prose.
func rawOrganization(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || IsQuestion(trimmed) {
		return ""
	}
	words := strings.Fields(trimmed)
	if len(words) > 4 {
		return ""
	}
	if genericProjectNouns[Canonicalize(trimmed)] {
		return ""
	}
	if ExtractTechDetails(trimmed) != "" {
		return ""
	}
	if _, ok := ParseINRBudgetRange(trimmed); ok {
		return ""
	}
	return strings.Trim(trimmed, `"'.,!`)
}

// harvest attempts to fill any open slot other than the active one from the
// message. Existing values are never overwritten here; only the
// active-question path may replace a slot.
func (s *ConversationState) harvest(content, activeKey string) {
	brief := IsBrief(content)
	for _, q := range s.q.Questions {
		if q.Key == activeKey || s.Collected[q.Key] != "" {
			continue
		}
		if v := s.harvestQuestion(q, content, brief); v != "" {
			s.setSlot(q, v)
		}
	}
	longEnough := len(strings.Fields(content)) >= 6
	if s.q.IsWebsite() && (brief || longEnough) && s.Collected[pagesInferredKey] == "" &&
		s.Collected["pages"] == "" && activeKey != "pages" {
		if pq, ok := s.q.QuestionByKey("pages"); ok {
			if inferred := InferPages(content, pq.Suggestions); len(inferred) > 0 {
				s.Collected[pagesInferredKey] = strings.Join(inferred, ", ")
			}
		}
	}
}

func (s *ConversationState) harvestQuestion(q QuestionSpec, content string, brief bool) string {
	switch {
	case q.Key == "budget":
		v := ExtractBudget(content)
		if v == Flexible {
			// Bare "flexible" only counts when budget is the active question.
			return ""
		}
		return v
	case q.Key == "timeline" || strings.Contains(q.Key, "deadline"):
		v := ExtractTimeline(content)
		if v == Flexible {
			return ""
		}
		return v
	case q.Key == "name":
		return ExtractNameExplicit(content)
	case isOrganizationKey(q.Key):
		return ExtractOrganization(content)
	case q.Key == "description":
		if !brief {
			return ""
		}
		return ExtractDescription(content)
	}

	if !q.HasSuggestions() {
		return ""
	}
	if q.Key == "pages" && s.q.IsWebsite() && brief {
		// Briefs feed pages through inference, not direct selection.
		return ""
	}
	matches := MatchSuggestions(content, q.Suggestions)
	if len(matches) == 0 {
		return ""
	}
	short := len(strings.Fields(content)) <= 6
	separated := strings.ContainsAny(content, ",|")
	triggered := s.matchesTrigger(q, content)
	multi := q.MultiSelect && len(matches) >= 2
	if !short && !separated && !triggered && !multi && !brief {
		return ""
	}
	if !q.MultiSelect {
		matches = matches[:1]
	}
	if q.MaxSelect > 0 && len(matches) > q.MaxSelect {
		matches = matches[:q.MaxSelect]
	}
	return strings.Join(matches, ", ")
}

func (s *ConversationState) matchesTrigger(q QuestionSpec, content string) bool {
	canon := Canonicalize(NormalizeForMatching(content))
	for _, pattern := range q.TriggerPatterns {
		if p := Canonicalize(pattern); p != "" && strings.Contains(canon, p) {
			return true
		}
	}
	return false
}

// setSlot stores an answer, merging pending inferred pages into an explicit
// pages selection by canonical union.
func (s *ConversationState) setSlot(q QuestionSpec, answer string) {
	if q.Key == "pages" {
		answer = s.mergePages(answer)
		delete(s.Collected, pagesInferredKey)
	}
	s.Collected[q.Key] = answer
}

// mergePages unions inferred and explicit page selections. "None" and the
// skip sentinel never remove previously inferred pages.
func (s *ConversationState) mergePages(answer string) string {
	inferred := splitList(s.Collected[pagesInferredKey])
	if len(inferred) == 0 {
		return answer
	}
	seen := map[string]bool{}
	var merged []string
	add := func(items []string) {
		for _, item := range items {
			c := Canonicalize(item)
			if c == "" || c == "none" || c == "skipped" || seen[c] {
				continue
			}
			seen[c] = true
			merged = append(merged, item)
		}
	}
	add(inferred)
	add(splitList(answer))
	if len(merged) == 0 {
		return answer
	}
	return strings.Join(merged, ", ")
}

// resolveInferredPages folds leftover inferred pages into an already
// answered pages slot. While pages is still open the inference stays
// pending so the selector can present it.
func (s *ConversationState) resolveInferredPages() {
	if s.Collected[pagesInferredKey] == "" {
		return
	}
	if pages := s.Collected["pages"]; pages != "" {
		if q, ok := s.q.QuestionByKey("pages"); ok {
			s.setSlot(q, pages)
		}
	}
}

// recomputeStep rescans slot occupancy from the first question. The step is
// never a stored cursor: clearing tech and budget legitimately moves it
// backward and re-opens those questions. On website questionnaires a budget
// value that fails policy validation leaves the budget slot open.
func (s *ConversationState) recomputeStep() {
	step := len(s.q.Questions)
	for i, q := range s.q.Questions {
		if s.Collected[q.Key] == "" {
			step = i
			break
		}
		if q.Key == "budget" && s.q.IsWebsite() {
			if v := ValidateWebsiteBudget(s.Collected); !v.IsValid {
				step = i
				break
			}
		}
	}
	s.CurrentStep = step
	s.Complete = step == len(s.q.Questions)
}

func (s *ConversationState) nextQuestionKey() string {
	if s.CurrentStep >= len(s.q.Questions) {
		return ""
	}
	return s.q.Questions[s.CurrentStep].Key
}

// focusKey scores the user's question against every open question's trigger
// patterns and returns the best-scoring key, so "what about the domain?"
// pulls the domain question forward.
func (s *ConversationState) focusKey(content string) string {
	canon := Canonicalize(NormalizeForMatching(content))
	best, bestScore := "", 0
	for _, q := range s.q.Questions {
		if s.Collected[q.Key] != "" {
			continue
		}
		score := 0
		for _, pattern := range q.TriggerPatterns {
			if p := Canonicalize(pattern); p != "" && strings.Contains(canon, p) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = q.Key, score
		}
	}
	return best
}

// ShouldGenerateProposal reports whether every slot is filled and, on
// website questionnaires, the budget passes policy validation.
func ShouldGenerateProposal(s *ConversationState) bool {
	return s.Complete
}
