package engine

// Sentinel values shared across the engine.
const (
	// Skipped marks a slot the user explicitly declined to answer.
	Skipped = "[skipped]"

	// Flexible is stored verbatim when the user keeps budget or timeline open.
	Flexible = "Flexible"

	// ChangeTechnologyOption is the escape hatch offered alongside budget
	// suggestions. Selecting it clears the tech and budget slots.
	ChangeTechnologyOption = "Change technology"

	// pagesInferredKey holds pages guessed from a brief until the pages
	// question is answered, at which point it is merged and discarded.
	pagesInferredKey = "pages_inferred"
)

// QuestionSpec defines a single slot the bot collects for a service.
type QuestionSpec struct {
	Key             string
	TriggerPatterns []string
	Prompts         []string
	Suggestions     []string
	MultiSelect     bool
	MaxSelect       int
}

// HasSuggestions reports whether the question is answered from a closed set.
func (q QuestionSpec) HasSuggestions() bool {
	return len(q.Suggestions) > 0
}

// Questionnaire is the ordered list of questions for one service.
type Questionnaire struct {
	Service   string
	Questions []QuestionSpec
}

// QuestionByKey returns the question with the given slot key.
func (qn *Questionnaire) QuestionByKey(key string) (QuestionSpec, bool) {
	for _, q := range qn.Questions {
		if q.Key == key {
			return q, true
		}
	}
	return QuestionSpec{}, false
}

// IndexOf returns the position of the question with the given key, or -1.
func (qn *Questionnaire) IndexOf(key string) int {
	for i, q := range qn.Questions {
		if q.Key == key {
			return i
		}
	}
	return -1
}

// IsWebsite reports whether this questionnaire describes a website build.
// Website questionnaires carry both a tech and a pages question and get the
// budget policy treatment.
func (qn *Questionnaire) IsWebsite() bool {
	return qn.IndexOf("tech") >= 0 && qn.IndexOf("pages") >= 0
}

// Registry resolves a service name to its questionnaire. It is built once at
// startup and only ever read afterwards.
type Registry struct {
	byService map[string]*Questionnaire
	order     []string
	fallback  *Questionnaire
}

// NewRegistry builds a registry from the given questionnaires. The fallback
// is used for unrecognized service names.
func NewRegistry(fallback *Questionnaire, questionnaires ...*Questionnaire) *Registry {
	r := &Registry{
		byService: make(map[string]*Questionnaire, len(questionnaires)),
		fallback:  fallback,
	}
	for _, qn := range questionnaires {
		r.byService[Canonicalize(qn.Service)] = qn
		r.order = append(r.order, qn.Service)
	}
	return r
}

// Lookup returns the questionnaire for a service, falling back to the
// default questionnaire when the name is unrecognized.
func (r *Registry) Lookup(service string) *Questionnaire {
	if qn, ok := r.byService[Canonicalize(service)]; ok {
		return qn
	}
	return r.fallback
}

// Services lists the recognized service names in registration order.
func (r *Registry) Services() []string {
	return append([]string(nil), r.order...)
}
