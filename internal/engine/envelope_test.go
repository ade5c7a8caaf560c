package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopeEncode(t *testing.T) {
	tests := []struct {
		name     string
		envelope Envelope
		expected string
	}{
		{
			name:     "text_only",
			envelope: Envelope{DisplayText: "All done!"},
			expected: "All done!",
		},
		{
			name:     "question_key_only",
			envelope: Envelope{DisplayText: "What's your name?", QuestionKey: "name"},
			expected: "What's your name?\n[QUESTION_KEY: name]",
		},
		{
			name: "single_select",
			envelope: Envelope{
				DisplayText: "Any tech preference?",
				QuestionKey: "tech",
				Suggestions: []string{"WordPress", "Shopify"},
			},
			expected: "Any tech preference?\n[SUGGESTIONS: WordPress | Shopify]\n[QUESTION_KEY: tech]",
		},
		{
			name: "multi_select_with_cap",
			envelope: Envelope{
				DisplayText: "Which pages?",
				QuestionKey: "pages",
				Suggestions: []string{"Home", "About", "Blog"},
				MultiSelect: true,
				MaxSelect:   2,
			},
			expected: "Which pages?\n[MULTI_SELECT: Home | About | Blog]\n[MAX_SELECT: 2]\n[QUESTION_KEY: pages]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.envelope.Encode())
		})
	}
}

func TestParseEnvelopeRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		envelope Envelope
	}{
		{
			name:     "question_only",
			envelope: Envelope{DisplayText: "What's your name?", QuestionKey: "name"},
		},
		{
			name: "single_select",
			envelope: Envelope{
				DisplayText: "Any tech preference?",
				QuestionKey: "tech",
				Suggestions: []string{"WordPress", "Shopify", "Not sure yet"},
			},
		},
		{
			name: "multi_select",
			envelope: Envelope{
				DisplayText: "Which pages?",
				QuestionKey: "pages",
				Suggestions: []string{"Home", "Cart/Checkout"},
				MultiSelect: true,
				MaxSelect:   5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.envelope, ParseEnvelope(tt.envelope.Encode()))
		})
	}
}

func TestQuestionKeyOf(t *testing.T) {
	assert.Equal(t, "budget", QuestionKeyOf("What's your budget?\n[QUESTION_KEY: budget]"))
	assert.Equal(t, "", QuestionKeyOf("plain reply with no tag"))
}

func TestEnsureQuestionKey(t *testing.T) {
	tagged := EnsureQuestionKey("What's your name?", "name")
	assert.Equal(t, "What's your name?\n[QUESTION_KEY: name]", tagged)

	// Re-tagging is a no-op.
	assert.Equal(t, tagged, EnsureQuestionKey(tagged, "name"))
	assert.Equal(t, tagged, EnsureQuestionKey(tagged, "budget"))

	// An empty key never tags.
	assert.Equal(t, "hello", EnsureQuestionKey("hello", ""))
}
