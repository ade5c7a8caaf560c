package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedWebsiteCollected() map[string]string {
	return map[string]string{
		"name":         "Kaif",
		"organization": "CartNest",
		"description":  "online store for sneakers",
		"tech":         "Shopify",
		"pages":        "Home, Shop/Store, Cart/Checkout",
		"domain":       "Yes, I have a domain",
		"budget":       "35,000",
		"timeline":     "6 weeks",
	}
}

func TestNextPromptSubstitutesSlots(t *testing.T) {
	reg := newTestRegistry()
	s := StateFromCollected(reg, "Website Development", map[string]string{"name": "Kaif"})

	env, done := NextPrompt(s, TurnMeta{})
	require.False(t, done)
	assert.Equal(t, "organization", env.QuestionKey)
	assert.Equal(t, "Nice to meet you, Kaif! What's your company called?", env.DisplayText)
}

func TestNextPromptCompleteState(t *testing.T) {
	reg := newTestRegistry()
	s := StateFromCollected(reg, "Website Development", completedWebsiteCollected())
	require.True(t, s.Complete)

	_, done := NextPrompt(s, TurnMeta{})
	assert.True(t, done)
}

func TestNextPromptFocusOverride(t *testing.T) {
	reg := newTestRegistry()
	s := StateFromCollected(reg, "Website Development", map[string]string{"name": "Kaif"})

	// The user asked about the budget, so the budget question jumps the queue.
	env, done := NextPrompt(s, TurnMeta{FocusKey: "budget"})
	require.False(t, done)
	assert.Equal(t, "budget", env.QuestionKey)
	assert.Contains(t, env.DisplayText, "plan for at least ₹30,000")
	assert.Equal(t, []string{"Website (₹30,000+)", ChangeTechnologyOption}, env.Suggestions)
}

func TestNextPromptFocusIgnoresAnsweredSlot(t *testing.T) {
	reg := newTestRegistry()
	s := StateFromCollected(reg, "Website Development", map[string]string{"name": "Kaif"})

	env, done := NextPrompt(s, TurnMeta{FocusKey: "name"})
	require.False(t, done)
	assert.Equal(t, "organization", env.QuestionKey)
}

func TestNextPromptBudgetRejection(t *testing.T) {
	reg := newTestRegistry()
	collected := completedWebsiteCollected()
	collected["budget"] = "20,000"
	delete(collected, "timeline")
	s := StateFromCollected(reg, "Website Development", collected)

	env, done := NextPrompt(s, TurnMeta{})
	require.False(t, done)
	assert.Equal(t, "budget", env.QuestionKey)
	assert.Contains(t, env.DisplayText, "₹20,000 won't cover a Shopify build")
	assert.Contains(t, env.DisplayText, "The minimum for this stack is ₹30,000")
	assert.Equal(t, []string{"Shopify (₹30,000+)", ChangeTechnologyOption}, env.Suggestions)
	assert.False(t, env.MultiSelect)
}

func TestNextPromptInferredPagesSummary(t *testing.T) {
	reg := newTestRegistry()
	s := StateFromCollected(reg, "Website Development", map[string]string{
		"name":           "Kaif",
		"organization":   "CartNest",
		"description":    "online store for sneakers",
		"tech":           "Shopify",
		pagesInferredKey: "Shop/Store, Cart/Checkout",
	})

	env, done := NextPrompt(s, TurnMeta{})
	require.False(t, done)
	assert.Equal(t, "pages", env.QuestionKey)
	assert.Contains(t, env.DisplayText, "already noted: Shop/Store, Cart/Checkout")
	assert.NotContains(t, env.Suggestions, "Shop/Store")
	assert.NotContains(t, env.Suggestions, "Cart/Checkout")
	assert.Contains(t, env.Suggestions, "Home")
	assert.Contains(t, env.Suggestions, "Blog")
}

func TestTemplateIndexDeterministic(t *testing.T) {
	reg := newTestRegistry()
	collected := map[string]string{"name": "Kaif", "tech": "Shopify"}

	s1 := StateFromCollected(reg, "Website Development", collected)
	s2 := StateFromCollected(reg, "Website Development", collected)
	assert.Equal(t, templateIndex(s1, 3), templateIndex(s2, 3))
	assert.Less(t, templateIndex(s1, 3), 3)
	assert.Equal(t, 0, templateIndex(s1, 1))
}

func TestReplyFor(t *testing.T) {
	reg := newTestRegistry()

	t.Run("open_question", func(t *testing.T) {
		s := StateFromCollected(reg, "Website Development", nil)
		reply, done := ReplyFor(s, TurnMeta{})
		assert.False(t, done)
		assert.Contains(t, reply, "What's your name?")
		assert.Contains(t, reply, "[QUESTION_KEY: name]")
	})

	t.Run("complete_renders_documents", func(t *testing.T) {
		s := StateFromCollected(reg, "Website Development", completedWebsiteCollected())
		reply, done := ReplyFor(s, TurnMeta{})
		assert.True(t, done)
		assert.Contains(t, reply, "[PROPOSAL_DATA]")
		assert.Contains(t, reply, "# Project Roadmap")
	})
}
