package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	assert.Equal(t, []string{
		WebsiteDevelopment, AppDevelopment, UIUXDesign, SEOOptimization,
	}, reg.Services())
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()

	t.Run("exact_name", func(t *testing.T) {
		qn := reg.Lookup(WebsiteDevelopment)
		require.NotNil(t, qn)
		assert.Equal(t, WebsiteDevelopment, qn.Service)
		assert.True(t, qn.IsWebsite())
	})

	t.Run("case_and_punctuation_insensitive", func(t *testing.T) {
		assert.Equal(t, WebsiteDevelopment, reg.Lookup("website development").Service)
		assert.Equal(t, UIUXDesign, reg.Lookup("ui ux design").Service)
	})

	t.Run("unknown_falls_back_to_default", func(t *testing.T) {
		qn := reg.Lookup("Consulting")
		require.NotNil(t, qn)
		assert.Equal(t, "default", qn.Service)
		assert.False(t, qn.IsWebsite())
	})
}

func TestQuestionnaireShapes(t *testing.T) {
	reg := NewRegistry()

	t.Run("only_website_gets_policy_treatment", func(t *testing.T) {
		assert.True(t, reg.Lookup(WebsiteDevelopment).IsWebsite())
		assert.False(t, reg.Lookup(AppDevelopment).IsWebsite())
		assert.False(t, reg.Lookup(SEOOptimization).IsWebsite())
	})

	t.Run("every_questionnaire_ends_with_budget_and_timeline", func(t *testing.T) {
		for _, service := range reg.Services() {
			qn := reg.Lookup(service)
			n := len(qn.Questions)
			require.GreaterOrEqual(t, n, 2, service)
			assert.Equal(t, "budget", qn.Questions[n-2].Key, service)
			assert.Equal(t, "timeline", qn.Questions[n-1].Key, service)
		}
	})

	t.Run("website_pages_question_is_multi_select", func(t *testing.T) {
		qn := reg.Lookup(WebsiteDevelopment)
		pages, ok := qn.QuestionByKey("pages")
		require.True(t, ok)
		assert.True(t, pages.MultiSelect)
		assert.Contains(t, pages.Suggestions, "Cart/Checkout")

		budget, ok := qn.QuestionByKey("budget")
		require.True(t, ok)
		assert.Contains(t, budget.Suggestions, "Flexible")
	})

	t.Run("every_question_has_a_prompt", func(t *testing.T) {
		for _, service := range reg.Services() {
			for _, q := range reg.Lookup(service).Questions {
				assert.NotEmpty(t, q.Prompts, "%s/%s", service, q.Key)
			}
		}
	})
}
