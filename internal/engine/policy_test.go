package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBudgetRequirement(t *testing.T) {
	tests := []struct {
		name        string
		tech        string
		pages       string
		description string
		key         string
		min         int
	}{
		{"wordpress", "WordPress", "", "", "wordpress", 30_000},
		{"shopify", "Shopify", "", "", "shopify", 30_000},
		{"custom_shopify_beats_shopify", "Custom Shopify (Hydrogen)", "", "", "custom_shopify", 80_000},
		{"custom_code", "Custom Code (React + Node.js)", "", "", "custom_code", 150_000},
		{"nextjs", "Next.js", "", "", "nextjs", 175_000},
		{"mern_is_custom_code", "MERN stack", "", "", "custom_code", 150_000},
		{"unknown_tech_default", "Not sure yet", "", "", "website", 30_000},
		{"empty_tech_default", "", "", "", "website", 30_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ResolveBudgetRequirement(tt.tech, tt.pages, tt.description)
			assert.Equal(t, tt.key, req.Key)
			assert.Equal(t, tt.min, req.Min)
			assert.False(t, req.Wants3D)
			assert.Nil(t, req.Range)
		})
	}

	t.Run("3d_wordpress_fixed_tier", func(t *testing.T) {
		req := ResolveBudgetRequirement("WordPress", "", "3d product views for the store")
		assert.Equal(t, "3d_wordpress", req.Key)
		assert.Equal(t, 45_000, req.Min)
		assert.True(t, req.Wants3D)
		assert.Nil(t, req.Range)
		assert.Equal(t, "wordpress", req.BaseKey)
	})

	t.Run("3d_custom_gets_range", func(t *testing.T) {
		req := ResolveBudgetRequirement("Shopify", "virtual try-on", "")
		assert.Equal(t, "3d_custom", req.Key)
		assert.Equal(t, 100_000, req.Min)
		require.NotNil(t, req.Range)
		assert.Equal(t, BudgetRange{100_000, 400_000}, *req.Range)
	})

	t.Run("3d_custom_keeps_higher_base_minimum", func(t *testing.T) {
		req := ResolveBudgetRequirement("Next.js", "", "AR shade match experience")
		assert.Equal(t, "3d_custom", req.Key)
		assert.Equal(t, 175_000, req.Min)
		require.NotNil(t, req.Range)
		assert.Equal(t, BudgetRange{175_000, 400_000}, *req.Range)
	})
}

func TestValidateWebsiteBudget(t *testing.T) {
	tests := []struct {
		name      string
		collected map[string]string
		isValid   bool
		reason    string
	}{
		{
			name:      "sufficient_budget",
			collected: map[string]string{"tech": "Shopify", "budget": "₹35,000"},
			isValid:   true,
			reason:    "",
		},
		{
			name:      "below_minimum",
			collected: map[string]string{"tech": "Shopify", "budget": "20,000"},
			isValid:   false,
			reason:    BudgetTooLow,
		},
		{
			name:      "range_ceiling_below_minimum",
			collected: map[string]string{"tech": "Custom Code (React + Node.js)", "budget": "under 30,000"},
			isValid:   false,
			reason:    BudgetTooLow,
		},
		{
			name:      "flexible_never_blocks",
			collected: map[string]string{"tech": "Next.js", "budget": Flexible},
			isValid:   true,
			reason:    BudgetUnparsed,
		},
		{
			name:      "skipped_never_blocks",
			collected: map[string]string{"tech": "Next.js", "budget": Skipped},
			isValid:   true,
			reason:    BudgetUnparsed,
		},
		{
			name:      "empty_budget",
			collected: map[string]string{"tech": "WordPress"},
			isValid:   true,
			reason:    BudgetUnparsed,
		},
		{
			name:      "unparseable_budget",
			collected: map[string]string{"tech": "WordPress", "budget": "whatever works"},
			isValid:   true,
			reason:    BudgetUnparsed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateWebsiteBudget(tt.collected)
			assert.Equal(t, tt.isValid, v.IsValid)
			assert.Equal(t, tt.reason, v.Reason)
		})
	}

	t.Run("parsed_range_is_returned", func(t *testing.T) {
		v := ValidateWebsiteBudget(map[string]string{"tech": "Shopify", "budget": "₹35,000"})
		require.NotNil(t, v.Parsed)
		assert.Equal(t, BudgetRange{35_000, 35_000}, *v.Parsed)
		assert.Equal(t, 30_000, v.Requirement.Min)
	})

	t.Run("inferred_pages_feed_the_policy", func(t *testing.T) {
		v := ValidateWebsiteBudget(map[string]string{
			"tech":           "WordPress",
			"budget":         "₹40,000",
			pagesInferredKey: "3D Product Viewer",
		})
		assert.Equal(t, "3d_wordpress", v.Requirement.Key)
		assert.Equal(t, 45_000, v.Requirement.Min)
		assert.False(t, v.IsValid)
	})
}

func TestBudgetSuggestions(t *testing.T) {
	t.Run("minimum_chip", func(t *testing.T) {
		req := ResolveBudgetRequirement("Shopify", "", "")
		assert.Equal(t,
			[]string{"Shopify (₹30,000+)", ChangeTechnologyOption},
			BudgetSuggestions(req))
	})

	t.Run("range_chip_for_3d_builds", func(t *testing.T) {
		req := ResolveBudgetRequirement("Shopify", "virtual try-on", "")
		assert.Equal(t,
			[]string{"3D Custom Website (₹1,00,000 - ₹4,00,000)", ChangeTechnologyOption},
			BudgetSuggestions(req))
	})
}
