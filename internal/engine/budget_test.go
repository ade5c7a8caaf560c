package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseINRBudgetRange(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected BudgetRange
		ok       bool
	}{
		{"plain_amount", "35000", BudgetRange{35000, 35000}, true},
		{"indian_grouping", "1,50,000", BudgetRange{150000, 150000}, true},
		{"rupee_symbol", "₹45,000", BudgetRange{45000, 45000}, true},
		{"rs_prefix", "Rs. 60,000", BudgetRange{60000, 60000}, true},
		{"inr_suffix_style", "INR 90000", BudgetRange{90000, 90000}, true},
		{"k_shorthand", "150k", BudgetRange{150000, 150000}, true},
		{"lakh_shorthand", "1.5 lakh", BudgetRange{150000, 150000}, true},
		{"marked_small_amount", "₹500", BudgetRange{500, 500}, true},
		{"under_phrasing", "under 30,000", BudgetRange{0, 30000}, true},
		{"upto_phrasing", "up to ₹80,000", BudgetRange{0, 80000}, true},
		{"explicit_range", "30,000 to 80,000", BudgetRange{30000, 80000}, true},
		{"range_swapped", "80k - 30k", BudgetRange{30000, 80000}, true},
		{"chip_suffix", "₹1,50,000+", BudgetRange{150000, 150000}, true},
		{"bare_small_number_rejected", "around 500", BudgetRange{}, false},
		{"no_amount", "whatever works", BudgetRange{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseINRBudgetRange(tt.input)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestExtractBudget(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"flexible_literal", "I'm flexible on this", Flexible},
		{"amount_in_prose", "My budget is 35,000 INR for this", "35,000"},
		{"rupee_amount", "I can spend ₹45,000", "₹45,000"},
		{"duration_not_budget", "I need it in 2 weeks", ""},
		{"count_not_budget", "around 10 pages", ""},
		{"small_bare_number", "maybe 500", ""},
		{"nothing", "no idea yet", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractBudget(tt.input))
		})
	}
}

func TestFormatBudgetDisplay(t *testing.T) {
	tests := []struct {
		name     string
		input    BudgetRange
		expected string
	}{
		{"single_amount", BudgetRange{35000, 35000}, "₹35,000"},
		{"lakh_grouping", BudgetRange{150000, 150000}, "₹1,50,000"},
		{"under_range", BudgetRange{0, 30000}, "Under ₹30,000"},
		{"full_range", BudgetRange{30000, 80000}, "₹30,000 - ₹80,000"},
		{"small_amount", BudgetRange{500, 500}, "₹500"},
		{"seven_digits", BudgetRange{1500000, 1500000}, "₹15,00,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatBudgetDisplay(tt.input))
		})
	}
}
