package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// BudgetRange is an INR amount interval. A single quoted amount is stored
// with Min == Max.
type BudgetRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

var (
	flexibleRx    = regexp.MustCompile(`(?i)\bflexible\b`)
	budgetUnderRx = regexp.MustCompile(`(?i)\b(?:under|below|less than|within|up\s?to|max(?:imum)?)\b`)

	// One INR amount: optional currency marker, digits with optional Indian
	// comma grouping, optional shorthand multiplier ("150k", "1.5 lakh").
	inrAmountRx = regexp.MustCompile(`(?i)(₹|\brs\.?\s*|\binr\s*)?(\d[\d,]*(?:\.\d+)?)\s*(k|lakhs?|l)?\b`)

	// A budget phrase as it appears in prose, possibly a range.
	budgetPhraseRx = regexp.MustCompile(`(?i)(?:(?:under|below|less than|within|up\s?to|around|about|approx(?:imately)?)\s+)?(?:₹|rs\.?\s*|inr\s*)?\d[\d,]*(?:\.\d+)?\s*(?:k|lakhs?|l)?(?:\s*(?:-|–|—|to)\s*(?:₹|rs\.?\s*|inr\s*)?\d[\d,]*(?:\.\d+)?\s*(?:k|lakhs?|l)?)?\+?\)?`)

	// Units that mean a bare number is not money.
	nonMoneyUnitRx = regexp.MustCompile(`(?i)\d[\d,]*\s*(?:days?|weeks?|months?|years?|pages?|screens?|products?|items?|users?|people|hours?|%)`)
)

type inrAmount struct {
	value  int
	marked bool
}

func parseINRAmounts(text string) []inrAmount {
	var amounts []inrAmount
	for _, m := range inrAmountRx.FindAllStringSubmatch(text, -1) {
		raw := strings.ReplaceAll(m[2], ",", "")
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		marker := m[1] != ""
		switch strings.ToLower(strings.TrimSpace(m[3])) {
		case "k":
			f *= 1_000
			marker = true
		case "l", "lakh", "lakhs":
			f *= 100_000
			marker = true
		}
		value := int(math.Round(f))
		// A bare small number is a count, not a price.
		if !marker && value < 1000 {
			continue
		}
		amounts = append(amounts, inrAmount{value: value, marked: marker})
	}
	return amounts
}

// ParseINRBudgetRange extracts an INR range from text. It understands
// explicit ranges, "under X" phrasing, chip suffixes like "(₹1,50,000+)",
// "k"/"lakh" shorthand and bare amounts of four or more digits.
func ParseINRBudgetRange(text string) (BudgetRange, bool) {
	amounts := parseINRAmounts(text)
	if len(amounts) == 0 {
		return BudgetRange{}, false
	}
	if len(amounts) == 1 && budgetUnderRx.MatchString(text) {
		return BudgetRange{Min: 0, Max: amounts[0].value}, true
	}
	if len(amounts) >= 2 {
		lo, hi := amounts[0].value, amounts[1].value
		if lo > hi {
			lo, hi = hi, lo
		}
		return BudgetRange{Min: lo, Max: hi}, true
	}
	return BudgetRange{Min: amounts[0].value, Max: amounts[0].value}, true
}

// ExtractBudget pulls the budget phrase out of raw text, or returns
// "Flexible" on that literal. Empty string means no budget was found.
func ExtractBudget(text string) string {
	if flexibleRx.MatchString(text) {
		return Flexible
	}
	for _, loc := range budgetPhraseRx.FindAllStringIndex(text, -1) {
		phrase := strings.TrimRight(strings.TrimSpace(text[loc[0]:loc[1]]), ")")
		amounts := parseINRAmounts(phrase)
		if len(amounts) == 0 {
			continue
		}
		if !amounts[0].marked && nonMoneyUnitRx.MatchString(text[loc[0]:min(len(text), loc[1]+12)]) {
			continue
		}
		return phrase
	}
	return ""
}

// formatINR renders an amount with Indian digit grouping, e.g. ₹1,50,000.
func formatINR(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return "₹" + s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return "₹" + strings.Join(groups, ",") + "," + tail
}

// FormatBudgetDisplay renders a range back to a human string.
func FormatBudgetDisplay(r BudgetRange) string {
	switch {
	case r.Min == r.Max:
		return formatINR(r.Min)
	case r.Min == 0:
		return "Under " + formatINR(r.Max)
	default:
		return formatINR(r.Min) + " - " + formatINR(r.Max)
	}
}
