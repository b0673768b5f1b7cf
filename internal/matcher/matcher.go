// Package matcher suggests categories for transactions from their descriptions.
//
// Matching is a heuristic: a description is normalized to a merchant key,
// checked against each category's learned merchant mappings and otherwise
// scored by how many of the category's keywords it contains.
package matcher

import (
	"math"
	"regexp"
	"strings"

	"github.com/Veraticus/spendwise/internal/model"
)

const (
	// ExactMatchConfidence is returned when the merchant is explicitly mapped.
	ExactMatchConfidence = 1.0
	// KeywordWeight is the confidence contributed by each matching keyword.
	KeywordWeight = 0.3
	// MaxKeywordConfidence caps keyword-only scores below an exact match.
	MaxKeywordConfidence = 0.9
	// SplitAmountThreshold is the absolute amount above which a purchase may need splitting.
	SplitAmountThreshold = 100.0
)

var (
	storeNumberRegex    = regexp.MustCompile(`\s*#\d+`)
	asteriskSuffixRegex = regexp.MustCompile(`\*.*$`)
	trailingDigitsRegex = regexp.MustCompile(`(\s*\d{4,})+\s*$`)
)

// creditCardPaymentKeywords identify card payments, which are transfers rather than spending.
var creditCardPaymentKeywords = []string{
	"payment thank you",
	"online payment",
	"autopay",
	"auto pay",
	"credit card payment",
	"card payment",
	"payment received",
	"epayment",
}

// splitKeywords identify merchants whose orders usually span several categories.
var splitKeywords = []string{
	"amazon",
	"walmart",
	"target",
	"costco",
	"sams club",
	"wholesale",
	"department store",
}

// Suggestion is the best matching category for a transaction.
type Suggestion struct {
	Category   model.Category
	Confidence float64
}

// NormalizeMerchantName reduces a raw description to a stable merchant key.
// Store numbers, reference suffixes after an asterisk and trailing numeric
// identifiers are removed, whitespace is collapsed and the result lowercased.
func NormalizeMerchantName(description string) string {
	// Unicode whitespace is folded to single ASCII spaces first so the
	// regexps below see the same text on every pass.
	name := collapseWhitespace(strings.ToLower(description))
	name = storeNumberRegex.ReplaceAllString(name, "")
	name = asteriskSuffixRegex.ReplaceAllString(name, "")
	name = trailingDigitsRegex.ReplaceAllString(name, "")
	return collapseWhitespace(name)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsCreditCardPayment reports whether the description looks like a card payment.
func IsCreditCardPayment(description string) bool {
	if description == "" {
		return false
	}
	lower := strings.ToLower(description)
	for _, keyword := range creditCardPaymentKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// IsSplitWorthy reports whether a transaction is a candidate for splitting
// across several categories. Large purchases qualify unless they are rent.
func IsSplitWorthy(txn *model.Transaction) bool {
	if txn == nil {
		return false
	}
	lower := strings.ToLower(txn.Description)
	for _, keyword := range splitKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return math.Abs(txn.Amount) > SplitAmountThreshold && !strings.Contains(txn.CategoryID, "rent")
}

// CalculateConfidence scores how well a description matches a category.
// The result is always within [0, 1].
func CalculateConfidence(description string, category *model.Category) float64 {
	if category == nil {
		return 0
	}
	if category.HasMerchant(NormalizeMerchantName(description)) {
		return ExactMatchConfidence
	}

	lower := strings.ToLower(description)
	hits := 0
	for _, keyword := range category.Keywords {
		keyword = strings.ToLower(keyword)
		if keyword == "" {
			continue
		}
		if strings.Contains(lower, keyword) {
			hits++
		}
	}

	return math.Min(float64(hits)*KeywordWeight, MaxKeywordConfidence)
}

// SuggestCategory returns the highest scoring category for the transaction,
// or nil when nothing scores above zero. When scores tie, the category seen
// first wins.
func SuggestCategory(txn *model.Transaction, categories []model.Category) *Suggestion {
	if txn == nil || len(categories) == 0 {
		return nil
	}

	var best *Suggestion
	highest := 0.0
	for i := range categories {
		confidence := CalculateConfidence(txn.Description, &categories[i])
		if confidence > highest {
			highest = confidence
			best = &Suggestion{Category: categories[i], Confidence: confidence}
		}
	}

	return best
}
