// Package income normalizes income and expense entries of differing
// frequencies to a yearly basis and summarizes how income is distributed.
package income

import (
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/spendwise/internal/model"
)

// DiversificationThreshold is the primary-source share, in percent, at or
// above which income is considered concentrated.
const DiversificationThreshold = 80

// Validation messages returned by ValidateIncomeSource.
const (
	MsgNameRequired     = "Income source name is required"
	MsgAmountPositive   = "Amount must be a positive number"
	MsgInvalidFrequency = "Please select a valid frequency"
)

var multipliers = map[model.Frequency]float64{
	model.FrequencyWeekly:   52,
	model.FrequencyBiWeekly: 26,
	model.FrequencyMonthly:  12,
	model.FrequencyYearly:   1,
	model.FrequencyOneTime:  0,
}

// Distribution describes how total income is spread across sources.
type Distribution struct {
	PrimarySource     string  `json:"primary_source"`
	TotalSources      int     `json:"total_sources"`
	PrimaryPercentage int     `json:"primary_percentage"`
	TotalYearly       float64 `json:"total_yearly"`
	MonthlyAverage    float64 `json:"monthly_average"`
	IsDiversified     bool    `json:"is_diversified"`
}

// Multiplier returns the number of occurrences per year for a frequency.
// One-time amounts do not recur and yield 0. Unrecognized frequencies are
// treated as yearly.
func Multiplier(frequency model.Frequency) float64 {
	if m, ok := multipliers[frequency]; ok {
		return m
	}
	return 1
}

// ConvertToYearly annualizes an amount paid at the given frequency.
func ConvertToYearly(amount float64, frequency model.Frequency) float64 {
	return amount * Multiplier(frequency)
}

// ConvertFromYearly spreads a yearly amount over the target frequency.
// Returns 0 for frequencies that do not recur.
func ConvertFromYearly(yearlyAmount float64, frequency model.Frequency) float64 {
	m := Multiplier(frequency)
	if m > 0 {
		return yearlyAmount / m
	}
	return 0
}

// CalculateTotalYearlyIncome sums the yearly-equivalent amount of every source.
func CalculateTotalYearlyIncome(sources []model.IncomeSource) float64 {
	total := 0.0
	for _, source := range sources {
		total += ConvertToYearly(source.Amount, source.Frequency)
	}
	return total
}

// CalculateTotalYearlyExpenses sums the yearly-equivalent amount of every expense.
func CalculateTotalYearlyExpenses(expenses []model.ExpenseEntry) float64 {
	total := 0.0
	for _, expense := range expenses {
		total += ConvertToYearly(expense.Amount, expense.Frequency)
	}
	return total
}

// AnalyzeIncomeDistribution reports the primary income source and whether
// income is diversified. Returns nil when there is no recurring income.
func AnalyzeIncomeDistribution(sources []model.IncomeSource) *Distribution {
	if len(sources) == 0 {
		return nil
	}

	totalYearly := CalculateTotalYearlyIncome(sources)
	if totalYearly == 0 {
		return nil
	}

	primary := sources[0]
	primaryYearly := ConvertToYearly(primary.Amount, primary.Frequency)
	for _, source := range sources[1:] {
		yearly := ConvertToYearly(source.Amount, source.Frequency)
		if yearly > primaryYearly {
			primary = source
			primaryYearly = yearly
		}
	}

	percentage := int(math.Round(primaryYearly / totalYearly * 100))

	return &Distribution{
		TotalSources:      len(sources),
		PrimarySource:     primary.Name,
		PrimaryPercentage: percentage,
		IsDiversified:     len(sources) > 1 && percentage < DiversificationThreshold,
		TotalYearly:       totalYearly,
		MonthlyAverage:    totalYearly / 12,
	}
}

// ValidateIncomeSource returns a human-readable message for every invalid
// field. An empty result means the source is valid.
func ValidateIncomeSource(source model.IncomeSource) []string {
	return validateEntry(source.Name, source.Amount, source.Frequency)
}

// ValidateExpenseEntry applies the income source rules to a recurring expense.
func ValidateExpenseEntry(expense model.ExpenseEntry) []string {
	return validateEntry(expense.Name, expense.Amount, expense.Frequency)
}

func validateEntry(name string, amount float64, frequency model.Frequency) []string {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, MsgNameRequired)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		errs = append(errs, MsgAmountPositive)
	}
	if !frequency.IsValid() {
		errs = append(errs, MsgInvalidFrequency)
	}

	return errs
}

// ValidateIncomeInput validates raw form input before it is converted to an
// IncomeSource. The amount must parse to a positive number.
func ValidateIncomeInput(name, amount, frequency string) []string {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		parsed = math.NaN()
	}
	return validateEntry(name, parsed, model.Frequency(frequency))
}
