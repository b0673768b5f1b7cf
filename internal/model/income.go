package model

// Frequency describes how often an income or expense recurs.
type Frequency string

// Recognized frequencies. The string values are persisted and must not change.
const (
	FrequencyWeekly   Frequency = "Weekly"
	FrequencyBiWeekly Frequency = "Bi-weekly"
	FrequencyMonthly  Frequency = "Monthly"
	FrequencyYearly   Frequency = "Yearly"
	FrequencyOneTime  Frequency = "One-time"
)

// Frequencies lists every recognized frequency in display order.
var Frequencies = []Frequency{
	FrequencyWeekly,
	FrequencyBiWeekly,
	FrequencyMonthly,
	FrequencyYearly,
	FrequencyOneTime,
}

// IsValid reports whether f is one of the recognized frequencies.
func (f Frequency) IsValid() bool {
	for _, known := range Frequencies {
		if f == known {
			return true
		}
	}
	return false
}

// IncomeSource is a single stream of income captured during onboarding.
type IncomeSource struct {
	Name      string    `json:"name"`
	Frequency Frequency `json:"frequency"`
	Amount    float64   `json:"amount"`
}

// ExpenseEntry is a recurring expense captured during onboarding.
type ExpenseEntry struct {
	Name      string    `json:"name"`
	Frequency Frequency `json:"frequency"`
	Amount    float64   `json:"amount"`
}
