package model

import "time"

// Profile is the user data captured during onboarding and edited afterwards.
type Profile struct {
	OnboardedAt        time.Time      `json:"onboarded_at"`
	Name               string         `json:"name"`
	IncomeSources      []IncomeSource `json:"income_sources"`
	Expenses           []ExpenseEntry `json:"expenses"`
	MonthlySavingsGoal float64        `json:"monthly_savings_goal"`
	Assets             float64        `json:"assets"`
	Liabilities        float64        `json:"liabilities"`
}

// NetWorth returns assets minus liabilities.
func (p *Profile) NetWorth() float64 {
	return p.Assets - p.Liabilities
}

// IsOnboarded reports whether the onboarding flow has been completed.
func (p *Profile) IsOnboarded() bool {
	return !p.OnboardedAt.IsZero()
}
