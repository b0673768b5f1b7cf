// Package dashboard summarizes a profile and its transactions for a period.
package dashboard

import (
	"sort"
	"time"

	"github.com/Veraticus/spendwise/internal/income"
	"github.com/Veraticus/spendwise/internal/matcher"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
)

// CategorySpending is the activity of one category during the period.
type CategorySpending struct {
	Budget     *float64
	ID         string
	Name       string
	Type       model.CategoryType
	Spent      float64
	Received   float64
	Count      int
	BudgetUsed float64 // percentage of the monthly budget, scaled to the period
	OverBudget bool
}

// Summary is everything the dashboard renders.
type Summary struct {
	Period                service.DateRange
	Distribution          *income.Distribution
	Categories            []CategorySpending
	TotalIncome           float64
	TotalExpenses         float64
	TotalSaved            float64
	Net                   float64
	SavingsRate           float64
	ProfileYearlyIncome   float64
	ProfileYearlyExpenses float64
	MonthlySavingsGoal    float64
	NetWorth              float64
	TransactionCount      int
	Uncategorized         int
	CardPayments          int
	SampleCount           int
}

// Build computes the summary for transactions dated within [start, end].
// A zero start or end leaves that side open. Credit card payments are counted
// but excluded from totals since they move money between accounts.
func Build(profile *model.Profile, categories []model.Category, transactions []model.Transaction, start, end time.Time) Summary {
	summary := Summary{
		Period: service.DateRange{Start: start, End: end},
	}

	if profile != nil {
		summary.Distribution = income.AnalyzeIncomeDistribution(profile.IncomeSources)
		summary.ProfileYearlyIncome = income.CalculateTotalYearlyIncome(profile.IncomeSources)
		summary.ProfileYearlyExpenses = income.CalculateTotalYearlyExpenses(profile.Expenses)
		summary.MonthlySavingsGoal = profile.MonthlySavingsGoal
		summary.NetWorth = profile.NetWorth()
	}

	byID := make(map[string]model.Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}
	spending := make(map[string]*CategorySpending)

	for _, txn := range transactions {
		if !summary.Period.Contains(txn.Date) {
			continue
		}
		summary.TransactionCount++
		if txn.Sample {
			summary.SampleCount++
		}
		if matcher.IsCreditCardPayment(txn.Description) {
			summary.CardPayments++
			continue
		}

		cat, known := byID[txn.CategoryID]
		if !txn.IsCategorized() || !known {
			summary.Uncategorized++
		}

		switch {
		case known && cat.Type == model.CategoryTypeSavings:
			summary.TotalSaved += -txn.Amount
		case txn.IsExpense():
			summary.TotalExpenses += -txn.Amount
		default:
			summary.TotalIncome += txn.Amount
		}

		if !known {
			continue
		}
		entry, ok := spending[cat.ID]
		if !ok {
			entry = &CategorySpending{
				ID:     cat.ID,
				Name:   cat.Name,
				Type:   cat.Type,
				Budget: cat.Budget,
			}
			spending[cat.ID] = entry
		}
		entry.Count++
		if txn.IsExpense() {
			entry.Spent += -txn.Amount
		} else {
			entry.Received += txn.Amount
		}
	}

	months := periodMonths(summary.Period, transactions)
	for _, entry := range spending {
		if entry.Budget != nil && *entry.Budget > 0 {
			allowed := *entry.Budget * months
			entry.BudgetUsed = entry.Spent / allowed * 100
			entry.OverBudget = entry.Spent > allowed
		}
		summary.Categories = append(summary.Categories, *entry)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		a, b := summary.Categories[i], summary.Categories[j]
		if a.Spent != b.Spent {
			return a.Spent > b.Spent
		}
		return a.ID < b.ID
	})

	summary.Net = summary.TotalIncome - summary.TotalExpenses
	if summary.TotalIncome > 0 {
		summary.SavingsRate = (summary.TotalIncome - summary.TotalExpenses) / summary.TotalIncome * 100
	}

	return summary
}

// periodMonths is the number of months budgets are scaled by. Open bounds
// fall back to the span of the transactions themselves; never less than one.
func periodMonths(period service.DateRange, transactions []model.Transaction) float64 {
	start, end := period.Start, period.End
	for _, txn := range transactions {
		if !period.Contains(txn.Date) {
			continue
		}
		if period.Start.IsZero() && (start.IsZero() || txn.Date.Before(start)) {
			start = txn.Date
		}
		if period.End.IsZero() && (end.IsZero() || txn.Date.After(end)) {
			end = txn.Date
		}
	}
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return 1
	}

	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
	if months < 1 {
		return 1
	}
	return float64(months)
}
