package matcher

import "github.com/Veraticus/spendwise/internal/model"

// DefaultCategories returns the seed category set created on first run.
func DefaultCategories() []model.Category {
	return []model.Category{
		// Income
		{
			ID:       "salary",
			Name:     "Salary",
			Type:     model.CategoryTypeIncome,
			Keywords: []string{"payroll", "salary", "direct dep", "wages"},
		},
		{
			ID:       "interest",
			Name:     "Interest & Dividends",
			Type:     model.CategoryTypeIncome,
			Keywords: []string{"interest", "dividend"},
		},
		{
			ID:       "refunds",
			Name:     "Refunds",
			Type:     model.CategoryTypeIncome,
			Keywords: []string{"refund", "reimbursement", "cashback"},
		},

		// Expenses
		{
			ID:       "rent",
			Name:     "Rent & Mortgage",
			Type:     model.CategoryTypeExpense,
			Keywords: []string{"rent", "mortgage", "property mgmt", "apartments"},
		},
		{
			ID:       "groceries",
			Name:     "Groceries",
			Type:     model.CategoryTypeExpense,
			Keywords: []string{"grocery", "market", "whole foods", "trader joe", "safeway", "kroger", "aldi"},
		},
		{
			ID:       "dining",
			Name:     "Dining Out",
			Type:     model.CategoryTypeExpense,
			Keywords: []string{"restaurant", "cafe", "coffee", "starbucks", "pizza", "grill", "doordash", "uber eats"},
		},
		{
			ID:       "transportation",
			Name:     "Transportation",
			Type:     model.CategoryTypeExpense,
			Keywords: []string{"uber", "lyft", "shell", "chevron", "exxon", "gas", "parking", "transit"},
		},
		{
			ID:       "utilities",
			Name:     "Utilities",
			Type:     model.CategoryTypeExpense,
			Keywords: []string{"electric", "water", "power", "internet", "comcast", "verizon", "at&t"},
		},
		{
			ID:       "shopping",
			Name:     "Shopping",
			Type:     model.CategoryTypeExpense,
			Keywords: []string{"amazon", "target", "walmart", "costco", "best buy"},
		},
		{
			ID:       "entertainment",
			Name:     "Entertainment",
			Type:     model.CategoryTypeExpense,
			Keywords: []string{"netflix", "spotify", "hulu", "cinema", "theater", "steam"},
		},
		{
			ID:       "health",
			Name:     "Health",
			Type:     model.CategoryTypeExpense,
			Keywords: []string{"pharmacy", "cvs", "walgreens", "medical", "dental", "clinic"},
		},

		// Savings
		{
			ID:       "emergency-fund",
			Name:     "Emergency Fund",
			Type:     model.CategoryTypeSavings,
			Keywords: []string{"savings transfer", "to savings"},
		},
		{
			ID:       "retirement",
			Name:     "Retirement",
			Type:     model.CategoryTypeSavings,
			Keywords: []string{"401k", "roth ira", "vanguard", "fidelity"},
		},
	}
}
