package testutil

import (
	"github.com/Veraticus/spendwise/internal/matcher"
	"github.com/Veraticus/spendwise/internal/model"
)

// CategoryBuilder assembles category fixtures for tests.
type CategoryBuilder struct {
	categories []model.Category
}

// NewCategoryBuilder returns an empty builder.
func NewCategoryBuilder() *CategoryBuilder {
	return &CategoryBuilder{}
}

// WithDefaults adds the application's seed categories.
func (b *CategoryBuilder) WithDefaults() *CategoryBuilder {
	b.categories = append(b.categories, matcher.DefaultCategories()...)
	return b
}

// WithExpense adds an expense category with the given keywords.
func (b *CategoryBuilder) WithExpense(id string, keywords ...string) *CategoryBuilder {
	return b.with(id, model.CategoryTypeExpense, keywords)
}

// WithIncome adds an income category with the given keywords.
func (b *CategoryBuilder) WithIncome(id string, keywords ...string) *CategoryBuilder {
	return b.with(id, model.CategoryTypeIncome, keywords)
}

// WithSavings adds a savings category with the given keywords.
func (b *CategoryBuilder) WithSavings(id string, keywords ...string) *CategoryBuilder {
	return b.with(id, model.CategoryTypeSavings, keywords)
}

// WithBudget sets the monthly budget on the most recently added category.
func (b *CategoryBuilder) WithBudget(amount float64) *CategoryBuilder {
	if len(b.categories) > 0 {
		b.categories[len(b.categories)-1].Budget = &amount
	}
	return b
}

// WithMerchant maps a normalized merchant to the most recently added category.
func (b *CategoryBuilder) WithMerchant(merchant string) *CategoryBuilder {
	if len(b.categories) > 0 {
		b.categories[len(b.categories)-1].AddMerchantMapping(merchant)
	}
	return b
}

// Build returns the assembled categories.
func (b *CategoryBuilder) Build() []model.Category {
	return append([]model.Category(nil), b.categories...)
}

func (b *CategoryBuilder) with(id string, categoryType model.CategoryType, keywords []string) *CategoryBuilder {
	b.categories = append(b.categories, model.Category{
		ID:       id,
		Name:     id,
		Type:     categoryType,
		Keywords: keywords,
	})
	return b
}
