package model

import "time"

// CategoryType indicates whether a category tracks income, spending or savings.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for money coming in.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories for spending.
	CategoryTypeExpense CategoryType = "expense"
	// CategoryTypeSavings represents categories for money set aside.
	CategoryTypeSavings CategoryType = "savings"
)

// IsValid reports whether t is one of the known category types.
func (t CategoryType) IsValid() bool {
	switch t {
	case CategoryTypeIncome, CategoryTypeExpense, CategoryTypeSavings:
		return true
	}
	return false
}

// Category is a budget bucket transactions are assigned to.
type Category struct {
	CreatedAt time.Time `json:"created_at"`
	// Budget is the optional monthly budget for the category.
	Budget *float64 `json:"budget,omitempty"`
	// MerchantMappings maps a normalized merchant name to the category ID.
	// Entries are learned from user assignments.
	MerchantMappings map[string]string `json:"merchant_mappings,omitempty"`
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Type             CategoryType      `json:"type"`
	Keywords         []string          `json:"keywords"`
}

// AddMerchantMapping records that a normalized merchant belongs to this category.
func (c *Category) AddMerchantMapping(merchant string) {
	if merchant == "" {
		return
	}
	if c.MerchantMappings == nil {
		c.MerchantMappings = make(map[string]string)
	}
	c.MerchantMappings[merchant] = c.ID
}

// HasMerchant reports whether the normalized merchant is mapped to this category.
func (c *Category) HasMerchant(merchant string) bool {
	_, ok := c.MerchantMappings[merchant]
	return ok
}
