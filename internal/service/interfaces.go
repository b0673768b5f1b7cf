// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/spendwise/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	CategoryID    string
	Limit         int
	Uncategorized bool
	ExcludeSample bool
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetUncategorizedTransactions(ctx context.Context) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	UpdateTransactionCategory(ctx context.Context, transactionID, categoryID string) error
	DeleteSampleTransactions(ctx context.Context) (int, error)

	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategoryBudget(ctx context.Context, id string, budget *float64) error
	AddCategoryKeyword(ctx context.Context, id, keyword string) error
	DeleteCategory(ctx context.Context, id string) error
	SaveMerchantMapping(ctx context.Context, categoryID, merchant string) error
	SeedCategories(ctx context.Context, categories []model.Category) (int, error)

	// Profile operations
	GetProfile(ctx context.Context) (*model.Profile, error)
	SaveProfile(ctx context.Context, profile *model.Profile) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// CategorizeStats shows the results of a categorization run.
type CategorizeStats struct {
	Total           int
	AutoCategorized int
	LowConfidence   int
	NoMatch         int
	CardPayments    int
	SplitCandidates []model.Transaction
	Duration        time.Duration
}

// DateRange represents a time period with start and end dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range, inclusive of both ends.
// A zero bound is open.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}
