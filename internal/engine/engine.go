// Package engine applies category suggestions to stored transactions.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/spendwise/internal/matcher"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
)

// Config holds configuration options for the categorization engine.
type Config struct {
	// MinConfidence is the lowest suggestion confidence assigned automatically.
	MinConfidence float64
	// DryRun reports what would be assigned without saving.
	DryRun bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MinConfidence: 0.6,
	}
}

// Categorizer assigns categories to uncategorized transactions.
type Categorizer struct {
	storage  service.Storage
	progress Progress
	config   Config
}

// New creates a new categorizer with the default configuration.
func New(storage service.Storage) *Categorizer {
	return NewWithConfig(storage, DefaultConfig())
}

// NewWithConfig creates a new categorizer with custom configuration.
func NewWithConfig(storage service.Storage, config Config) *Categorizer {
	return &Categorizer{
		storage:  storage,
		progress: noopProgress{},
		config:   config,
	}
}

// SetProgress installs a progress reporter.
func (c *Categorizer) SetProgress(p Progress) {
	if p == nil {
		p = noopProgress{}
	}
	c.progress = p
}

// Suggest returns the best category for a single transaction using the stored categories.
func (c *Categorizer) Suggest(ctx context.Context, txn *model.Transaction) (*matcher.Suggestion, error) {
	categories, err := c.storage.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return matcher.SuggestCategory(txn, categories), nil
}

// CategorizeAll runs the matcher over every uncategorized transaction and
// assigns suggestions that meet the confidence threshold. Credit card
// payments are left alone since they move money between accounts.
func (c *Categorizer) CategorizeAll(ctx context.Context) (*service.CategorizeStats, error) {
	started := time.Now()

	categories, err := c.storage.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories found - add one with 'spendwise categories add'")
	}

	transactions, err := c.storage.GetUncategorizedTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	stats := &service.CategorizeStats{Total: len(transactions)}
	slog.Info("Categorizing transactions",
		"count", len(transactions),
		"categories", len(categories),
		"min_confidence", c.config.MinConfidence)

	c.progress.Start(len(transactions))
	defer c.progress.Finish()

	for i := range transactions {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		txn := &transactions[i]
		c.progress.Advance()

		if matcher.IsCreditCardPayment(txn.Description) {
			stats.CardPayments++
			continue
		}

		suggestion := matcher.SuggestCategory(txn, categories)
		switch {
		case suggestion == nil:
			stats.NoMatch++
		case suggestion.Confidence < c.config.MinConfidence:
			stats.LowConfidence++
			slog.Debug("Low confidence suggestion",
				"transaction", txn.ID,
				"category", suggestion.Category.ID,
				"confidence", suggestion.Confidence)
		default:
			if !c.config.DryRun {
				if err := c.storage.UpdateTransactionCategory(ctx, txn.ID, suggestion.Category.ID); err != nil {
					return stats, fmt.Errorf("failed to assign category to %s: %w", txn.ID, err)
				}
			}
			txn.CategoryID = suggestion.Category.ID
			stats.AutoCategorized++
		}

		if matcher.IsSplitWorthy(txn) {
			stats.SplitCandidates = append(stats.SplitCandidates, *txn)
		}
	}

	stats.Duration = time.Since(started)
	slog.Info("Categorization complete",
		"auto", stats.AutoCategorized,
		"low_confidence", stats.LowConfidence,
		"no_match", stats.NoMatch,
		"card_payments", stats.CardPayments,
		"duration", stats.Duration)

	return stats, nil
}

// Assign sets a transaction's category. With learn set, the transaction's
// normalized merchant is mapped to the category so later matches are exact.
func (c *Categorizer) Assign(ctx context.Context, transactionID, categoryID string, learn bool) error {
	txn, err := c.storage.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if _, err := c.storage.GetCategoryByID(ctx, categoryID); err != nil {
		return err
	}

	if err := c.storage.UpdateTransactionCategory(ctx, transactionID, categoryID); err != nil {
		return err
	}

	if !learn {
		return nil
	}

	merchant := matcher.NormalizeMerchantName(txn.Description)
	if merchant == "" {
		slog.Warn("Nothing to learn from description", "transaction", transactionID)
		return nil
	}
	if err := c.storage.SaveMerchantMapping(ctx, categoryID, merchant); err != nil {
		return fmt.Errorf("failed to learn merchant mapping: %w", err)
	}

	slog.Info("Learned merchant mapping", "merchant", merchant, "category", categoryID)
	return nil
}
