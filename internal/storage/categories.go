package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
)

// GetCategories returns all categories with their learned merchant mappings.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, type, keywords, budget, created_at
		FROM categories
		ORDER BY type, name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	mappings, err := s.getMerchantMappings(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		for _, merchant := range mappings[categories[i].ID] {
			categories[i].AddMerchantMapping(merchant)
		}
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByID returns a single category or common.ErrNotFound.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, type, keywords, budget, created_at
		FROM categories
		WHERE id = ?`

	cat, err := scanCategory(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %q: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT merchant FROM merchant_mappings WHERE category_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchant mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var merchant string
		if err := rows.Scan(&merchant); err != nil {
			return nil, fmt.Errorf("failed to scan merchant mapping: %w", err)
		}
		cat.AddMerchantMapping(merchant)
	}

	return cat, rows.Err()
}

// CreateCategory inserts a new category. The ID must not already exist.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertCategory(ctx, tx, category)
	})
}

// SeedCategories inserts the given categories when the table is empty and
// returns how many were created.
func (s *SQLiteStorage) SeedCategories(ctx context.Context, categories []model.Category) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for i := range categories {
			if err := validateCategory(&categories[i]); err != nil {
				return err
			}
			if err := insertCategory(ctx, tx, &categories[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("seeded default categories", "count", len(categories))
	return len(categories), nil
}

// UpdateCategoryBudget sets or clears the monthly budget of a category.
func (s *SQLiteStorage) UpdateCategoryBudget(ctx context.Context, id string, budget *float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if budget != nil && *budget < 0 {
		return fmt.Errorf("%w: budget cannot be negative", ErrInvalidCategory)
	}

	result, err := s.db.ExecContext(ctx, `UPDATE categories SET budget = ? WHERE id = ?`, nullableFloat(budget), id)
	if err != nil {
		return fmt.Errorf("failed to update category budget: %w", err)
	}
	return requireAffected(result, "category", id)
}

// AddCategoryKeyword appends a keyword to the category unless it is already present.
func (s *SQLiteStorage) AddCategoryKeyword(ctx context.Context, id, keyword string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if err := validateString(keyword, "keyword"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var raw string
		err := tx.QueryRowContext(ctx, `SELECT keywords FROM categories WHERE id = ?`, id).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("category %q: %w", id, common.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to query category keywords: %w", err)
		}

		var keywords []string
		if err := json.Unmarshal([]byte(raw), &keywords); err != nil {
			return fmt.Errorf("failed to decode keywords: %w", err)
		}
		for _, existing := range keywords {
			if existing == keyword {
				return nil
			}
		}
		keywords = append(keywords, keyword)

		encoded, err := json.Marshal(keywords)
		if err != nil {
			return fmt.Errorf("failed to encode keywords: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE categories SET keywords = ? WHERE id = ?`, string(encoded), id); err != nil {
			return fmt.Errorf("failed to update keywords: %w", err)
		}
		return nil
	})
}

// DeleteCategory removes a category and its merchant mappings. It fails with
// ErrCategoryInUse while transactions still reference the category.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE category_id = ?`, id).Scan(&count); err != nil {
			return fmt.Errorf("failed to check category usage: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %d transactions use category %q", ErrCategoryInUse, count, id)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM merchant_mappings WHERE category_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete merchant mappings: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return requireAffected(result, "category", id)
	})
}

// SaveMerchantMapping records a normalized merchant for a category. A merchant
// maps to at most one category, so existing mappings elsewhere are replaced.
func (s *SQLiteStorage) SaveMerchantMapping(ctx context.Context, categoryID, merchant string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return err
	}
	if err := validateString(merchant, "merchant"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM categories WHERE id = ?`, categoryID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("category %q: %w", categoryID, common.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check category: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM merchant_mappings WHERE merchant = ?`, merchant); err != nil {
			return fmt.Errorf("failed to clear merchant mapping: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO merchant_mappings (category_id, merchant, created_at) VALUES (?, ?, ?)`,
			categoryID, merchant, time.Now()); err != nil {
			return fmt.Errorf("failed to save merchant mapping: %w", err)
		}

		slog.Debug("saved merchant mapping", "category", categoryID, "merchant", merchant)
		return nil
	})
}

func (s *SQLiteStorage) getMerchantMappings(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category_id, merchant FROM merchant_mappings ORDER BY merchant`)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchant mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	mappings := make(map[string][]string)
	for rows.Next() {
		var categoryID, merchant string
		if err := rows.Scan(&categoryID, &merchant); err != nil {
			return nil, fmt.Errorf("failed to scan merchant mapping: %w", err)
		}
		mappings[categoryID] = append(mappings[categoryID], merchant)
	}

	return mappings, rows.Err()
}

func insertCategory(ctx context.Context, tx *sql.Tx, category *model.Category) error {
	keywords := category.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	encoded, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}

	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO categories (id, name, type, keywords, budget, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		category.ID, category.Name, string(category.Type), string(encoded),
		nullableFloat(category.Budget), category.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("category %q: %w", category.ID, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	for merchant := range category.MerchantMappings {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO merchant_mappings (category_id, merchant, created_at) VALUES (?, ?, ?)`,
			category.ID, merchant, category.CreatedAt); err != nil {
			return fmt.Errorf("failed to save merchant mapping: %w", err)
		}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var (
		cat      model.Category
		catType  string
		keywords string
		budget   sql.NullFloat64
	)

	if err := row.Scan(&cat.ID, &cat.Name, &catType, &keywords, &budget, &cat.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}

	cat.Type = model.CategoryType(catType)
	if budget.Valid {
		b := budget.Float64
		cat.Budget = &b
	}
	if err := json.Unmarshal([]byte(keywords), &cat.Keywords); err != nil {
		return nil, fmt.Errorf("failed to decode keywords for category %q: %w", cat.ID, err)
	}

	return &cat, nil
}

func nullableFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func requireAffected(result sql.Result, entity, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", entity, id, common.ErrNotFound)
	}
	return nil
}
