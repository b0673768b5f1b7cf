package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
)

const transactionColumns = `id, hash, date, description, amount, category_id, account_id, sample`

// SaveTransactions stores new transactions and returns how many were inserted.
// Transactions whose hash is already present are skipped.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}

	inserted := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR IGNORE INTO transactions (`+transactionColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, txn := range transactions {
			if txn.Hash == "" {
				txn.Hash = txn.GenerateHash()
			}

			result, err := stmt.ExecContext(ctx,
				txn.ID,
				txn.Hash,
				txn.Date.UTC(),
				txn.Description,
				txn.Amount,
				nullableString(txn.CategoryID),
				nullableString(txn.AccountID),
				txn.Sample,
			)
			if err != nil {
				return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
			}

			n, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read affected rows: %w", err)
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Debug("saved transactions", "received", len(transactions), "inserted", inserted)
	return inserted, nil
}

// GetTransactions returns transactions matching the filter, newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		conditions []string
		args       []any
	)
	if filter.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.EndDate.UTC())
	}
	if filter.CategoryID != "" {
		conditions = append(conditions, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.Uncategorized {
		conditions = append(conditions, "(category_id IS NULL OR category_id = '')")
	}
	if filter.ExcludeSample {
		conditions = append(conditions, "sample = 0")
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	return s.queryTransactions(ctx, query, args...)
}

// GetUncategorizedTransactions returns every transaction without a category, oldest first.
func (s *SQLiteStorage) GetUncategorizedTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE category_id IS NULL OR category_id = ''
		ORDER BY date, id`

	return s.queryTransactions(ctx, query)
}

// GetTransactionByID returns a single transaction or common.ErrNotFound.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %q: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// UpdateTransactionCategory assigns a category to a transaction. An empty
// categoryID clears the assignment.
func (s *SQLiteStorage) UpdateTransactionCategory(ctx context.Context, transactionID, categoryID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET category_id = ? WHERE id = ?`,
		nullableString(categoryID), transactionID)
	if err != nil {
		return fmt.Errorf("failed to update transaction category: %w", err)
	}
	return requireAffected(result, "transaction", transactionID)
}

// DeleteSampleTransactions removes all sample transactions and returns how many were deleted.
func (s *SQLiteStorage) DeleteSampleTransactions(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE sample = 1`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sample transactions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(n), nil
}

func (s *SQLiteStorage) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var (
		txn        model.Transaction
		categoryID sql.NullString
		accountID  sql.NullString
	)

	err := row.Scan(
		&txn.ID,
		&txn.Hash,
		&txn.Date,
		&txn.Description,
		&txn.Amount,
		&categoryID,
		&accountID,
		&txn.Sample,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.CategoryID = categoryID.String
	txn.AccountID = accountID.String
	return &txn, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
