// Package testutil provides test helpers for spendwise packages.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/storage"
)

// TestDB is a migrated in-memory database seeded with categories.
type TestDB struct {
	Storage    *storage.SQLiteStorage
	t          *testing.T
	Categories []model.Category
}

// SetupTestDB creates a new in-memory test database with the specified categories.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.NewCategoryBuilder().
//			WithDefaults().
//			Build(),
//	)
func SetupTestDB(t *testing.T, cats []model.Category) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for i := range cats {
		if err := store.CreateCategory(ctx, &cats[i]); err != nil {
			t.Fatalf("failed to seed category %q: %v", cats[i].ID, err)
		}
	}

	return &TestDB{
		Storage:    store,
		Categories: cats,
		t:          t,
	}
}

// AddTransactions stores transactions or fails the test.
func (db *TestDB) AddTransactions(txns ...model.Transaction) {
	db.t.Helper()
	if _, err := db.Storage.SaveTransactions(context.Background(), txns); err != nil {
		db.t.Fatalf("failed to save transactions: %v", err)
	}
}

// MustGetTransaction loads a transaction or fails the test.
func (db *TestDB) MustGetTransaction(id string) model.Transaction {
	db.t.Helper()
	txn, err := db.Storage.GetTransactionByID(context.Background(), id)
	if err != nil {
		db.t.Fatalf("failed to load transaction %q: %v", id, err)
	}
	return *txn
}

// Txn builds a transaction dated in January 2024 for the given day.
func Txn(id string, day int, description string, amount float64) model.Transaction {
	return model.Transaction{
		ID:          id,
		Date:        time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
		Description: description,
		Amount:      amount,
		AccountID:   "test-account",
	}
}
