package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/spendwise/internal/model"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

// Helper function to create test transactions.
func createTestTransactions(count int) []model.Transaction {
	txns := make([]model.Transaction, count)
	baseTime := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < count; i++ {
		txns[i] = model.Transaction{
			ID:          fmt.Sprintf("txn-%03d", i+1),
			Date:        baseTime.AddDate(0, 0, i),
			Description: fmt.Sprintf("MERCHANT %d #%d", i%3, 1000+i),
			Amount:      -float64(i+1) * 10.50,
			AccountID:   "acc1",
		}
		txns[i].Hash = txns[i].GenerateHash()
	}
	return txns
}

func budget(f float64) *float64 { return &f }
