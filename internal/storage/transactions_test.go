package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage_SaveTransactions(t *testing.T) {
	tests := []struct {
		setup        func(*testing.T, *SQLiteStorage)
		name         string
		transactions []model.Transaction
		wantInserted int
		wantErr      error
	}{
		{
			name:         "save new transactions",
			transactions: createTestTransactions(3),
			wantInserted: 3,
		},
		{
			name:         "duplicates are skipped",
			transactions: createTestTransactions(3),
			setup: func(t *testing.T, s *SQLiteStorage) {
				t.Helper()
				_, err := s.SaveTransactions(context.Background(), createTestTransactions(2))
				require.NoError(t, err)
			},
			wantInserted: 1,
		},
		{
			name:         "empty slice",
			transactions: []model.Transaction{},
			wantErr:      ErrEmptySlice,
		},
		{
			name:         "nil slice",
			transactions: nil,
			wantErr:      ErrNilParameter,
		},
		{
			name: "missing description",
			transactions: []model.Transaction{
				{ID: "a", Date: time.Now()},
			},
			wantErr: ErrInvalidTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStorage(t)
			if tt.setup != nil {
				tt.setup(t, store)
			}

			inserted, err := store.SaveTransactions(context.Background(), tt.transactions)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantInserted, inserted)
		})
	}
}

func TestSQLiteStorage_SaveTransactions_GeneratesHash(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txn := model.Transaction{
		ID:          "no-hash",
		Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Description: "STARBUCKS #1234",
		Amount:      -4.5,
	}
	_, err := store.SaveTransactions(ctx, []model.Transaction{txn})
	require.NoError(t, err)

	got, err := store.GetTransactionByID(ctx, "no-hash")
	require.NoError(t, err)
	assert.Equal(t, txn.GenerateHash(), got.Hash)
	assert.True(t, txn.Date.Equal(got.Date))
	assert.Equal(t, -4.5, got.Amount)
	assert.Empty(t, got.CategoryID)
	assert.False(t, got.Sample)
}

func TestSQLiteStorage_GetTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txns := createTestTransactions(5)
	txns[0].CategoryID = "dining"
	txns[1].CategoryID = "dining"
	txns[4].Sample = true
	_, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)

	start := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		filter  service.TransactionFilter
		wantIDs []string
	}{
		{
			name:    "all newest first",
			filter:  service.TransactionFilter{},
			wantIDs: []string{"txn-005", "txn-004", "txn-003", "txn-002", "txn-001"},
		},
		{
			name:    "date range",
			filter:  service.TransactionFilter{StartDate: &start, EndDate: &end},
			wantIDs: []string{"txn-004", "txn-003", "txn-002"},
		},
		{
			name:    "by category",
			filter:  service.TransactionFilter{CategoryID: "dining"},
			wantIDs: []string{"txn-002", "txn-001"},
		},
		{
			name:    "uncategorized without samples",
			filter:  service.TransactionFilter{Uncategorized: true, ExcludeSample: true},
			wantIDs: []string{"txn-004", "txn-003"},
		},
		{
			name:    "limit",
			filter:  service.TransactionFilter{Limit: 2},
			wantIDs: []string{"txn-005", "txn-004"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.GetTransactions(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(got))
			for _, txn := range got {
				ids = append(ids, txn.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSQLiteStorage_UpdateTransactionCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.SaveTransactions(ctx, createTestTransactions(3))
	require.NoError(t, err)

	require.NoError(t, store.UpdateTransactionCategory(ctx, "txn-002", "groceries"))

	uncategorized, err := store.GetUncategorizedTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, uncategorized, 2)
	assert.Equal(t, "txn-001", uncategorized[0].ID, "uncategorized transactions are oldest first")

	got, err := store.GetTransactionByID(ctx, "txn-002")
	require.NoError(t, err)
	assert.Equal(t, "groceries", got.CategoryID)

	require.NoError(t, store.UpdateTransactionCategory(ctx, "txn-002", ""))
	uncategorized, err = store.GetUncategorizedTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, uncategorized, 3)

	assert.ErrorIs(t, store.UpdateTransactionCategory(ctx, "missing", "groceries"), common.ErrNotFound)
}

func TestSQLiteStorage_GetTransactionByID_NotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetTransactionByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_DeleteSampleTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txns := createTestTransactions(4)
	txns[1].Sample = true
	txns[3].Sample = true
	_, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)

	deleted, err := store.DeleteSampleTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	remaining, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
	for _, txn := range remaining {
		assert.False(t, txn.Sample)
	}
}
