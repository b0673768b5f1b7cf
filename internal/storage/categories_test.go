package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage_CreateAndGetCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	category := &model.Category{
		ID:               "groceries",
		Name:             "Groceries",
		Type:             model.CategoryTypeExpense,
		Keywords:         []string{"market", "grocery"},
		Budget:           budget(400),
		MerchantMappings: map[string]string{"whole foods market": "groceries"},
	}
	require.NoError(t, store.CreateCategory(ctx, category))

	got, err := store.GetCategoryByID(ctx, "groceries")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Name)
	assert.Equal(t, model.CategoryTypeExpense, got.Type)
	assert.Equal(t, []string{"market", "grocery"}, got.Keywords)
	require.NotNil(t, got.Budget)
	assert.Equal(t, 400.0, *got.Budget)
	assert.True(t, got.HasMerchant("whole foods market"))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSQLiteStorage_CreateCategory_Errors(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	valid := &model.Category{ID: "rent", Name: "Rent", Type: model.CategoryTypeExpense}
	require.NoError(t, store.CreateCategory(ctx, valid))

	tests := []struct {
		category *model.Category
		wantErr  error
		name     string
	}{
		{name: "duplicate id", category: &model.Category{ID: "rent", Name: "Other", Type: model.CategoryTypeExpense}, wantErr: common.ErrDuplicateEntry},
		{name: "nil category", category: nil, wantErr: ErrNilParameter},
		{name: "missing id", category: &model.Category{Name: "X", Type: model.CategoryTypeExpense}, wantErr: ErrInvalidCategory},
		{name: "missing name", category: &model.Category{ID: "x", Type: model.CategoryTypeExpense}, wantErr: ErrInvalidCategory},
		{name: "unknown type", category: &model.Category{ID: "x", Name: "X", Type: "system"}, wantErr: ErrInvalidCategory},
		{name: "negative budget", category: &model.Category{ID: "x", Name: "X", Type: model.CategoryTypeExpense, Budget: budget(-1)}, wantErr: ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, store.CreateCategory(ctx, tt.category), tt.wantErr)
		})
	}
}

func TestSQLiteStorage_GetCategoryByID_NotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetCategoryByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_SeedCategories(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	seed := []model.Category{
		{ID: "salary", Name: "Salary", Type: model.CategoryTypeIncome, Keywords: []string{"payroll"}},
		{ID: "dining", Name: "Dining", Type: model.CategoryTypeExpense, Keywords: []string{"cafe"}},
		{ID: "retirement", Name: "Retirement", Type: model.CategoryTypeSavings},
	}

	n, err := store.SeedCategories(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = store.SeedCategories(ctx, seed)
	require.NoError(t, err)
	assert.Zero(t, n, "seeding a populated table should be a no-op")

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "dining", categories[0].ID, "categories are ordered by type then name")
	assert.Empty(t, categories[2].Keywords)
}

func TestSQLiteStorage_UpdateCategoryBudget(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCategory(ctx, &model.Category{ID: "dining", Name: "Dining", Type: model.CategoryTypeExpense}))

	require.NoError(t, store.UpdateCategoryBudget(ctx, "dining", budget(250)))
	got, err := store.GetCategoryByID(ctx, "dining")
	require.NoError(t, err)
	require.NotNil(t, got.Budget)
	assert.Equal(t, 250.0, *got.Budget)

	require.NoError(t, store.UpdateCategoryBudget(ctx, "dining", nil))
	got, err = store.GetCategoryByID(ctx, "dining")
	require.NoError(t, err)
	assert.Nil(t, got.Budget)

	assert.ErrorIs(t, store.UpdateCategoryBudget(ctx, "missing", budget(1)), common.ErrNotFound)
	assert.ErrorIs(t, store.UpdateCategoryBudget(ctx, "dining", budget(-5)), ErrInvalidCategory)
}

func TestSQLiteStorage_AddCategoryKeyword(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCategory(ctx, &model.Category{
		ID: "dining", Name: "Dining", Type: model.CategoryTypeExpense, Keywords: []string{"cafe"},
	}))

	require.NoError(t, store.AddCategoryKeyword(ctx, "dining", "  Bistro "))
	require.NoError(t, store.AddCategoryKeyword(ctx, "dining", "cafe"))

	got, err := store.GetCategoryByID(ctx, "dining")
	require.NoError(t, err)
	assert.Equal(t, []string{"cafe", "bistro"}, got.Keywords)

	assert.ErrorIs(t, store.AddCategoryKeyword(ctx, "missing", "x"), common.ErrNotFound)
	assert.ErrorIs(t, store.AddCategoryKeyword(ctx, "dining", " "), ErrEmptyString)
}

func TestSQLiteStorage_SaveMerchantMapping(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCategory(ctx, &model.Category{ID: "shopping", Name: "Shopping", Type: model.CategoryTypeExpense}))
	require.NoError(t, store.CreateCategory(ctx, &model.Category{ID: "groceries", Name: "Groceries", Type: model.CategoryTypeExpense}))

	require.NoError(t, store.SaveMerchantMapping(ctx, "shopping", "costco"))
	require.NoError(t, store.SaveMerchantMapping(ctx, "groceries", "costco"))

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	for _, cat := range categories {
		switch cat.ID {
		case "groceries":
			assert.True(t, cat.HasMerchant("costco"))
		case "shopping":
			assert.False(t, cat.HasMerchant("costco"), "a merchant maps to one category only")
		}
	}

	assert.ErrorIs(t, store.SaveMerchantMapping(ctx, "missing", "costco"), common.ErrNotFound)
}

func TestSQLiteStorage_CreateCategory_MappingTimestamps(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	createdAt := time.Date(2023, time.March, 4, 10, 30, 0, 0, time.UTC)
	require.NoError(t, store.CreateCategory(ctx, &model.Category{
		ID:               "coffee",
		Name:             "Coffee",
		Type:             model.CategoryTypeExpense,
		MerchantMappings: map[string]string{"blue bottle": "coffee"},
		CreatedAt:        createdAt,
	}))
	require.NoError(t, store.SaveMerchantMapping(ctx, "coffee", "philz"))

	var seeded, saved time.Time
	require.NoError(t, store.db.QueryRow(
		`SELECT created_at FROM merchant_mappings WHERE category_id = 'coffee' AND merchant = 'blue bottle'`).Scan(&seeded))
	require.NoError(t, store.db.QueryRow(
		`SELECT created_at FROM merchant_mappings WHERE category_id = 'coffee' AND merchant = 'philz'`).Scan(&saved))

	assert.True(t, createdAt.Equal(seeded), "seeded mapping keeps the category timestamp, got %v", seeded)
	assert.WithinDuration(t, time.Now(), saved, time.Minute)
}

func TestSQLiteStorage_DeleteCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	require.NoError(t, store.CreateCategory(ctx, &model.Category{ID: "dining", Name: "Dining", Type: model.CategoryTypeExpense}))
	require.NoError(t, store.CreateCategory(ctx, &model.Category{ID: "travel", Name: "Travel", Type: model.CategoryTypeExpense}))
	require.NoError(t, store.SaveMerchantMapping(ctx, "travel", "delta air"))

	txns := createTestTransactions(1)
	txns[0].CategoryID = "dining"
	_, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)

	assert.ErrorIs(t, store.DeleteCategory(ctx, "dining"), ErrCategoryInUse)
	require.NoError(t, store.DeleteCategory(ctx, "travel"))
	assert.ErrorIs(t, store.DeleteCategory(ctx, "travel"), common.ErrNotFound)

	var mappings int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM merchant_mappings WHERE category_id = 'travel'`).Scan(&mappings))
	assert.Zero(t, mappings)
}
