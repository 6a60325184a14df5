package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tair/product-catalog/internal/product/domain"
)

func newTestRepository(t *testing.T) *GormProductRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	repo := NewGormProductRepository(db)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func TestGormProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	shirt := &domain.Product{Name: "Blue Shirt", Type: "Ropa", Price: decimal.RequireFromString("19.90"), Stock: 5}
	pants := &domain.Product{Name: "Red Pants", Type: "Ropa", Price: decimal.RequireFromString("25"), Stock: 0}
	require.NoError(t, repo.Create(ctx, shirt))
	require.NoError(t, repo.Create(ctx, pants))
	require.NotZero(t, shirt.ID)

	t.Run("FindByID", func(t *testing.T) {
		got, err := repo.FindByID(ctx, shirt.ID)
		require.NoError(t, err)
		assert.Equal(t, "Blue Shirt", got.Name)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("19.9")))

		_, err = repo.FindByID(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("FindByNameAndType", func(t *testing.T) {
		got, err := repo.FindByNameAndType(ctx, "Red Pants", "Ropa")
		require.NoError(t, err)
		assert.Equal(t, pants.ID, got.ID)

		_, err = repo.FindByNameAndType(ctx, "Red Pants", "Muebles")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("FindAllInIDOrder", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, shirt.ID, all[0].ID)
		assert.Equal(t, pants.ID, all[1].ID)
	})

	t.Run("Update", func(t *testing.T) {
		pants.Stock = 3
		require.NoError(t, repo.Update(ctx, pants))

		got, err := repo.FindByID(ctx, pants.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Stock)
	})

	t.Run("DeleteIsSoft", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, pants))

		_, err := repo.FindByID(ctx, pants.ID)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, pants), domain.ErrProductNotFound)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestTracingProductRepositoryDelegates(t *testing.T) {
	ctx := context.Background()
	repo := NewTracingProductRepository(newTestRepository(t))

	p := &domain.Product{Name: "Mesa", Type: "Muebles", Price: decimal.NewFromInt(80), Stock: 1}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mesa", got.Name)

	_, err = repo.FindByID(ctx, p.ID+1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
