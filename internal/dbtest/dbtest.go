// Package dbtest opens throwaway sqlite databases with the storefront schema
// for store, service and HTTP tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/hash"
)

// Open returns a migrated in-memory database private to t. It is limited to a
// single connection so concurrent writers queue instead of failing with
// "database is locked".
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func CreateCategory(t testing.TB, db *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, db.WithContext(context.Background()).Create(c).Error)
	return c
}

// CreateProduct seeds a product; price is a decimal literal such as "29.99".
func CreateProduct(t testing.TB, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(p).Error)
	return p
}

func SetStock(t testing.TB, db *gorm.DB, productID uuid.UUID, stock int) {
	t.Helper()
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", productID).Update("stock", stock).Error)
}

func CreateUser(t testing.TB, db *gorm.DB, email, password string) *models.User {
	t.Helper()
	pw, err := hash.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{Email: email, Name: email, PasswordHash: pw, Role: "user"}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}
