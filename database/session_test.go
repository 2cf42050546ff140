package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/menu-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func inUse(t *testing.T, db *gorm.DB) int {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	return sqlDB.Stats().InUse
}

func TestWithSessionRunsOnDedicatedConnection(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewSessionProvider(db)

	err := sessions.WithSession(context.Background(), func(tx *gorm.DB) error {
		assert.Equal(t, 1, inUse(t, db))
		return tx.Create(&models.MenuItem{Name: "Falafel Wrap", Category: models.CategoryHalal, Spice: "Mild", PriceCents: 850}).Error
	})
	require.NoError(t, err)
	assert.Equal(t, 0, inUse(t, db))

	var count int64
	require.NoError(t, db.Model(&models.MenuItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestWithSessionReleasesOnError(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewSessionProvider(db)
	boom := errors.New("boom")

	err := sessions.WithSession(context.Background(), func(tx *gorm.DB) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, inUse(t, db))
}

func TestWithSessionReleasesOnPanic(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewSessionProvider(db)

	assert.Panics(t, func() {
		_ = sessions.WithSession(context.Background(), func(tx *gorm.DB) error {
			panic("handler blew up")
		})
	})
	assert.Equal(t, 0, inUse(t, db))
}

func TestWithSessionCancelledContext(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewSessionProvider(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := sessions.WithSession(ctx, func(tx *gorm.DB) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Equal(t, 0, inUse(t, db))
}

func TestStorageRejectsUnknownCategory(t *testing.T) {
	db := setupTestDB(t)

	err := db.Exec("INSERT INTO menu_items (name, category, spice, price_cents) VALUES (?, ?, ?, ?)",
		"Mystery Meat", "Vegan", "Mild", 500).Error
	assert.Error(t, err)

	err = db.Exec("INSERT INTO menu_items (name, category, spice, price_cents) VALUES (?, ?, ?, ?)",
		"Free Lunch", "Halal", "Mild", -1).Error
	assert.Error(t, err)

	err = db.Exec("INSERT INTO menu_items (name, category, spice, price_cents) VALUES (?, ?, ?, ?)",
		"Lamb Platter", "Non-Halal", "Medium", 1399).Error
	assert.NoError(t, err)
}

func TestAutoMigrateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable("menu_items"))
	assert.True(t, db.Migrator().HasIndex(&models.MenuItem{}, "Category"))
}
