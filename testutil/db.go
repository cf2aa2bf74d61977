// Package testutil provides a migrated, seeded in-memory database for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wndmngr/farmregistry/database"
	"github.com/wndmngr/farmregistry/models"
)

var dbSeq uint64

// NewDB returns an isolated in-memory SQLite database with every table migrated and seeded.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddUint64(&dbSeq, 1))

	db, err := database.Open(sqlite.Open(dsn), logger.Default.LogMode(logger.Silent))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

// CreateFarm inserts a wind farm with the given code and returns it.
func CreateFarm(t testing.TB, db *gorm.DB, code string) *models.Farm {
	t.Helper()
	farm := &models.Farm{
		UUID:       uuid.NewString(),
		Code:       code,
		SPV:        "SPV " + code,
		Project:    "Project " + code,
		FarmTypeID: models.FarmTypeWind,
	}
	if err := db.Create(farm).Error; err != nil {
		t.Fatalf("create farm %s: %v", code, err)
	}
	return farm
}

// CountRows counts rows of table matching column = value.
func CountRows(t testing.TB, db *gorm.DB, table, column, value string) int64 {
	t.Helper()
	var n int64
	if err := db.Table(table).Where(column+" = ?", value).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
