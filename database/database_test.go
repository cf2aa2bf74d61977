package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wndmngr/farmregistry/config"
	"github.com/wndmngr/farmregistry/models"
)

func TestInitGormDB_UnsupportedDriver(t *testing.T) {
	_, err := InitGormDB(config.Config{DatabaseDriver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}

func TestMigrateAndSeedAreIdempotent(t *testing.T) {
	cfg := config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabasePath:   "file:migrate_seed_test?mode=memory&cache=shared",
		SQLLogLevel:    "silent",
	}
	db, err := InitGormDB(cfg, zap.NewNop())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, AutoMigrateModels(db))
		require.NoError(t, Seed(db))
	}

	var types []models.FarmType
	require.NoError(t, db.Order("id").Find(&types).Error)
	require.Len(t, types, 3)
	assert.Equal(t, "Wind", types[0].TypeTitle)
	assert.Equal(t, "Hybrid", types[2].TypeTitle)

	var personRoles, companyRoles int64
	require.NoError(t, db.Model(&models.PersonRole{}).Count(&personRoles).Error)
	require.NoError(t, db.Model(&models.CompanyRole{}).Count(&companyRoles).Error)
	assert.Equal(t, int64(len(DefaultPersonRoles)), personRoles)
	assert.Equal(t, int64(len(DefaultCompanyRoles)), companyRoles)
}

func TestStatementBuilderPlaceholders(t *testing.T) {
	cfg := config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabasePath:   "file:builder_test?mode=memory&cache=shared",
		SQLLogLevel:    "silent",
	}
	db, err := InitGormDB(cfg, zap.NewNop())
	require.NoError(t, err)

	query, args, err := StatementBuilder(db).Select("code").From("farms").Where("uuid = ?", "abc").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT code FROM farms WHERE uuid = ?", query)
	assert.Equal(t, []interface{}{"abc"}, args)
}
