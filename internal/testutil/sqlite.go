// Package testutil opens throwaway stores for tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/gearguard-backend/internal/database"
	"github.com/javajoker/gearguard-backend/internal/store/gormstore"
)

// NewSQLiteStore returns a migrated store on a private in-memory SQLite
// database that is closed when the test ends.
func NewSQLiteStore(t testing.TB) *gormstore.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrations(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return gormstore.New(db)
}
