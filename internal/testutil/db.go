// Package testutil содержит вспомогательные функции для тестов.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"route-optimizer-go/internal/config"
	"route-optimizer-go/internal/database"
)

// NewTestDB открывает отдельную SQLite базу в памяти с примененными миграциями
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Connect(config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: dsn})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
