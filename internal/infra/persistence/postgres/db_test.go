package postgres

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB returns a migrated in-memory database. A single connection keeps
// every statement on the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(sqlite.Open("file::memory:"), nil, nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(context.Background(), db))

	return db
}

func newTestRegistry(t *testing.T, db *gorm.DB) *datasetRegistry {
	t.Helper()

	reg, err := NewDatasetRegistry(RegistryParams{DB: db})
	require.NoError(t, err)

	return reg.(*datasetRegistry)
}
