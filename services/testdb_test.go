package services

import (
	"fmt"
	"testing"

	"guesthouse-server/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB swaps storage.DB for an isolated in-memory database. The DSN
// is derived from the test name so parallel packages don't share state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	storage.DB = db
	storage.Migrate(db)
	return db
}
