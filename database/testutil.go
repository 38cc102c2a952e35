package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// OpenTest returns a migrated in-memory sqlite database closed at test end.
func OpenTest(t testing.TB) *DB {
	t.Helper()
	db, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}
