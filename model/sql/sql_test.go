package sql

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// testDB opens a fresh in-memory SQLite database with the schema applied.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func TestNewNullString(t *testing.T) {
	require.False(t, NewNullString("").Valid)

	ns := NewNullString("hello")
	require.True(t, ns.Valid)
	require.Equal(t, "hello", ns.String)
}
