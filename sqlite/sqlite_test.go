package sqlite_test

import (
	"context"
	"testing"

	"github.com/pinnacledb/qtd/sqlite"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		var n int
		err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM documents").Scan(&n)
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		require.Error(t, db.Open())
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(t.TempDir() + "/qtd.db")
		require.NoError(t, db.Open())
		defer db.Close()

		var journalMode string
		err := db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})

	t.Run("reopening keeps existing rows", func(t *testing.T) {
		t.Parallel()

		path := t.TempDir() + "/qtd.db"
		ctx := context.Background()

		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		_, err := db.ExecContext(ctx, `INSERT INTO documents (id, knowledge_base, source_url, content, content_hash, created_at)
			VALUES ('a', 'langchain', 'x.md', 'body', 'h', '2024-01-01T00:00:00Z')`)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		db = sqlite.NewDB(path)
		require.NoError(t, db.Open())
		defer db.Close()

		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n))
		require.Equal(t, 1, n)
	})
}
