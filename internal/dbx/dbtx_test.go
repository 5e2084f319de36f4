package dbx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

func countKeys(ctx context.Context, t *testing.T, q DBTX) int {
	t.Helper()
	var n int
	require.NoError(t, q.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&n))
	return n
}

func TestDBTX_DBAndTxAreInterchangeable(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)`)
	require.NoError(t, err)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, `INSERT INTO kv (k, v) VALUES ('a', '1')`)
	require.NoError(t, err)
	require.Equal(t, 1, countKeys(ctx, t, tx))
	require.NoError(t, tx.Rollback())

	require.Equal(t, 0, countKeys(ctx, t, db))
}
