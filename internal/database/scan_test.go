package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/LiteRi/internal/errs"
)

func TestScanRows(t *testing.T) {
	conn := openMemory(t)
	ctx := context.Background()

	_, err := conn.Exec(ctx, `
		CREATE TABLE samples (
			id    INTEGER PRIMARY KEY,
			label TEXT,
			score REAL,
			raw   BLOB
		)`)
	require.NoError(t, err)

	_, err = conn.Exec(ctx,
		"INSERT INTO samples (id, label, score, raw) VALUES (1, 'a', 0.5, x'01ff'), (2, NULL, NULL, NULL)")
	require.NoError(t, err)

	rows, err := conn.Query(ctx, "SELECT * FROM samples ORDER BY id")
	require.NoError(t, err)

	records, err := ScanRows(rows)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, int64(1), records[0]["id"])
	assert.Equal(t, "a", records[0]["label"])
	assert.Equal(t, 0.5, records[0]["score"])
	assert.Equal(t, []byte{0x01, 0xff}, records[0]["raw"])

	assert.Equal(t, int64(2), records[1]["id"])
	assert.Nil(t, records[1]["label"])
	assert.Nil(t, records[1]["score"])
	assert.Nil(t, records[1]["raw"])
}

func TestScanRows_Empty(t *testing.T) {
	conn := openMemory(t)
	ctx := context.Background()

	_, err := conn.Exec(ctx, "CREATE TABLE empty_t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	rows, err := conn.Query(ctx, "SELECT * FROM empty_t")
	require.NoError(t, err)

	records, err := ScanRows(rows)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestScanRow(t *testing.T) {
	conn := openMemory(t)
	ctx := context.Background()

	_, err := conn.Exec(ctx, "CREATE TABLE kv (k TEXT, v TEXT)")
	require.NoError(t, err)
	_, err = conn.Exec(ctx, "INSERT INTO kv VALUES ('greeting', 'hi')")
	require.NoError(t, err)

	row := conn.QueryRow(ctx, "SELECT k, v FROM kv WHERE k = ?", "greeting")
	record, err := ScanRow(row, []string{"k", "v"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "greeting", "v": "hi"}, record)
}

func TestScanRow_NotFound(t *testing.T) {
	conn := openMemory(t)
	ctx := context.Background()

	_, err := conn.Exec(ctx, "CREATE TABLE kv (k TEXT, v TEXT)")
	require.NoError(t, err)

	row := conn.QueryRow(ctx, "SELECT k, v FROM kv WHERE k = ?", "missing")
	_, err = ScanRow(row, []string{"k", "v"})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}
