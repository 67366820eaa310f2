package database

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/LiteRi/internal/errs"
)

func TestResolveBind(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		declared string
		wantKind BindKind
		wantArg  any
	}{
		{"nil", nil, "TEXT", BindNull, nil},
		{"bool true", true, "BOOLEAN", BindInt, int64(1)},
		{"bool false", false, "BOOLEAN", BindInt, int64(0)},
		{"int", 42, "INTEGER", BindInt, int64(42)},
		{"int64", int64(-7), "INTEGER", BindInt, int64(-7)},
		{"uint32", uint32(7), "INT", BindInt, int64(7)},
		{"uint64 in range", uint64(7), "INT", BindInt, int64(7)},
		{"float64", 3.5, "REAL", BindReal, 3.5},
		{"float32", float32(1.5), "REAL", BindReal, float64(1.5)},
		{"blob", []byte{0x1, 0x2}, "BLOB", BindBlob, []byte{0x1, 0x2}},
		{"string stays text", "hello", "TEXT", BindText, "hello"},
		{"numeric string to text column", "123", "TEXT", BindText, "123"},
		{"numeric string to int column", "123", "INTEGER", BindInt, int64(123)},
		{"numeric string to bigint column", "123", "BIGINT", BindInt, int64(123)},
		{"declared type is case-insensitive", "123", "integer", BindInt, int64(123)},
		{"non-numeric string to int column", "abc", "INTEGER", BindText, "abc"},
		{"float string to int column", "1.5", "INTEGER", BindText, "1.5"},
		{"int value ignores declared text", 9, "TEXT", BindInt, int64(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ResolveBind(tt.value, tt.declared)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, b.Kind)
			assert.Equal(t, tt.wantArg, b.Arg())
		})
	}
}

func TestResolveBind_Time(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	b, err := ResolveBind(ts, "DATETIME")
	require.NoError(t, err)
	assert.Equal(t, BindText, b.Kind)
	assert.Equal(t, "2025-06-01T12:30:00Z", b.Arg())
}

func TestResolveBind_UnsignedOverflow(t *testing.T) {
	// The largest value the signed 64-bit class holds still binds.
	b, err := ResolveBind(uint64(math.MaxInt64), "INTEGER")
	require.NoError(t, err)
	assert.Equal(t, BindInt, b.Kind)
	assert.Equal(t, int64(math.MaxInt64), b.Arg())

	// One past it would flip sign in storage and is rejected.
	_, err = ResolveBind(uint64(math.MaxInt64)+1, "INTEGER")
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))

	_, err = ResolveBind(uint64(math.MaxUint64), "TEXT")
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestBindKind_String(t *testing.T) {
	assert.Equal(t, "null", BindNull.String())
	assert.Equal(t, "integer", BindInt.String())
	assert.Equal(t, "real", BindReal.String())
	assert.Equal(t, "text", BindText.String())
	assert.Equal(t, "blob", BindBlob.String())
}

func TestValidIdent(t *testing.T) {
	assert.True(t, ValidIdent("users"))
	assert.True(t, ValidIdent("_tmp_2"))
	assert.True(t, ValidIdent("CamelCase"))
	assert.False(t, ValidIdent(""))
	assert.False(t, ValidIdent("2fast"))
	assert.False(t, ValidIdent("users; DROP TABLE users"))
	assert.False(t, ValidIdent(`us"ers`))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"users"`, QuoteIdent("users"))
	assert.Equal(t, `"we""ird"`, QuoteIdent(`we"ird`))
}
