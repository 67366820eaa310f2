package database

import (
	"context"
	"fmt"

	"github.com/koustreak/LiteRi/internal/errs"
)

// Column describes a single column as SQLite reports it.
type Column struct {
	CID        int     // ordinal position from the engine
	Name       string
	Type       string  // declared type, verbatim ("INTEGER", "VARCHAR(255)", …)
	NotNull    bool
	Default    *string // nil when the column has no default
	PrimaryKey bool
}

// Introspector reads the live structure of the database. Results are
// never cached; every call reflects the schema as it is right now.
type Introspector struct {
	conn *Conn
}

// NewIntrospector returns an Introspector over conn.
func NewIntrospector(conn *Conn) *Introspector {
	return &Introspector{conn: conn}
}

// Columns returns the columns of table in physical order.
// A table with no columns does not exist in SQLite, so zero rows from
// the engine is reported as not found, never as an empty success.
func (i *Introspector) Columns(ctx context.Context, table string) ([]Column, error) {
	if !ValidIdent(table) {
		return nil, errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("invalid table name %q", table))
	}

	// PRAGMA arguments cannot be bound, hence the validated identifier.
	q := fmt.Sprintf("PRAGMA table_info(%s)", QuoteIdent(table))

	rows, err := i.conn.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var c Column
		var notNull, pk int
		if err := rows.Scan(&c.CID, &c.Name, &c.Type, &notNull, &c.Default, &pk); err != nil {
			return nil, MapError(err, "failed to scan column info")
		}
		c.NotNull = notNull != 0
		c.PrimaryKey = pk != 0
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err, "error iterating columns")
	}

	if len(cols) == 0 {
		return nil, errs.New(errs.ErrKindNotFound, fmt.Sprintf("table %q does not exist", table))
	}
	return cols, nil
}

// ColumnNames returns just the column names of table, in physical order.
func (i *Introspector) ColumnNames(ctx context.Context, table string) ([]string, error) {
	cols, err := i.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cols))
	for idx, c := range cols {
		names[idx] = c.Name
	}
	return names, nil
}

// TypeMap returns column name → declared type for table. Column order
// is carried by Columns; this map is for key lookups.
func (i *Introspector) TypeMap(ctx context.Context, table string) (map[string]string, error) {
	cols, err := i.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	types := make(map[string]string, len(cols))
	for _, c := range cols {
		types[c.Name] = c.Type
	}
	return types, nil
}

// Tables returns all user-defined table names, sorted.
func (i *Introspector) Tables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	rows, err := i.conn.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, MapError(err, "failed to scan table name")
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err, "error iterating tables")
	}
	return tables, nil
}

// TableExists reports whether a table with the given name exists.
func (i *Introspector) TableExists(ctx context.Context, table string) (bool, error) {
	const q = `
		SELECT 1
		FROM sqlite_master
		WHERE type = 'table'
		  AND name = ?`

	var exists int
	err := i.conn.QueryRow(ctx, q, table).Scan(&exists)
	if err != nil {
		mapped := MapError(err, "failed to check table existence")
		if errs.IsNotFound(mapped) {
			return false, nil
		}
		return false, mapped
	}
	return true, nil
}
