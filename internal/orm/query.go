package orm

import (
	"context"
	"fmt"

	"github.com/koustreak/LiteRi/internal/database"
	"github.com/koustreak/LiteRi/internal/errs"
)

// Page is one slice of a table plus the numbers a caller needs to
// render pagination controls. Total counts the whole table, not the
// slice.
type Page struct {
	Data    []Record `json:"data"`
	Total   int64    `json:"total"`
	Page    int      `json:"page"`
	PerPage int      `json:"per_page"`
}

// All returns every row of table in engine order.
func (o *ORM) All(ctx context.Context, table string) ([]Record, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	rows, err := o.conn.Query(ctx, "SELECT * FROM "+database.QuoteIdent(table))
	if err != nil {
		o.fail("all", table, err)
		return nil, err
	}

	records, err := database.ScanRows(rows)
	if err != nil {
		o.fail("all", table, err)
		return nil, err
	}
	return records, nil
}

// Fetch returns the single row whose id column equals id.
// A missing row is a not-found error, not an engine failure.
func (o *ORM) Fetch(ctx context.Context, table string, id int64) (Record, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	q := "SELECT * FROM " + database.QuoteIdent(table) + ` WHERE "id" = ? LIMIT 1`
	rows, err := o.conn.Query(ctx, q, id)
	if err != nil {
		o.fail("fetch", table, err)
		return nil, err
	}

	records, err := database.ScanRows(rows)
	if err != nil {
		o.fail("fetch", table, err)
		return nil, err
	}
	if len(records) == 0 {
		return nil, errs.New(errs.ErrKindNotFound,
			fmt.Sprintf("no row with id %d in table %q", id, table))
	}
	return records[0], nil
}

// Find returns the first row matching all conditions (combined with
// AND). Condition values are bound by their resolved storage class,
// falling back to the declared column type for numeric strings on
// integer columns.
func (o *ORM) Find(ctx context.Context, table string, conds []Condition) (Record, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	types, err := o.intro.TypeMap(ctx, table)
	if err != nil {
		o.fail("find", table, err)
		return nil, err
	}

	where, args, err := buildWhere(conds, types)
	if err != nil {
		return nil, err
	}

	q := "SELECT * FROM " + database.QuoteIdent(table) + where + " LIMIT 1"
	rows, err := o.conn.Query(ctx, q, args...)
	if err != nil {
		o.fail("find", table, err)
		return nil, err
	}

	records, err := database.ScanRows(rows)
	if err != nil {
		o.fail("find", table, err)
		return nil, err
	}
	if len(records) == 0 {
		return nil, errs.New(errs.ErrKindNotFound,
			fmt.Sprintf("no matching row in table %q", table))
	}
	return records[0], nil
}

// Count returns how many rows match the equality filter; a nil or
// empty filter counts the whole table.
func (o *ORM) Count(ctx context.Context, table string, filter map[string]any) (int64, error) {
	return o.countWhere(ctx, "count", table, filter)
}

// countWhere is the shared COUNT used by Count and Paginate; op names
// the caller in failure logs.
func (o *ORM) countWhere(ctx context.Context, op, table string, filter map[string]any) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}

	var (
		where string
		args  []any
	)
	if len(filter) > 0 {
		types, err := o.intro.TypeMap(ctx, table)
		if err != nil {
			o.fail(op, table, err)
			return 0, err
		}
		where, args, err = buildWhere(equalityConds(filter), types)
		if err != nil {
			return 0, err
		}
	}

	q := `SELECT COUNT("id") FROM ` + database.QuoteIdent(table) + where
	var n int64
	if err := o.conn.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		mapped := database.MapError(err, "count failed")
		o.fail(op, table, mapped)
		return 0, mapped
	}
	return n, nil
}

// Paginate returns one page of table rows in engine order, sliced with
// LIMIT/OFFSET, together with the unfiltered total. Pages start at 1.
func (o *ORM) Paginate(ctx context.Context, table string, page, perPage int) (*Page, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if page < 1 || perPage < 1 {
		return nil, errs.New(errs.ErrKindInvalidInput,
			fmt.Sprintf("page and perPage must be positive (got page=%d perPage=%d)", page, perPage))
	}

	total, err := o.countWhere(ctx, "paginate", table, nil)
	if err != nil {
		return nil, err
	}

	q := "SELECT * FROM " + database.QuoteIdent(table) + " LIMIT ? OFFSET ?"
	rows, err := o.conn.Query(ctx, q, perPage, (page-1)*perPage)
	if err != nil {
		o.fail("paginate", table, err)
		return nil, err
	}

	records, err := database.ScanRows(rows)
	if err != nil {
		o.fail("paginate", table, err)
		return nil, err
	}

	return &Page{
		Data:    records,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}
