package orm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/koustreak/LiteRi/internal/database"
	"github.com/koustreak/LiteRi/internal/errs"
)

// writeColumns validates a payload for a write: non-empty, every
// column a legal identifier that exists in the table schema. Returns
// the column names sorted, so generated SQL is deterministic.
func writeColumns(payload Record, types map[string]string) ([]string, error) {
	if len(payload) == 0 {
		return nil, errs.New(errs.ErrKindInvalidInput, "payload must not be empty")
	}

	cols := make([]string, 0, len(payload))
	for c := range payload {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	for _, c := range cols {
		if !database.ValidIdent(c) {
			return nil, errs.New(errs.ErrKindInvalidInput,
				fmt.Sprintf("invalid column name %q", c))
		}
		if _, ok := types[c]; !ok {
			return nil, errs.New(errs.ErrKindInvalidInput,
				fmt.Sprintf("unknown column %q", c))
		}
	}
	return cols, nil
}

// bindArgs resolves payload values into driver arguments in column
// order.
func bindArgs(payload Record, cols []string, types map[string]string) ([]any, error) {
	args := make([]any, len(cols))
	for i, c := range cols {
		b, err := database.ResolveBind(payload[c], types[c])
		if err != nil {
			return nil, err
		}
		args[i] = b.Arg()
	}
	return args, nil
}

// matchColumns checks that payload i carries exactly the bulk
// template's column set. A nil value is a present column; a missing
// key is not.
func matchColumns(i int, payload Record, cols []string) error {
	if len(payload) != len(cols) {
		return errs.New(errs.ErrKindInvalidInput,
			fmt.Sprintf("payload %d: column set differs from the first payload", i))
	}
	for _, c := range cols {
		if _, ok := payload[c]; !ok {
			return errs.New(errs.ErrKindInvalidInput,
				fmt.Sprintf("payload %d is missing column %q", i, c))
		}
	}
	return nil
}

func insertSQL(table string, cols []string) string {
	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = database.QuoteIdent(c)
		marks[i] = "?"
	}
	return "INSERT INTO " + database.QuoteIdent(table) +
		" (" + strings.Join(quoted, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
}

func updateSQL(table string, cols []string) string {
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = database.QuoteIdent(c) + " = ?"
	}
	return "UPDATE " + database.QuoteIdent(table) + " SET " + strings.Join(sets, ", ")
}

// idList renders `"id" IN (?, ?, …)` and the matching args.
func idList(ids []int64) (string, []any) {
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		args[i] = id
	}
	return `"id" IN (` + strings.Join(marks, ", ") + `)`, args
}

// Save inserts payload as one new row and returns the generated id.
// The id is trusted only when the engine reports an affected row.
func (o *ORM) Save(ctx context.Context, table string, payload Record) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}

	types, err := o.intro.TypeMap(ctx, table)
	if err != nil {
		o.fail("save", table, err)
		return 0, err
	}

	cols, err := writeColumns(payload, types)
	if err != nil {
		return 0, err
	}

	args, err := bindArgs(payload, cols, types)
	if err != nil {
		return 0, err
	}

	res, err := o.conn.Exec(ctx, insertSQL(table, cols), args...)
	if err != nil {
		o.fail("save", table, err)
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		mapped := database.MapError(err, "reading rows affected")
		o.fail("save", table, mapped)
		return 0, mapped
	}
	if affected == 0 {
		insErr := errs.New(errs.ErrKindStorageFailed, "insert affected no rows")
		o.fail("save", table, insErr)
		return 0, insErr
	}

	id, err := res.LastInsertId()
	if err != nil {
		mapped := database.MapError(err, "reading last insert id")
		o.fail("save", table, mapped)
		return 0, mapped
	}
	return id, nil
}

// SaveBulk inserts all payloads in one transaction through one
// prepared statement. The first payload fixes the column set; every
// other payload must carry exactly those columns. Any failure rolls
// the whole batch back, so the table gains either len(payloads) rows
// or none.
func (o *ORM) SaveBulk(ctx context.Context, table string, payloads []Record) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if len(payloads) == 0 {
		return nil
	}

	types, err := o.intro.TypeMap(ctx, table)
	if err != nil {
		o.fail("saveBulk", table, err)
		return err
	}

	cols, err := writeColumns(payloads[0], types)
	if err != nil {
		return err
	}

	tx, err := o.conn.Begin(ctx)
	if err != nil {
		o.fail("saveBulk", table, err)
		return err
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(table, cols))
	if err != nil {
		_ = tx.Rollback()
		mapped := database.MapError(err, "prepare failed")
		o.fail("saveBulk", table, mapped)
		return mapped
	}
	defer stmt.Close()

	for i, p := range payloads {
		if err := matchColumns(i, p, cols); err != nil {
			_ = tx.Rollback()
			return err
		}
		args, err := bindArgs(p, cols, types)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			mapped := database.MapError(err, fmt.Sprintf("bulk insert failed at payload %d", i))
			o.fail("saveBulk", table, mapped)
			return mapped
		}
	}

	if err := tx.Commit(); err != nil {
		mapped := database.MapError(err, "commit failed")
		o.fail("saveBulk", table, mapped)
		return mapped
	}
	return nil
}

// Update applies payload to the row with the given id. Updating a row
// that does not exist is a not-found result, distinct from an engine
// failure.
func (o *ORM) Update(ctx context.Context, table string, id int64, payload Record) error {
	if err := checkTable(table); err != nil {
		return err
	}

	types, err := o.intro.TypeMap(ctx, table)
	if err != nil {
		o.fail("update", table, err)
		return err
	}

	cols, err := writeColumns(payload, types)
	if err != nil {
		return err
	}

	args, err := bindArgs(payload, cols, types)
	if err != nil {
		return err
	}

	q := updateSQL(table, cols) + ` WHERE "id" = ?`
	args = append(args, id)

	res, err := o.conn.Exec(ctx, q, args...)
	if err != nil {
		o.fail("update", table, err)
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		mapped := database.MapError(err, "reading rows affected")
		o.fail("update", table, mapped)
		return mapped
	}
	if affected == 0 {
		return errs.New(errs.ErrKindNotFound,
			fmt.Sprintf("no row with id %d in table %q", id, table))
	}
	return nil
}

// UpdateBulk applies one payload to every id in ids, transactionally.
// An empty id list is a no-op. Ids that match no row are skipped by
// the engine; the batch still succeeds.
func (o *ORM) UpdateBulk(ctx context.Context, table string, ids []int64, payload Record) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	types, err := o.intro.TypeMap(ctx, table)
	if err != nil {
		o.fail("updateBulk", table, err)
		return err
	}

	cols, err := writeColumns(payload, types)
	if err != nil {
		return err
	}

	args, err := bindArgs(payload, cols, types)
	if err != nil {
		return err
	}

	where, idArgs := idList(ids)
	q := updateSQL(table, cols) + " WHERE " + where
	args = append(args, idArgs...)

	tx, err := o.conn.Begin(ctx)
	if err != nil {
		o.fail("updateBulk", table, err)
		return err
	}

	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		_ = tx.Rollback()
		mapped := database.MapError(err, "bulk update failed")
		o.fail("updateBulk", table, mapped)
		return mapped
	}

	if err := tx.Commit(); err != nil {
		mapped := database.MapError(err, "commit failed")
		o.fail("updateBulk", table, mapped)
		return mapped
	}
	return nil
}

// Delete removes the row with the given id. Deleting an id that is
// already gone reports not found; repeating a delete never escalates
// to an engine failure.
func (o *ORM) Delete(ctx context.Context, table string, id int64) error {
	if err := checkTable(table); err != nil {
		return err
	}

	q := "DELETE FROM " + database.QuoteIdent(table) + ` WHERE "id" = ?`
	res, err := o.conn.Exec(ctx, q, id)
	if err != nil {
		o.fail("delete", table, err)
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		mapped := database.MapError(err, "reading rows affected")
		o.fail("delete", table, mapped)
		return mapped
	}
	if affected == 0 {
		return errs.New(errs.ErrKindNotFound,
			fmt.Sprintf("no row with id %d in table %q", id, table))
	}
	return nil
}

// DeleteBulk removes every id in ids, transactionally. An empty id
// list is a no-op.
func (o *ORM) DeleteBulk(ctx context.Context, table string, ids []int64) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	where, idArgs := idList(ids)
	q := "DELETE FROM " + database.QuoteIdent(table) + " WHERE " + where

	tx, err := o.conn.Begin(ctx)
	if err != nil {
		o.fail("deleteBulk", table, err)
		return err
	}

	if _, err := tx.ExecContext(ctx, q, idArgs...); err != nil {
		_ = tx.Rollback()
		mapped := database.MapError(err, "bulk delete failed")
		o.fail("deleteBulk", table, mapped)
		return mapped
	}

	if err := tx.Commit(); err != nil {
		mapped := database.MapError(err, "commit failed")
		o.fail("deleteBulk", table, mapped)
		return mapped
	}
	return nil
}
