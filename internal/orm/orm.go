// Package orm is the generic table-level data mapper. It works on any
// table the live schema knows about and owns the failure policy of the
// data layer: every engine error is caught here, logged once with its
// operation and table, and returned to the caller as a typed
// *errs.Error. No raw engine error and no panic crosses this boundary.
package orm

import (
	"context"
	"fmt"

	"github.com/koustreak/LiteRi/internal/database"
	"github.com/koustreak/LiteRi/internal/errs"
	"github.com/koustreak/LiteRi/internal/logger"
)

// Record is one table row as the engine returned it: column name to
// Go-native value (int64, float64, string, []byte, or nil).
type Record = map[string]any

// ORM executes generic CRUD against one connection. It is stateless
// apart from its collaborators and safe for concurrent use.
type ORM struct {
	conn  *database.Conn
	intro *database.Introspector
	log   *logger.Logger
}

// New returns an ORM over conn. Failures are reported through log on
// the "orm" channel; log must not be nil.
func New(conn *database.Conn, log *logger.Logger) *ORM {
	return &ORM{
		conn:  conn,
		intro: database.NewIntrospector(conn),
		log:   log.Channel("orm"),
	}
}

// Conn returns the underlying connection.
func (o *ORM) Conn() *database.Conn {
	return o.conn
}

// Introspector returns the schema introspector bound to this ORM's
// connection.
func (o *ORM) Introspector() *database.Introspector {
	return o.intro
}

// fail records one engine failure: which operation, which table, and
// the native error text, on the orm log channel.
func (o *ORM) fail(operation, table string, err error) {
	fields := map[string]any{"operation": operation}
	if table != "" {
		fields["table"] = table
	}
	o.log.ErrorWith("database operation failed", err, fields)
}

// checkTable rejects table names that cannot safely appear in an
// identifier position.
func checkTable(table string) error {
	if !database.ValidIdent(table) {
		return errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("invalid table name %q", table))
	}
	return nil
}

// TableExists reports whether table exists. It never returns an error:
// any failure, including an unreachable engine, is logged and reported
// as false.
func (o *ORM) TableExists(ctx context.Context, table string) bool {
	if !database.ValidIdent(table) {
		o.fail("tableExists", table, errs.New(errs.ErrKindInvalidInput, "invalid table name"))
		return false
	}
	exists, err := o.intro.TableExists(ctx, table)
	if err != nil {
		o.fail("tableExists", table, err)
		return false
	}
	return exists
}

// CreateTable executes a CREATE TABLE statement followed by zero or
// more CREATE INDEX statements, in order. The first failure aborts the
// remainder.
func (o *ORM) CreateTable(ctx context.Context, ddl string, indexes ...string) error {
	if _, err := o.conn.Exec(ctx, ddl); err != nil {
		o.fail("createTable", "", err)
		return err
	}
	for _, idx := range indexes {
		if _, err := o.conn.Exec(ctx, idx); err != nil {
			o.fail("createTable", "", err)
			return err
		}
	}
	return nil
}

// DropTable removes table if it exists. Dropping a missing table is
// not an error.
func (o *ORM) DropTable(ctx context.Context, table string) error {
	if err := checkTable(table); err != nil {
		return err
	}
	q := "DROP TABLE IF EXISTS " + database.QuoteIdent(table)
	if _, err := o.conn.Exec(ctx, q); err != nil {
		o.fail("dropTable", table, err)
		return err
	}
	return nil
}
