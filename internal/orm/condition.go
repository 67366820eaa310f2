package orm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/koustreak/LiteRi/internal/database"
	"github.com/koustreak/LiteRi/internal/errs"
)

// validOps is the allowlist of comparison operators for WHERE clauses.
// Any operator not in this list is rejected to prevent SQL injection
// through the operator position (which cannot be parameterized).
var validOps = map[string]bool{
	"=":    true,
	"!=":   true,
	"<>":   true,
	"<":    true,
	">":    true,
	"<=":   true,
	">=":   true,
	"LIKE": true,
}

// Condition is one WHERE predicate. Column and Op are checked against
// the schema and the operator allowlist before any SQL is built; Value
// is always bound, never interpolated.
type Condition struct {
	Column string
	Op     string
	Value  any
}

// Eq is the common equality condition.
func Eq(column string, value any) Condition {
	return Condition{Column: column, Op: "=", Value: value}
}

// Where builds a condition with an explicit operator
// (=, !=, <>, <, >, <=, >=, LIKE).
func Where(column, op string, value any) Condition {
	return Condition{Column: column, Op: op, Value: value}
}

// buildWhere renders conditions as " WHERE a = ? AND b > ?" plus the
// bind arguments, resolved against the declared column types. An empty
// condition list renders as no WHERE clause at all.
func buildWhere(conds []Condition, types map[string]string) (string, []any, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}

	parts := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))

	for _, c := range conds {
		if !database.ValidIdent(c.Column) {
			return "", nil, errs.New(errs.ErrKindInvalidInput,
				fmt.Sprintf("invalid column name %q", c.Column))
		}
		declared, ok := types[c.Column]
		if !ok {
			return "", nil, errs.New(errs.ErrKindInvalidInput,
				fmt.Sprintf("unknown column %q", c.Column))
		}
		op := strings.ToUpper(strings.TrimSpace(c.Op))
		if !validOps[op] {
			return "", nil, errs.New(errs.ErrKindInvalidInput,
				fmt.Sprintf("unsupported WHERE operator: %q", c.Op))
		}
		b, err := database.ResolveBind(c.Value, declared)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, database.QuoteIdent(c.Column)+" "+op+" ?")
		args = append(args, b.Arg())
	}

	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

// equalityConds converts a column→value map into equality conditions
// in sorted column order, so the rendered SQL is deterministic.
func equalityConds(filter map[string]any) []Condition {
	if len(filter) == 0 {
		return nil
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]Condition, 0, len(keys))
	for _, k := range keys {
		conds = append(conds, Eq(k, filter[k]))
	}
	return conds
}
