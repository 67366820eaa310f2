package database

import (
	"regexp"
	"strings"
)

// identRe is the allowlist for table and column names. DDL targets and
// identifier positions cannot be parameterized, so anything reaching
// one must first pass this pattern.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdent reports whether name is safe to use as a SQL identifier.
func ValidIdent(name string) bool {
	return identRe.MatchString(name)
}

// QuoteIdent wraps a SQL identifier in double-quotes (ANSI standard).
// This safely handles reserved words and mixed-case names.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
