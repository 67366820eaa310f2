package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/koustreak/LiteRi/internal/errs"
)

// MapError translates native engine errors into *errs.Error.
//
// modernc.org/sqlite surfaces engine failures as formatted strings
// rather than typed codes, so classification matches on the stable
// SQLite message fragments.
func MapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	return errs.Wrap(classify(err), msg, err)
}

// classify maps a native SQLite error message to an ErrKind.
func classify(err error) errs.ErrKind {
	text := err.Error()
	switch {
	case containsAny(text, "no such table", "no such column"):
		return errs.ErrKindNotFound
	case containsAny(text, "unable to open database", "not a database", "database is closed", "file is not a database"):
		return errs.ErrKindConnectionFailed
	case strings.Contains(text, "interrupted"):
		return errs.ErrKindTimeout
	default:
		return errs.ErrKindStorageFailed
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
