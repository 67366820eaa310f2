package database

import (
	"strconv"
	"strings"
	"time"
)

// Config holds all settings needed to open the database file.
type Config struct {
	// Path is the database file location. Use ":memory:" for an
	// in-memory database. A path without an extension gets the ".db"
	// suffix appended on open.
	Path string

	// WALMode enables write-ahead logging for file databases.
	// In-memory databases always use the MEMORY journal.
	WALMode bool

	// ForeignKeys enables foreign key enforcement.
	ForeignKeys bool

	// BusyTimeout is how long the engine waits on a locked database
	// before giving up.
	BusyTimeout time.Duration

	// ConnectTimeout is the time limit for the initial ping.
	ConnectTimeout time.Duration
}

// DefaultConfig returns production-ready settings for the given path.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:           path,
		WALMode:        true,
		ForeignKeys:    true,
		BusyTimeout:    5 * time.Second,
		ConnectTimeout: 5 * time.Second,
	}
}

// pragma is one SQLite pragma applied through the DSN, so it takes
// effect on every connection the pool hands out.
type pragma struct {
	name  string
	value string
}

// dsn builds the modernc.org/sqlite DSN for path:
// file:path?_pragma=name(value)&_pragma=name2(value2)
func (cfg *Config) dsn(path string) string {
	onOff := func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	}

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	pragmas := []pragma{
		{name: "foreign_keys", value: onOff(cfg.ForeignKeys)},
		{name: "busy_timeout", value: strconv.FormatInt(busy.Milliseconds(), 10)},
	}
	if isMemory(path) {
		pragmas = append(pragmas,
			pragma{name: "journal_mode", value: "MEMORY"},
			pragma{name: "synchronous", value: "OFF"},
		)
	} else if cfg.WALMode {
		pragmas = append(pragmas,
			pragma{name: "journal_mode", value: "WAL"},
			pragma{name: "synchronous", value: "NORMAL"},
		)
	}

	var sb strings.Builder
	if isMemory(path) {
		sb.WriteString("file::memory:?cache=shared")
	} else {
		sb.WriteString("file:")
		sb.WriteString(path)
	}
	for i, p := range pragmas {
		if isMemory(path) || i > 0 {
			sb.WriteString("&")
		} else {
			sb.WriteString("?")
		}
		sb.WriteString("_pragma=")
		sb.WriteString(p.name)
		sb.WriteString("(")
		sb.WriteString(p.value)
		sb.WriteString(")")
	}
	return sb.String()
}

// isMemory reports whether path names an in-memory database.
func isMemory(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}
