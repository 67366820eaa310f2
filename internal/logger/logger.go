package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level is the severity of a log entry. LiteRi uses the full syslog
// range so callers can grade failures from debug noise up to
// emergencies; levels below the configured threshold are dropped.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelNotice
	LevelWarning
	LevelError
	LevelCritical
	LevelAlert
	LevelEmergency
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelNotice:
		return "notice"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelCritical:
		return "critical"
	case LevelAlert:
		return "alert"
	case LevelEmergency:
		return "emergency"
	default:
		return "info"
	}
}

// ParseLevel maps a level name to its Level. Unknown names fall back
// to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "notice":
		return LevelNotice
	case "warning", "warn":
		return LevelWarning
	case "error":
		return LevelError
	case "critical":
		return LevelCritical
	case "alert":
		return LevelAlert
	case "emergency":
		return LevelEmergency
	default:
		return LevelInfo
	}
}

// zerologLevel maps the syslog range onto zerolog's narrower one.
// Notice collapses to info and everything above error stays error;
// the original severity is preserved in the "severity" field.
func (l Level) zerologLevel() zerolog.Level {
	switch {
	case l <= LevelDebug:
		return zerolog.DebugLevel
	case l <= LevelNotice:
		return zerolog.InfoLevel
	case l == LevelWarning:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Logger wraps zerolog with the features the data layer needs:
// severity threshold, named channels, and map-shaped structured calls.
type Logger struct {
	zlog  zerolog.Logger
	level Level
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, notice, warning, error, critical, alert, emergency
	Format     string // json, console
	TimeFormat string // rfc3339, unix, etc.
	Output     io.Writer
	Directory  string // when set (and Output is nil), rotate daily into this directory
}

// DefaultConfig returns production-ready defaults
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "json",
		TimeFormat: "rfc3339",
		Output:     os.Stdout,
	}
}

// New creates a new logger
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level.zerologLevel())

	// Configure time format
	zerolog.TimeFieldFormat = getTimeFormat(cfg.TimeFormat)

	out := cfg.Output
	if out == nil {
		if cfg.Directory != "" {
			out = NewDailyWriter(cfg.Directory, "literi")
		} else {
			out = os.Stdout
		}
	}

	// Create base logger
	var zlog zerolog.Logger
	if cfg.Format == "console" {
		// Human-readable console output for development
		output := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    false,
		}
		zlog = zerolog.New(output).Level(level.zerologLevel()).With().Timestamp().Logger()
	} else {
		// Structured JSON for production
		zlog = zerolog.New(out).Level(level.zerologLevel()).With().Timestamp().Logger()
	}

	return &Logger{zlog: zlog, level: level}
}

// WithContext adds logger to context
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.zlog.WithContext(ctx)
}

// FromContext retrieves logger from context
func FromContext(ctx context.Context) *Logger {
	zlog := zerolog.Ctx(ctx)
	if zlog.GetLevel() == zerolog.Disabled {
		// Return default logger if not in context
		return New(nil)
	}
	return &Logger{zlog: *zlog, level: LevelDebug}
}

// Channel returns a child logger whose entries carry a channel name,
// so subsystems (orm, database, http, …) can be told apart in one
// stream or routed to separate sinks. An empty name is the default
// channel and returns the receiver unchanged.
func (l *Logger) Channel(name string) *Logger {
	if name == "" {
		return l
	}
	return &Logger{
		zlog:  l.zlog.With().Str("channel", name).Logger(),
		level: l.level,
	}
}

// With creates a child logger with additional fields
func (l *Logger) With() *Context {
	return &Context{ctx: l.zlog.With(), level: l.level}
}

// Context wraps zerolog.Context for field chaining
type Context struct {
	ctx   zerolog.Context
	level Level
}

func (c *Context) Str(key, val string) *Context {
	c.ctx = c.ctx.Str(key, val)
	return c
}

func (c *Context) Int(key string, val int) *Context {
	c.ctx = c.ctx.Int(key, val)
	return c
}

func (c *Context) Err(err error) *Context {
	c.ctx = c.ctx.Err(err)
	return c
}

func (c *Context) Any(key string, val interface{}) *Context {
	c.ctx = c.ctx.Interface(key, val)
	return c
}

func (c *Context) Logger() *Logger {
	return &Logger{zlog: c.ctx.Logger(), level: c.level}
}

// Log emits one entry at the given severity with a JSON-serializable
// context map. This is the reporting contract the data layer calls:
// severity, message, fields. Entries below the configured threshold
// are dropped; severities zerolog cannot represent natively keep their
// real name in the "severity" field.
func (l *Logger) Log(level Level, msg string, fields map[string]interface{}) {
	if level < l.level {
		return
	}
	event := l.zlog.WithLevel(level.zerologLevel()).Str("severity", level.String())
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// Logging methods
func (l *Logger) Debug(msg string) {
	l.Log(LevelDebug, msg, nil)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Log(LevelDebug, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Info(msg string) {
	l.Log(LevelInfo, msg, nil)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Log(LevelInfo, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Notice(msg string) {
	l.Log(LevelNotice, msg, nil)
}

func (l *Logger) Warn(msg string) {
	l.Log(LevelWarning, msg, nil)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Log(LevelWarning, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Error(msg string) {
	l.Log(LevelError, msg, nil)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Log(LevelError, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Critical(msg string) {
	l.Log(LevelCritical, msg, nil)
}

func (l *Logger) Alert(msg string) {
	l.Log(LevelAlert, msg, nil)
}

// Emergency is the highest severity. It never terminates the process;
// permanent failures surface as error returns, not exits.
func (l *Logger) Emergency(msg string) {
	l.Log(LevelEmergency, msg, nil)
}

// Structured logging with fields
func (l *Logger) InfoWith(msg string, fields map[string]interface{}) {
	l.Log(LevelInfo, msg, fields)
}

func (l *Logger) ErrorWith(msg string, err error, fields map[string]interface{}) {
	if l.level > LevelError {
		return
	}
	event := l.zlog.Error().Str("severity", LevelError.String()).Err(err)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// HTTP middleware helper
func (l *Logger) HTTPEvent() *zerolog.Event {
	return l.zlog.Info()
}

func getTimeFormat(format string) string {
	switch format {
	case "unix":
		return zerolog.TimeFormatUnix
	case "unixms":
		return zerolog.TimeFormatUnixMs
	case "unixmicro":
		return zerolog.TimeFormatUnixMicro
	default:
		return time.RFC3339
	}
}

// Global logger instance (for convenience)
var global *Logger

func init() {
	global = New(nil)
}

// Global convenience functions
func Debug(msg string) {
	global.Debug(msg)
}

func Info(msg string) {
	global.Info(msg)
}

func Warn(msg string) {
	global.Warn(msg)
}

func Error(msg string) {
	global.Error(msg)
}

func SetGlobal(l *Logger) {
	global = l
}
