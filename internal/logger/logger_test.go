package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{
			name:   "default config",
			config: nil,
		},
		{
			name: "custom json config",
			config: &Config{
				Level:  "debug",
				Format: "json",
			},
		},
		{
			name: "console config",
			config: &Config{
				Level:  "info",
				Format: "console",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.config)
			assert.NotNil(t, logger)
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  "info",
		Format: "json",
		Output: buf,
	})

	logger.Info("test message")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "info", logEntry["level"])
	assert.Equal(t, "test message", logEntry["message"])
	assert.NotEmpty(t, logEntry["time"])
}

func TestLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  "info",
		Format: "json",
		Output: buf,
	})

	childLogger := logger.With().
		Str("service", "literi").
		Int("port", 8080).
		Logger()

	childLogger.Info("server started")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "literi", logEntry["service"])
	assert.Equal(t, float64(8080), logEntry["port"])
	assert.Equal(t, "server started", logEntry["message"])
}

func TestLogger_ErrorWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  "error",
		Format: "json",
		Output: buf,
	})

	testErr := errors.New("disk I/O error")
	logger.ErrorWith("insert failed", testErr, map[string]interface{}{
		"operation": "save",
		"table":     "users",
	})

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "error", logEntry["level"])
	assert.Equal(t, "insert failed", logEntry["message"])
	assert.Equal(t, "disk I/O error", logEntry["error"])
	assert.Equal(t, "save", logEntry["operation"])
	assert.Equal(t, "users", logEntry["table"])
}

func TestLogger_Context(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  "info",
		Format: "json",
		Output: buf,
	})

	ctx := logger.WithContext(context.Background())
	retrievedLogger := FromContext(ctx)

	retrievedLogger.Info("from context")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "from context", logEntry["message"])
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFunc  func(*Logger)
		expected bool // should log or not
	}{
		{
			name:  "debug level logs debug",
			level: "debug",
			logFunc: func(l *Logger) {
				l.Debug("debug message")
			},
			expected: true,
		},
		{
			name:  "info level skips debug",
			level: "info",
			logFunc: func(l *Logger) {
				l.Debug("debug message")
			},
			expected: false,
		},
		{
			name:  "notice level skips info",
			level: "notice",
			logFunc: func(l *Logger) {
				l.Info("info message")
			},
			expected: false,
		},
		{
			name:  "error level logs critical",
			level: "error",
			logFunc: func(l *Logger) {
				l.Critical("critical message")
			},
			expected: true,
		},
		{
			name:  "critical level skips error",
			level: "critical",
			logFunc: func(l *Logger) {
				l.Error("error message")
			},
			expected: false,
		},
		{
			name:  "error level skips info",
			level: "error",
			logFunc: func(l *Logger) {
				l.Info("info message")
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(&Config{
				Level:  tt.level,
				Format: "json",
				Output: buf,
			})

			tt.logFunc(logger)

			if tt.expected {
				assert.NotEmpty(t, buf.String(), "expected log output")
			} else {
				assert.Empty(t, buf.String(), "expected no log output")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"notice", LevelNotice},
		{"warning", LevelWarning},
		{"warn", LevelWarning},
		{"error", LevelError},
		{"critical", LevelCritical},
		{"alert", LevelAlert},
		{"emergency", LevelEmergency},
		{"EMERGENCY", LevelEmergency},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLogger_SeverityField(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  "debug",
		Format: "json",
		Output: buf,
	})

	logger.Log(LevelEmergency, "database file gone", map[string]interface{}{
		"path": "/tmp/app.db",
	})

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	// zerolog collapses emergency to error but the real severity survives.
	assert.Equal(t, "error", logEntry["level"])
	assert.Equal(t, "emergency", logEntry["severity"])
	assert.Equal(t, "/tmp/app.db", logEntry["path"])
	assert.Equal(t, "database file gone", logEntry["message"])
}

func TestLogger_Channel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  "info",
		Format: "json",
		Output: buf,
	})

	logger.Channel("orm").InfoWith("row saved", map[string]interface{}{
		"table": "users",
	})

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "orm", logEntry["channel"])
	assert.Equal(t, "users", logEntry["table"])

	// Empty name is the default channel.
	assert.Same(t, logger, logger.Channel(""))
}

func TestDailyWriter_Rotation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	w := NewDailyWriter(dir, "literi")
	defer w.Close()

	current := time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return current }

	_, err := w.Write([]byte("first day\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "literi-2025-03-01.log"), w.Filename())

	// Crossing midnight opens a new file.
	current = current.Add(2 * time.Minute)
	_, err = w.Write([]byte("second day\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "literi-2025-03-02.log"), w.Filename())

	firstData, err := os.ReadFile(filepath.Join(dir, "literi-2025-03-01.log"))
	require.NoError(t, err)
	assert.Equal(t, "first day\n", string(firstData))

	secondData, err := os.ReadFile(filepath.Join(dir, "literi-2025-03-02.log"))
	require.NoError(t, err)
	assert.Equal(t, "second day\n", string(secondData))
}

func TestDailyWriter_AppendsWithinDay(t *testing.T) {
	dir := t.TempDir()
	w := NewDailyWriter(dir, "app")
	defer w.Close()

	w.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }

	_, err := w.Write([]byte("one\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("two\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "app-2025-03-01.log"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestLogger_DirectoryOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger := New(&Config{
		Level:     "info",
		Format:    "json",
		Directory: dir,
	})

	logger.InfoWith("boot", map[string]interface{}{"env": "testing"})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "literi-"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"env":"testing"`)
	assert.Contains(t, string(data), `"message":"boot"`)
}

func BenchmarkLogger_Info(b *testing.B) {
	logger := New(&Config{
		Level:  "info",
		Format: "json",
		Output: io.Discard,
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message")
	}
}

func BenchmarkLogger_WithFields(b *testing.B) {
	logger := New(&Config{
		Level:  "info",
		Format: "json",
		Output: io.Discard,
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.With().
			Str("service", "literi").
			Int("request_id", i).
			Logger().
			Info("benchmark message")
	}
}
