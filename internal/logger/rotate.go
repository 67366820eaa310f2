package logger

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	logDirPerm  = 0o750
	logFilePerm = 0o640
)

// DailyWriter is an io.Writer that appends to a date-stamped log file
// (<prefix>-YYYY-MM-DD.log) inside dir, creating the directory on first
// write and switching to a fresh file when the calendar day changes.
type DailyWriter struct {
	mu     sync.Mutex
	dir    string
	prefix string
	now    func() time.Time

	day string
	f   *os.File
}

// NewDailyWriter returns a writer rotating daily under dir. Nothing is
// created until the first Write.
func NewDailyWriter(dir, prefix string) *DailyWriter {
	return &DailyWriter{dir: dir, prefix: prefix, now: time.Now}
}

func (w *DailyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	day := w.now().Format("2006-01-02")
	if w.f == nil || day != w.day {
		if err := w.rotate(day); err != nil {
			return 0, err
		}
	}
	return w.f.Write(p)
}

// rotate opens the file for day and swaps it in. The old file is closed
// only after the new one opened, so a failed rotation keeps the current
// file usable.
func (w *DailyWriter) rotate(day string) error {
	if err := os.MkdirAll(w.dir, logDirPerm); err != nil {
		return err
	}
	name := filepath.Join(w.dir, w.prefix+"-"+day+".log")
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFilePerm)
	if err != nil {
		return err
	}
	if w.f != nil {
		w.f.Close()
	}
	w.f = f
	w.day = day
	return nil
}

// Filename returns the path of the file currently being written, or ""
// before the first write.
func (w *DailyWriter) Filename() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.day == "" {
		return ""
	}
	return filepath.Join(w.dir, w.prefix+"-"+w.day+".log")
}

// Close releases the current file. A later Write reopens it.
func (w *DailyWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	w.day = ""
	return err
}
