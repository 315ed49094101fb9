/*
Package log is the process-wide logger. Messages go to stderr so command
output on stdout stays clean, one line per entry:

	2026-01-02T15:04:05.000Z INFO dotconf: message key=value...

The json format switches to log/slog's JSON handler.
*/
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	name             = filepath.Base(os.Args[0])
	level            = new(slog.LevelVar)
	format           = "text"
	output io.Writer = os.Stderr
	logger *slog.Logger
)

// lineHandler renders records as single text lines. Attributes added with
// WithAttrs are rendered once and carried as a suffix.
type lineHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	attrs  string
	prefix string
}

func (h *lineHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= level.Level()
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Time.Format(timeLayout))
	b.WriteByte(' ')
	b.WriteString(r.Level.String())
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(r.Message)
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	for _, a := range attrs {
		writeAttr(&b, h.prefix, a)
	}
	nh := *h
	nh.attrs += b.String()
	return &nh
}

func (h *lineHandler) WithGroup(group string) slog.Handler {
	if group == "" {
		return h
	}
	nh := *h
	nh.prefix += group + "."
	return &nh
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			writeAttr(b, prefix+a.Key+".", ga)
		}
		return
	}
	fmt.Fprintf(b, " %s%s=%s", prefix, a.Key, v.String())
}

func init() {
	rebuild()
}

func rebuild() {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level})
	} else {
		handler = &lineHandler{mu: new(sync.Mutex), w: output}
	}
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// SetLevel sets the minimum level: debug, info, warn or error.
func SetLevel(l string) error {
	switch strings.ToLower(l) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		return fmt.Errorf("not a valid level: %q", l)
	}
	return nil
}

// SetFormat selects the text or json handler.
func SetFormat(f string) error {
	switch f {
	case "json", "text":
		format = f
	default:
		return fmt.Errorf("not a valid log format: %q", f)
	}
	rebuild()
	return nil
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	output = w
	rebuild()
}

// Logger returns the underlying slog.Logger.
func Logger() *slog.Logger {
	return logger
}

func Debug(format string, v ...any) {
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		logger.Debug(fmt.Sprintf(format, v...))
	}
}

func Info(format string, v ...any) {
	logger.Info(fmt.Sprintf(format, v...))
}

func Warning(format string, v ...any) {
	logger.Warn(fmt.Sprintf(format, v...))
}

func Error(format string, v ...any) {
	logger.Error(fmt.Sprintf(format, v...))
}
