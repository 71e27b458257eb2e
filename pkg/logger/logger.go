package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB   = 10
	maxLogBackups  = 5
	defaultTimeFmt = "2006-01-02 15:04:05"
)

var (
	tagColor  = color.New(color.FgCyan)
	sepColor  = color.New(color.FgHiBlack)
	keyColor  = color.New(color.FgCyan)
	levelTags = map[slog.Level]struct {
		color *color.Color
		label string
	}{
		slog.LevelDebug: {color.New(color.FgHiBlack), "DEBUG"},
		slog.LevelInfo:  {color.New(color.FgGreen), "INFO "},
		slog.LevelWarn:  {color.New(color.FgYellow), "WARN "},
		slog.LevelError: {color.New(color.FgRed), "ERROR"},
	}
)

var Log = slog.New(NewPrettyHandler(os.Stdout, slog.LevelInfo, "", true))

type PrettyHandler struct {
	out        io.Writer
	level      slog.Level
	mu         *sync.Mutex
	timeFormat string
	colored    bool
	attrs      []slog.Attr
}

func NewPrettyHandler(out io.Writer, level slog.Level, timeFormat string, colored bool) *PrettyHandler {
	if timeFormat == "" {
		timeFormat = defaultTimeFmt
	}
	return &PrettyHandler{
		out:        out,
		level:      level,
		mu:         &sync.Mutex{},
		timeFormat: timeFormat,
		colored:    colored,
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *PrettyHandler) paint(c *color.Color, s string) string {
	if !h.colored {
		return s
	}
	return c.Sprint(s)
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	style, ok := levelTags[r.Level]
	if !ok {
		style = levelTags[slog.LevelInfo]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s %s %s %s",
		h.paint(tagColor, "[TERABOX]"),
		r.Time.Format(h.timeFormat),
		h.paint(sepColor, "|"),
		h.paint(style.color, style.label),
		h.paint(sepColor, "|"),
		r.Message,
	)

	write := func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", h.paint(keyColor, a.Key), a.Value.Any())
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &nh
}

func (h *PrettyHandler) WithGroup(string) slog.Handler {
	return h
}

// multiHandler fans a record out to several handlers.
type multiHandler []slog.Handler

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}

type Options struct {
	// File is the rotating log file path. Empty disables file logging.
	File  string
	Level string
}

// Init installs the console logger and, if configured, a rotating log
// file (10MB x 5 backups). The returned closer flushes the file.
func Init(opts Options) (io.Closer, error) {
	level := ParseLevel(opts.Level)
	handlers := multiHandler{NewPrettyHandler(os.Stdout, level, "", true)}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
		}
		handlers = append(handlers, NewPrettyHandler(rotator, level, "", false))
		closer = rotator
	}

	Log = slog.New(handlers)
	slog.SetDefault(Log)
	return closer, nil
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}

func InfoWithDuration(msg string, start time.Time, args ...any) {
	args = append(args, "duration", time.Since(start).Round(time.Millisecond))
	Log.Info(msg, args...)
}

func ErrorWithDuration(msg string, start time.Time, args ...any) {
	args = append(args, "duration", time.Since(start).Round(time.Millisecond))
	Log.Error(msg, args...)
}
