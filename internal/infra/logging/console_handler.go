package logging

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

const (
	ansiReset     = "\033[0m"
	ansiRed       = "\033[31m"
	ansiGreen     = "\033[32m"
	ansiYellow    = "\033[33m"
	ansiCyan      = "\033[36m"
	ansiGray      = "\033[90m"
	ansiUnderline = "\033[4m"
)

func levelColor(level slog.Level) string {
	switch {
	case level >= LevelError:
		return ansiRed
	case level >= LevelWarn:
		return ansiYellow
	case level >= LevelInfo:
		return ansiGreen
	default:
		return ansiCyan
	}
}

// ConsoleHandler writes colored, human-readable records for local development.
// Levels can be overridden per logger name prefix, see LoggerConfig.Filter.
type ConsoleHandler struct {
	out     io.Writer
	mu      *sync.Mutex
	level   slog.Level
	filters map[string]slog.Level
	floor   slog.Level

	attrs  []slog.Attr
	groups []string
}

var _ slog.Handler = (*ConsoleHandler)(nil)

func NewConsoleHandler(out io.Writer, level slog.Level, filters map[string]slog.Level) *ConsoleHandler {
	floor := level
	for _, l := range filters {
		floor = min(floor, l)
	}

	return &ConsoleHandler{
		out:     out,
		mu:      new(sync.Mutex),
		level:   level,
		filters: filters,
		floor:   floor,
	}
}

// Enabled lets through everything any filter could accept; Handle decides per logger.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.floor
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	if r.Level < h.levelFor(loggerName(attrs)) {
		return nil
	}

	var b strings.Builder

	b.WriteString(ansiGray + r.Time.Format("15:04:05.000000") + ansiReset)
	b.WriteString(" " + levelColor(r.Level) + "[" + r.Level.String() + "]" + ansiReset)
	b.WriteString(" " + r.Message)

	if len(attrs) > 0 {
		prefix := ""
		if len(h.groups) > 0 {
			prefix = strings.Join(h.groups, ".") + "."
		}

		b.WriteString(" " + ansiGray + "|" + ansiReset)
		writeAttrs(&b, prefix, attrs)
	}

	if r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		fn := frame.Function[strings.LastIndex(frame.Function, "/")+1:]

		b.WriteString("\n-> " + ansiGray + fn + "()")
		b.WriteString(" in " + ansiUnderline + frame.File + ":" + strconv.Itoa(frame.Line) + ansiReset)
	}

	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.out, b.String())

	//nolint:wrapcheck
	return err
}

func (h *ConsoleHandler) levelFor(name string) slog.Level {
	for name != "" {
		if level, ok := h.filters[name]; ok {
			return level
		}

		idx := strings.LastIndex(name, ".")
		if idx < 0 {
			break
		}

		name = name[:idx]
	}

	return h.level
}

func loggerName(attrs []slog.Attr) string {
	for _, attr := range attrs {
		if attr.Key == LoggerKey {
			return attr.Value.String()
		}
	}

	return ""
}

func writeAttrs(b *strings.Builder, prefix string, attrs []slog.Attr) {
	for _, attr := range attrs {
		attr.Value = attr.Value.Resolve()

		if attr.Value.Kind() == slog.KindGroup {
			writeAttrs(b, prefix+attr.Key+".", attr.Value.Group())

			continue
		}

		b.WriteString(" " + prefix + attr.Key + "=" + ansiGray + attr.Value.String() + ansiReset)
	}
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)

	return &clone
}

func (h *ConsoleHandler) WithGroup(name string) Handler {
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)

	return &clone
}
