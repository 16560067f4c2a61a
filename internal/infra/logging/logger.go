package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

type (
	Logger  = *slog.Logger
	Handler = slog.Handler
	Level   = slog.Level
)

// LoggerKey is the attribute holding the logger name; console filters match on it.
const LoggerKey = "logger"

// LoggerConfig holds configuration parameters for logging.
type LoggerConfig struct {
	// AppName is added to every record when set
	AppName string

	// Output is "stdout", "stderr", "discard" or a file path
	Output string `env:"OUTPUT" default:"stderr"`

	// Level is the minimum level ("debug", "info", "warn", "error")
	Level string `env:"LEVEL" default:"info"`

	// Filter overrides the level per logger name prefix ("svc.loginsvc:debug,infra:warn")
	Filter string `env:"FILTER" default:""`

	// JSON switches from the console format to slog's JSON handler
	JSON bool `env:"JSON" default:"false"`

	OutputHandle io.Writer
}

//nolint:gochecknoglobals
var (
	Group      = slog.Group
	GroupValue = slog.GroupValue

	config     LoggerConfig
	configLock sync.RWMutex
)

// Configure sets up the global logging configuration. Loggers obtained before
// Configure keep their old settings.
func Configure(ctx context.Context, cfg LoggerConfig, appName string) {
	if err := configure(cfg, appName); err != nil {
		panic(err)
	}

	GetLogger("infra.logging").DebugContext(ctx, "logging configured", Group("config",
		"appName", appName,
		"output", cfg.Output,
		"level", cfg.Level,
		"filter", cfg.Filter,
		"json", cfg.JSON,
	))
}

func configure(cfg LoggerConfig, appName string) error {
	cfg.AppName = appName

	if cfg.OutputHandle == nil {
		out, err := openOutput(cfg.Output)
		if err != nil {
			return err
		}

		cfg.OutputHandle = out
	}

	configLock.Lock()
	defer configLock.Unlock()

	config = cfg

	slog.SetLogLoggerLevel(ParseLevel(cfg.Level, LevelInfo))

	return nil
}

func openOutput(output string) (io.Writer, error) {
	switch output {
	case "", "discard":
		return io.Discard, nil
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}

		return file, nil
	}
}

// GetLogger returns a logger tagged with name, built from the current configuration.
func GetLogger(name string) Logger {
	configLock.RLock()
	cfg := config
	configLock.RUnlock()

	if cfg.OutputHandle == nil || cfg.OutputHandle == io.Discard {
		return NewNopLogger()
	}

	level := ParseLevel(cfg.Level, LevelInfo)

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(cfg.OutputHandle, &slog.HandlerOptions{
			AddSource: true,
			Level:     level,
		})
	} else {
		handler = NewConsoleHandler(cfg.OutputHandle, level, parseFilter(cfg.Filter))
	}

	if cfg.AppName != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("app", cfg.AppName)})
	}

	return New(handler, name)
}

// New wraps handler with trace decoration and tags records with the logger name.
func New(handler slog.Handler, name string) Logger {
	return slog.New(NewTracingHandler(handler)).With(LoggerKey, name)
}

// GetLogLogger adapts logger for APIs that want a *log.Logger, such as http.Server.ErrorLog.
func GetLogLogger(logger Logger, level Level) *log.Logger {
	return slog.NewLogLogger(logger.With("stdlog", true).Handler(), level)
}

func parseFilter(filter string) map[string]Level {
	levels := make(map[string]Level)

	for _, entry := range strings.Split(filter, ",") {
		name, level, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok {
			continue
		}

		levels[name] = ParseLevel(level, LevelDebug)
	}

	return levels
}

// ParseLevel maps a level name to a Level, returning fallback for unknown names.
func ParseLevel(name string, fallback Level) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return fallback
	}
}
