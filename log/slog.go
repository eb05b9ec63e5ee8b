package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

var std *sLogger

const actionKey = "action"

func init() {
	std = newLogger(os.Stdout, slog.LevelInfo)
	slog.SetDefault(std.logger)
}

// New a json logger writing to w at the given level (debug, info, warn, error).
func New(w io.Writer, level string) (Logger, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return newLogger(w, l), nil
}

func newLogger(w io.Writer, l slog.Level) *sLogger {
	lvl := new(slog.LevelVar)
	lvl.Set(l)
	return &sLogger{
		logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})),
		level:  lvl,
	}
}

// ParseLevel parses a level name such as debug or warn, case insensitive. Empty is info.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if level == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return l, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	return l, nil
}

type sLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
	fields []any
}

func (l *sLogger) log(level slog.Level, msgOrFormat string, args []any) {
	if len(args) > 0 {
		msgOrFormat = fmt.Sprintf(msgOrFormat, args...)
	}
	l.logger.Log(context.Background(), level, msgOrFormat, l.fields...)
}

// Debug logs a message at DebugLevel.
func (l *sLogger) Debug(msgOrFormat string, args ...any) {
	l.log(slog.LevelDebug, msgOrFormat, args)
}

// Info logs a message at InfoLevel.
func (l *sLogger) Info(msgOrFormat string, args ...any) {
	l.log(slog.LevelInfo, msgOrFormat, args)
}

// Warn logs a message at WarnLevel.
func (l *sLogger) Warn(msgOrFormat string, args ...any) {
	l.log(slog.LevelWarn, msgOrFormat, args)
}

// Error logs a message at ErrorLevel.
func (l *sLogger) Error(msgOrFormat string, args ...any) {
	l.log(slog.LevelError, msgOrFormat, args)
}

// Action logger with just an action key.
func (l *sLogger) Action(action string) StdLogger {
	return l.derive([]any{slog.String(actionKey, action)})
}

// With add custom maps for logger
func (l *sLogger) With(m map[string]any) StdLogger {
	return l.derive(tagsToFields(m))
}

func (l *sLogger) derive(extra []any) *sLogger {
	fields := make([]any, 0, len(l.fields)+len(extra))
	fields = append(fields, l.fields...)
	fields = append(fields, extra...)
	return &sLogger{
		logger: l.logger,
		level:  l.level,
		fields: fields,
	}
}

// Inject inject data
func (l *sLogger) Inject(m map[string]any) {
	l.fields = append(l.fields, tagsToFields(m)...)
}

func tagsToFields(m map[string]any) []any {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]any, len(keys))
	for i, key := range keys {
		switch v := m[key].(type) {
		case string:
			fields[i] = slog.String(key, v)
		case int:
			fields[i] = slog.Int(key, v)
		case int32:
			fields[i] = slog.Int(key, int(v))
		case int64:
			fields[i] = slog.Int64(key, v)
		case bool:
			fields[i] = slog.Bool(key, v)
		case float64:
			fields[i] = slog.Float64(key, v)
		case fmt.Stringer:
			fields[i] = slog.String(key, v.String())
		default:
			fields[i] = slog.Any(key, v)
		}
	}
	return fields
}
