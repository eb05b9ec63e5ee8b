// Package log implements log in golang.
package log

import "log/slog"

// Default the default log instance
func Default() Logger {
	return std
}

// Action set action filed for logger
func Action(action string) StdLogger {
	return std.Action(action)
}

// With any map data, the value of key must be string, int ... basic value
func With(m map[string]any) StdLogger {
	return std.With(m)
}

// SetLevel set the log level with: debug, info, warn, error
func SetLevel(level string) error {
	l, err := ParseLevel(level)
	if err != nil {
		return err
	}
	slog.SetLogLoggerLevel(l)
	std.level.Set(l)
	return nil
}
