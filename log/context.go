package log

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type loggerKey struct{}

const traceIDKey = "trace_id"

// NewContext context with tags logger
func NewContext(ctx context.Context, tags map[string]any) context.Context {
	return context.WithValue(ctx, loggerKey{}, std.derive(tagsToFields(tags)))
}

// NewContextWithLogger context with tags logger
func NewContextWithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Inject add tags to current context
func Inject(ctx context.Context, tags map[string]any) {
	if ctxLogger, ok := ctx.Value(loggerKey{}).(Logger); ok {
		ctxLogger.Inject(tags)
	}
}

// Extract logger from context, falling back to the default logger. When the context carries a
// span the trace id is added to the fields.
func Extract(ctx context.Context) Logger {
	if ctx == nil {
		return std
	}
	logger, ok := ctx.Value(loggerKey{}).(Logger)
	if !ok {
		logger = std
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}
	return &tracedLogger{Logger: logger, traceID: sc.TraceID().String()}
}

// tracedLogger adds the trace id to every action logger it creates.
type tracedLogger struct {
	Logger
	traceID string
}

func (l *tracedLogger) Action(action string) StdLogger {
	return l.Logger.Action(action).With(map[string]any{traceIDKey: l.traceID})
}

func (l *tracedLogger) With(m map[string]any) StdLogger {
	return l.Logger.With(m).With(map[string]any{traceIDKey: l.traceID})
}
