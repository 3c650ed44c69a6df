package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Output formats.
const (
	JSON = "json"
	Text = "text"
)

// Attribute keys added to every record.
const (
	ServiceKey       = "service"
	TransactionIDKey = "transaction_id"
)

// Logger is a slog.Logger with helpers for process exit and request correlation.
type Logger struct {
	*slog.Logger
}

type Config struct {
	Level     string // debug, info, warn or error; anything else means info
	Format    string // JSON or Text; empty means JSON
	Output    io.Writer
	AddSource bool
	Service   string
}

func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, Text) {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	if cfg.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String(ServiceKey, cfg.Service)})
	}

	return &Logger{Logger: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Fatal logs at error level and exits with status 1. Only for startup failures.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Error(msg, args...)
	os.Exit(1)
}

type transactionKey struct{}

// ContextWithTransactionID stores the per-request transaction id.
func ContextWithTransactionID(ctx context.Context, transactionID string) context.Context {
	return context.WithValue(ctx, transactionKey{}, transactionID)
}

// TransactionIDFromContext returns the id stored by ContextWithTransactionID, or "".
func TransactionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(transactionKey{}).(string)
	return id
}

// WithTransaction returns a child logger tagged with the context's transaction id.
func (l *Logger) WithTransaction(ctx context.Context) *Logger {
	id := TransactionIDFromContext(ctx)
	if id == "" {
		return l
	}
	return &Logger{Logger: l.Logger.With(TransactionIDKey, id)}
}
