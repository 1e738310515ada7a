package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// PETCARE_LOG_FORMAT=console switches to human-readable output for local runs.
const formatEnv = "PETCARE_LOG_FORMAT"

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       zerolog.Level
	WarnStack   bool
	Output      io.Writer
}

// Logger wraps a base zerolog logger. Request-scoped fields are carried on
// the context with zerolog's own context helpers, so anything downstream that
// calls zerolog.Ctx sees them too.
type Logger struct {
	base      zerolog.Logger
	warnStack bool
}

func New(opts Options) *Logger {
	if opts.Level == zerolog.NoLevel {
		opts.Level = zerolog.InfoLevel
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(formatEnv)), "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	base := zerolog.New(out).Level(opts.Level).With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger()

	return &Logger{base: base, warnStack: opts.WarnStack}
}

// ParseLevel maps PETCARE_LOG_LEVEL to a zerolog level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) from(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if lg := zerolog.Ctx(ctx); lg != nil && lg.GetLevel() != zerolog.Disabled {
			return lg
		}
	}
	return &l.base
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.from(ctx).With().Interface(key, value).Logger().WithContext(ctx)
}

// WithFields attaches fields in key order.
func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	return l.from(ctx).With().Fields(fields).Logger().WithContext(ctx)
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) WithUserID(ctx context.Context, userID string) context.Context {
	return l.WithField(ctx, "user_id", userID)
}

func (l *Logger) WithOrderNumber(ctx context.Context, orderNumber string) context.Context {
	return l.WithField(ctx, "order_number", orderNumber)
}

func (l *Logger) WithActorRole(ctx context.Context, role string) context.Context {
	return l.WithField(ctx, "actor_role", role)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	l.from(ctx).Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.from(ctx).Info().Msg(msg)
}

// Warn includes a stack trace only when WarnStack is set.
func (l *Logger) Warn(ctx context.Context, msg string) {
	ev := l.from(ctx).Warn()
	if l.warnStack {
		ev = ev.Str("stack", stack())
	}
	ev.Msg(msg)
}

// Error always records a stack trace.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	l.from(ctx).Error().Err(err).Str("stack", stack()).Msg(msg)
}

func stack() string {
	return strings.TrimSpace(string(debug.Stack()))
}
