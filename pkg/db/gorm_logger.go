package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

// queryLogger routes gorm's logging through the request-scoped zerolog
// logger. Failed and slow statements are warnings; everything else is debug.
type queryLogger struct {
	logg  *logger.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

func newQueryLogger(logg *logger.Logger, slow time.Duration) gormlogger.Interface {
	if logg == nil {
		return gormlogger.Discard
	}
	return &queryLogger{logg: logg, level: gormlogger.Warn, slow: slow}
}

func (q *queryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *q
	clone.level = level
	return &clone
}

func (q *queryLogger) Info(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Info {
		q.logg.Debug(ctx, fmt.Sprintf(msg, args...))
	}
}

func (q *queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Warn {
		q.logg.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (q *queryLogger) Error(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Error {
		q.logg.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

// Trace is called by gorm after every statement.
func (q *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := q.slow > 0 && elapsed > q.slow

	wanted := (failed && q.level >= gormlogger.Error) ||
		(slow && q.level >= gormlogger.Warn) ||
		q.level >= gormlogger.Info
	if !wanted {
		return
	}

	sql, rows := fc()
	fields := map[string]any{"sql": sql, "rows": rows, "elapsed_ms": elapsed.Milliseconds()}
	if failed {
		fields["db_error"] = err.Error()
	}
	ctx = q.logg.WithFields(ctx, fields)
	switch {
	case failed:
		q.logg.Warn(ctx, "db.query_failed")
	case slow:
		q.logg.Warn(ctx, "db.query_slow")
	default:
		q.logg.Debug(ctx, "db.query")
	}
}
