package logging

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

type ctxKey struct{ name string }

var (
	loggerKey = ctxKey{"logger"}
	runIDKey  = ctxKey{"run_id"}
)

// WithLogger returns a context carrying logger. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && l != nil {
			return l
		}
	}
	return Default()
}

// HasLogger reports whether ctx carries a logger set by WithLogger.
func HasLogger(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	l, ok := ctx.Value(loggerKey).(*zerolog.Logger)
	return ok && l != nil
}

// Ctx is shorthand for FromContext.
func Ctx(ctx context.Context) *zerolog.Logger { return FromContext(ctx) }

// NewRunID returns a ULID identifying one conversion run.
func NewRunID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// WithRunID stores runID in ctx and adds it as the run_id log field.
func WithRunID(ctx context.Context, runID string) context.Context {
	return WithField(context.WithValue(ctx, runIDKey, runID), "run_id", runID)
}

// RunID returns the run ID stored by WithRunID, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithAcquisition adds the acquisition descriptor path as a log field.
func WithAcquisition(ctx context.Context, path string) context.Context {
	return WithField(ctx, "acquisition", path)
}

// WithKind adds the acquisition kind as a log field.
func WithKind(ctx context.Context, kind string) context.Context {
	return WithField(ctx, "kind", kind)
}

// WithField adds one field to the context logger.
func WithField(ctx context.Context, key string, value any) context.Context {
	return WithFields(ctx, map[string]any{key: value})
}

// WithFields adds fields to the context logger.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	lc := FromContext(ctx).With()
	for k, v := range fields {
		switch tv := v.(type) {
		case string:
			lc = lc.Str(k, tv)
		case int:
			lc = lc.Int(k, tv)
		case float64:
			lc = lc.Float64(k, tv)
		case bool:
			lc = lc.Bool(k, tv)
		case error:
			lc = lc.AnErr(k, tv)
		default:
			lc = lc.Interface(k, tv)
		}
	}
	l := lc.Logger()
	return WithLogger(ctx, &l)
}
