package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the diagnostic logger. Debug runs also report the caller
// so that table sizes can be traced to the rule that produced them.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    level <= log.DebugLevel,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// phase times one step of a command (loading, counting, measuring).
type phase struct {
	logger *log.Logger
	start  time.Time
}

func newPhase(l *log.Logger) *phase {
	return &phase{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time and any extra key/value pairs:
//
//	12:04:31 INFO Finished count took=12ms nodes=14
func (p *phase) done(msg string, keyvals ...any) {
	kv := append([]any{"took", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, kv...)
}

type loggerKey struct{}

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
