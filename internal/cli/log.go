package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger that writes timestamps as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a command stage. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

// step logs an intermediate stage at debug level with the time since the
// previous step.
func (p *progress) step(msg string, kv ...any) {
	now := time.Now()
	p.logger.Debug(msg, append(kv, "took", now.Sub(p.last).Round(time.Millisecond))...)
	p.last = now
}

// done logs msg with the total elapsed time, e.g. "Placed 12 leylines (84ms)".
func (p *progress) done(msg string, kv ...any) {
	p.logger.Info(fmt.Sprintf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond)), kv...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a copy of ctx carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger stored in ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
