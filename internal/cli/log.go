package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger. Timestamps look like "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// quietLogger derives the logger handed to the pipeline. Stage logs are
// debug detail, so without --verbose only warnings get through.
func quietLogger(l *log.Logger, verbose bool) *log.Logger {
	child := l.With()
	if !verbose {
		child.SetLevel(log.WarnLevel)
	}
	return child
}

// stage times one CLI step and logs it with structured fields.
type stage struct {
	logger *log.Logger
	name   string
	start  time.Time
}

func startStage(l *log.Logger, name string) *stage {
	l.Debug("start", "stage", name)
	return &stage{logger: l, name: name, start: time.Now()}
}

// done logs the stage with its elapsed time and any extra key/value pairs.
func (s *stage) done(keyvals ...any) time.Duration {
	elapsed := time.Since(s.start).Round(time.Millisecond)
	s.logger.Info(s.name, append([]any{"elapsed", elapsed}, keyvals...)...)
	return elapsed
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default() when none
// was attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
