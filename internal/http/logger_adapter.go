package http

import (
	"github.com/hashicorp/go-retryablehttp"

	"github.com/anchore/go-logger"
)

var _ retryablehttp.LeveledLogger = (*leveledLoggerAdapter)(nil)

// leveledLoggerAdapter adapts a go-logger.Logger to the retryablehttp.LeveledLogger interface.
// Per-request chatter from the client (logged at debug) is demoted to trace, while retry warnings
// and give-up errors keep their level.
type leveledLoggerAdapter struct {
	lgr logger.Logger
}

// NewLeveledLogger creates a retryablehttp.LeveledLogger from a go-logger.Logger.
func NewLeveledLogger(lgr logger.Logger) retryablehttp.LeveledLogger {
	return &leveledLoggerAdapter{lgr: lgr}
}

func (l *leveledLoggerAdapter) Error(msg string, keysAndValues ...any) {
	l.lgr.WithFields(keysAndValues...).Error(msg)
}

func (l *leveledLoggerAdapter) Warn(msg string, keysAndValues ...any) {
	l.lgr.WithFields(keysAndValues...).Warn(msg)
}

func (l *leveledLoggerAdapter) Info(msg string, keysAndValues ...any) {
	l.lgr.WithFields(keysAndValues...).Debug(msg)
}

func (l *leveledLoggerAdapter) Debug(msg string, keysAndValues ...any) {
	l.lgr.WithFields(keysAndValues...).Trace(msg)
}
