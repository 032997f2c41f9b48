// Package logger wraps zerolog.Logger with the constructors and
// context helpers the rest of tripmate relies on. The wrapper embeds
// zerolog.Logger, so the whole zerolog API is available on *Logger;
// handlers pick up their request-scoped instance with FromRequest or
// FromContext.
package logger

import (
	"context"
	"net/http"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger embeds zerolog.Logger to keep its API while leaving room for
// application helpers.
type Logger struct {
	zerolog.Logger
}

// NewLogger builds the process-wide JSON logger writing to stdout. Every
// entry carries the given role label plus a timestamp, and the caller field
// is reported as the fully-qualified function name under the "func" key.
// The global level is lowered to Debug.
func NewLogger(role string) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerFieldName = "func"
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}

	l := zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{l}
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a copy that inherits the receiver's fields and can
// be enriched independently.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// FromRequest returns the logger attached to the request context by the
// logging middleware.
func FromRequest(r *http.Request) *Logger {
	return &Logger{*log.Ctx(r.Context())}
}

// FromContext returns the logger stored in ctx. When nothing was attached
// zerolog hands back its global logger, so the result is never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
