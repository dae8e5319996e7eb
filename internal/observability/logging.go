package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Tags are key-value pairs attached to every message of a logger.
type Tags map[string]string

const LevelFatal = slog.Level(12)

type CoreLoggerParams struct {
	// Gate suppresses repeated Capture* messages. May be nil, in which
	// case every message is let through.
	Gate *RepeatGate

	Tags Tags
}

type CoreLogger struct {
	*slog.Logger
	gate *RepeatGate
}

func NewCoreLogger(logger *slog.Logger, params *CoreLoggerParams) *CoreLogger {
	if params == nil {
		params = &CoreLoggerParams{}
	}

	var args []any
	for key, value := range params.Tags {
		args = append(args, slog.String(key, value))
	}

	return &CoreLogger{
		Logger: logger.With(args...),
		gate:   params.Gate,
	}
}

// With returns a derived logger that includes the given attributes in
// each message.
func (cl *CoreLogger) With(args ...any) *CoreLogger {
	return &CoreLogger{
		Logger: cl.Logger.With(args...),
		gate:   cl.gate,
	}
}

// CaptureError logs an error, suppressing repeats of the same message.
//
// Use it on paths that can fail at a high rate, like terminal writes.
func (cl *CoreLogger) CaptureError(err error, args ...any) {
	if !cl.gate.Allow(err.Error()) {
		return
	}

	cl.Error(err.Error(), args...)
}

// CaptureWarn logs a warning, suppressing repeats of the same message.
func (cl *CoreLogger) CaptureWarn(msg string, args ...any) {
	if !cl.gate.Allow(msg) {
		return
	}

	cl.Warn(msg, args...)
}

// CaptureFatal logs a fatal error.
//
// Fatal messages are never suppressed.
func (cl *CoreLogger) CaptureFatal(err error, args ...any) {
	cl.Log(context.Background(), LevelFatal, err.Error(), args...)
}

// Reraise logs a panic value and repanics with an error.
//
// Use it in a deferred call at the top of a goroutine.
func (cl *CoreLogger) Reraise(args ...any) {
	if e := recover(); e != nil {
		err, ok := e.(error)
		if !ok {
			err = fmt.Errorf("%v", e)
		}

		cl.CaptureFatal(err, args...)
		panic(err)
	}
}

// NewNoOpLogger returns a logger that discards all messages.
func NewNoOpLogger() *CoreLogger {
	return NewCoreLogger(
		slog.New(slog.NewJSONHandler(io.Discard, nil)),
		nil,
	)
}
