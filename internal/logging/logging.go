package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// Fields carries structured log context.
type Fields map[string]interface{}

// Logger is a component-scoped structured logger.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger tagged with the given component name.
func New(component string) *Logger {
	zl := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("component", component).
		Logger()
	return &Logger{zl: zl}
}

func (l *Logger) Debug(msg string, fields ...Fields) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...Fields) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...Fields) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...Fields) {
	l.emit(l.zl.Error(), msg, fields)
}

// Fatal logs the message and exits the process.
func (l *Logger) Fatal(msg string, fields ...Fields) {
	l.emit(l.zl.Fatal(), msg, fields)
}

func (l *Logger) emit(ev *zerolog.Event, msg string, fields []Fields) {
	for _, f := range fields {
		for k, v := range f {
			ev = ev.Interface(k, v)
		}
	}
	ev.Msg(msg)
}
