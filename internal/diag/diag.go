// Package diag is the structured-logging seam every core package accepts
// through its constructor, the same way the source project threaded a
// LoggerInterface through cpu.NewCPU. A nil *Logger is always valid and
// silent, so core packages never need a no-op stub implementation.
package diag

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger wraps a charmbracelet/log logger tagged with a component name.
// It is intentionally narrow: core packages only ever Debugf/Infof/Warnf/Errorf,
// never branch on log level, and never let a log call influence emulated
// state.
type Logger struct {
	l *log.Logger
}

// Options controls the handful of knobs the CLI harness exposes; the zero
// value produces a quiet, info-level logger writing to stderr.
type Options struct {
	Writer io.Writer
	Level  log.Level
}

// New builds a root logger. Passing opts.Writer == nil defaults to os.Stderr.
func New(opts Options) *Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           opts.Level,
	})
	return &Logger{l: l}
}

// Discard returns a logger that drops everything; the CLI harness uses it
// when verbose logging is off. A nil *Logger is equally silent, and
// Component on a nil *Logger returns nil.
func Discard() *Logger {
	return &Logger{l: log.NewWithOptions(io.Discard, log.Options{})}
}

// Component returns a child logger tagged with a component name, mirroring
// the source project's per-component Log*/Log*f method families but as a
// single sublogger rather than a family of methods.
func (lg *Logger) Component(name string) *Logger {
	if lg == nil {
		return nil
	}
	return &Logger{l: lg.l.With("component", name)}
}

func (lg *Logger) Debugf(format string, args ...interface{}) {
	if lg == nil {
		return
	}
	lg.l.Debugf(format, args...)
}

func (lg *Logger) Infof(format string, args ...interface{}) {
	if lg == nil {
		return
	}
	lg.l.Infof(format, args...)
}

func (lg *Logger) Warnf(format string, args ...interface{}) {
	if lg == nil {
		return
	}
	lg.l.Warnf(format, args...)
}

func (lg *Logger) Errorf(format string, args ...interface{}) {
	if lg == nil {
		return
	}
	lg.l.Errorf(format, args...)
}
