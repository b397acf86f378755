// Package logger provides structured logging for doxide.
//
// Log output always goes to stderr (or the given writer) so that stdout stays
// reserved for command results an editor may parse.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus logger, optionally scoped to a component
type Logger struct {
	log       *logrus.Logger
	component string
}

// Entry accumulates fields for a single log line
type Entry struct {
	entry *logrus.Entry
	level logrus.Level
}

// Options tweak logger construction
type Options struct {
	// JSON switches to one JSON object per line, for editor integrations
	JSON bool
}

// New creates a logger writing text lines at the given level.
// Unknown levels fall back to info.
func New(level string, output io.Writer) *Logger {
	return NewWithOptions(level, output, Options{})
}

// NewWithOptions creates a logger with explicit formatting options
func NewWithOptions(level string, output io.Writer, opts Options) *Logger {
	if output == nil {
		output = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(output)
	log.SetLevel(ParseLevel(level))

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{DisableTimestamp: true})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors:    !isTerminal(output),
			DisableTimestamp: true,
			PadLevelText:     true,
		})
	}

	return &Logger{log: log}
}

// ParseLevel maps a level name to a logrus level, defaulting to info
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return New("panic", io.Discard)
}

// WithComponent returns a logger that tags every line with component=name
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{log: l.log, component: name}
}

// Level returns the configured level name
func (l *Logger) Level() string {
	return l.log.GetLevel().String()
}

func (l *Logger) newEntry(level logrus.Level) *Entry {
	e := logrus.NewEntry(l.log)
	if l.component != "" {
		e = e.WithField("component", l.component)
	}
	return &Entry{entry: e, level: level}
}

// Debug starts a debug entry
func (l *Logger) Debug() *Entry { return l.newEntry(logrus.DebugLevel) }

// Info starts an info entry
func (l *Logger) Info() *Entry { return l.newEntry(logrus.InfoLevel) }

// Warn starts a warning entry
func (l *Logger) Warn() *Entry { return l.newEntry(logrus.WarnLevel) }

// Error starts an error entry
func (l *Logger) Error() *Entry { return l.newEntry(logrus.ErrorLevel) }

// Str adds a string field
func (e *Entry) Str(key, value string) *Entry {
	e.entry = e.entry.WithField(key, value)
	return e
}

// Strs adds a string slice field, joined with commas
func (e *Entry) Strs(key string, values []string) *Entry {
	e.entry = e.entry.WithField(key, strings.Join(values, ","))
	return e
}

// Int adds an int field
func (e *Entry) Int(key string, value int) *Entry {
	e.entry = e.entry.WithField(key, value)
	return e
}

// Bool adds a bool field
func (e *Entry) Bool(key string, value bool) *Entry {
	e.entry = e.entry.WithField(key, value)
	return e
}

// Err adds an error field; nil errors are ignored
func (e *Entry) Err(err error) *Entry {
	if err != nil {
		e.entry = e.entry.WithError(err)
	}
	return e
}

// Dur adds a duration field in milliseconds
func (e *Entry) Dur(key string, duration time.Duration) *Entry {
	ms := float64(duration.Microseconds()) / 1000.0
	e.entry = e.entry.WithField(key, ms)
	return e
}

// Msg emits the entry
func (e *Entry) Msg(msg string) {
	e.entry.Log(e.level, msg)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
