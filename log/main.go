// Package log wraps logrus with the key-value style used across the engine.
package log

import (
	"io"
	"os"

	"github.com/netrixframework/qengine/config"
	"github.com/sirupsen/logrus"
)

// DefaultLogger is the logger configured by Init. It discards everything
// until then.
var DefaultLogger *Logger = NewDiscard()

// LogParams are the key values attached to a message
type LogParams map[string]interface{}

// Logger for logging
type Logger struct {
	entry *logrus.Entry

	file *os.File
}

// NewLogger creates a logger writing to c.Path, or to stderr when the path
// is empty or cannot be created
func NewLogger(c config.LogConfig) *Logger {
	l := logrus.New()
	if c.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(c.Level); err == nil {
		l.SetLevel(level)
	}

	logger := &Logger{entry: logrus.NewEntry(l)}
	if c.Path != "" {
		f, err := os.Create(c.Path)
		if err != nil {
			logger.With(LogParams{"path": c.Path, "err": err}).Warn("Cannot create log file, logging to stderr")
			return logger
		}
		l.SetOutput(f)
		logger.file = f
	}
	return logger
}

// NewDiscard returns a logger that drops every message
func NewDiscard() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{
		entry: logrus.NewEntry(l),
	}
}

func (l *Logger) Debug(s string) {
	l.entry.Debug(s)
}

func (l *Logger) Info(s string) {
	l.entry.Info(s)
}

func (l *Logger) Warn(s string) {
	l.entry.Warn(s)
}

func (l *Logger) Error(s string) {
	l.entry.Error(s)
}

// With returns a logger whose messages carry params
func (l *Logger) With(params LogParams) *Logger {
	return &Logger{
		entry: l.entry.WithFields(logrus.Fields(params)),
	}
}

// Tagged returns a logger whose messages carry the trace tag, e.g. "quant-engine"
func (l *Logger) Tagged(tag string) *Logger {
	return l.With(LogParams{"trace": tag})
}

// IsDebug is true when debug messages are emitted. Callers use it to skip
// building expensive dumps.
func (l *Logger) IsDebug() bool {
	return l.entry.Logger.IsLevelEnabled(logrus.DebugLevel)
}

// Writer returns a writer that logs every line at info level. The caller must close it.
func (l *Logger) Writer() *io.PipeWriter {
	return l.entry.WriterLevel(logrus.InfoLevel)
}

// Destroy closes the log file, if any
func (l *Logger) Destroy() {
	if l.file != nil {
		l.file.Close()
	}
}

// Init replaces DefaultLogger by a logger configured with c
func Init(c config.LogConfig) {
	DefaultLogger = NewLogger(c)
}

// Destroy closes the file of DefaultLogger
func Destroy() {
	DefaultLogger.Destroy()
}
