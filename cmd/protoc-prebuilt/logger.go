package main

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/config"
)

// charmLogger adapts a charmbracelet logger to config.Logger.
type charmLogger struct {
	l *log.Logger
}

// newLogger writes to w at info level, or debug level when verbose.
func newLogger(w io.Writer, verbose bool) config.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	return &charmLogger{l: log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "protoc-prebuilt",
	})}
}

func (c *charmLogger) Debug(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c *charmLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Info(msg, keysAndValues...)
}

func (c *charmLogger) Warn(msg string, keysAndValues ...interface{}) {
	c.l.Warn(msg, keysAndValues...)
}

func (c *charmLogger) Error(msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, keysAndValues...)
}
