// Package logging builds the logrus.Logger every other package accepts as
// a plain (possibly nil) *logrus.Logger argument, following the
// level/format setup app.New uses for its own logger construction.
package logging

import "github.com/sirupsen/logrus"

// Options controls the logger New builds.
type Options struct {
	// Level is a logrus level name ("debug", "info", "warn", "error", ...).
	// Empty or unparseable falls back to InfoLevel.
	Level string
	// JSON selects logrus.JSONFormatter; otherwise logrus.TextFormatter.
	JSON bool
}

// New builds a configured *logrus.Logger; zero-value Options give info
// level and text format. A Tracer given no WithLogger option does not call
// New: it has no logger and logs nothing.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}

	return logger
}
