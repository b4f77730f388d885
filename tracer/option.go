package tracer

import "github.com/sirupsen/logrus"

// Option configures a Tracer at construction time, following the
// teacher's functional-options idiom (analyzer.Option/analyzer.WithX).
type Option func(*Tracer)

// WithLogger attaches a logger used for stage-boundary debug logging
// (assemble's "assembled trace" line, validation conflict warnings). A
// Tracer built without this option logs nothing.
func WithLogger(logger *logrus.Logger) Option {
	return func(t *Tracer) {
		t.logger = logger
	}
}

// WithMaxSteps bounds the total number of statement/expression callbacks a
// single Run can record, guarding against an infinite loop in traced code.
// Zero (the default) means unbounded.
func WithMaxSteps(n int) Option {
	return func(t *Tracer) {
		t.maxSteps = n
	}
}

// WithServerMode switches error handling from strict (Run returns the
// traced program's RuntimeError/parse error as a Go error) to server mode
// (the error is logged and swallowed; Run still returns an artifact, whose
// trace and stdout are empty after a RuntimeError and which carries only
// Metadata after a parse error).
func WithServerMode(serverMode bool) Option {
	return func(t *Tracer) {
		t.serverMode = serverMode
	}
}

// WithValidate enables running validate.ValidateTrace over every assembled
// artifact before Run returns it, logging (never failing on) conflicts.
func WithValidate(validate bool) Option {
	return func(t *Tracer) {
		t.validate = validate
	}
}

// WithConfig applies cfg's MaxSteps, ServerMode and Validate fields as if
// each had been passed as its own Option (LogLevel and LogJSON are not
// applied here); later options still override it, matching
// append(defaultOptions, userOptions...) ordering.
func WithConfig(cfg *Config) Option {
	return func(t *Tracer) {
		if cfg == nil {
			return
		}
		t.maxSteps = cfg.MaxSteps
		t.serverMode = cfg.ServerMode
		t.validate = cfg.Validate
	}
}
