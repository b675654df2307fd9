// Package logger builds the zap loggers used throughout ignitekv. Every
// subsystem receives a *zap.SugaredLogger through its Config struct rather
// than reaching for a package-level global, so tests can inject an
// observer logger and production code can swap encoders without touching
// callers.
package logger

import "go.uber.org/zap"

// New builds a production-grade SugaredLogger tagged with the given
// service name. It panics if zap's own production config fails to build,
// which only happens when the process's stderr/stdout cannot be opened.
func New(service string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return base.Named(service).Sugar()
}

// NewDevelopment builds a human-readable, non-sampled logger suited to
// local runs and tests.
func NewDevelopment(service string) *zap.SugaredLogger {
	base, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return base.Named(service).Sugar()
}

// Noop returns a logger that discards everything, for tests that don't
// care about log output but still need to satisfy a Config's Logger field.
func Noop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
