// Package ignitekv is the embedded public API for the storage engine:
// open a directory, Set/Get/Delete keys, Close when done. It's the
// thin, stable surface cmd/ignitekv and any future embedder import
// instead of reaching into internal/kvengine directly.
package ignitekv

import (
	"github.com/ignitekv/ignitekv/internal/engine"
	"github.com/ignitekv/ignitekv/internal/kvengine"
	"github.com/ignitekv/ignitekv/pkg/errors"
	"github.com/ignitekv/ignitekv/pkg/logger"
	"github.com/ignitekv/ignitekv/pkg/options"
)

// Instance is the primary entry point for embedding ignitekv directly
// in a Go process, without going through the network server.
type Instance struct {
	engine  engine.Engine
	options *options.Options
}

// Open creates or recovers an Instance backed by the primary
// log-structured engine at the configured data directory.
func Open(service string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	resolved := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&resolved)
	}

	eng, err := kvengine.Open(&kvengine.Config{Logger: log, Options: &resolved})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &resolved}, nil
}

// Set stores key → value, overwriting any existing value.
func (i *Instance) Set(key, value string) error {
	return i.engine.Set(key, value)
}

// Get retrieves the value for key. The second return value is false if
// key has no value; that is not an error.
func (i *Instance) Get(key string) (string, bool, error) {
	return i.engine.Get(key)
}

// Delete removes key. It returns a KeyNotFound error (pkg/errors) if
// key had no value.
func (i *Instance) Delete(key string) error {
	return i.engine.Remove(key)
}

// Close flushes and releases all resources held by the instance.
func (i *Instance) Close() error {
	return i.engine.Close()
}

// IsKeyNotFound reports whether err is the KeyNotFound error Delete
// returns for an absent key.
func IsKeyNotFound(err error) bool {
	ee, ok := errors.AsEngineError(err)
	return ok && ee.Code() == errors.ErrorCodeKeyNotFound
}
