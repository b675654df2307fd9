// Package engine defines the storage-engine contract every backend
// (the Bitcask-style log engine, the bbolt-backed alternative) must
// satisfy, plus the engine-selection sidecar file that stops a server
// from opening a data directory with the wrong backend.
package engine

// Engine is the storage contract the network server and the embedded
// API both depend on. Exactly two implementations exist: kvengine.Engine
// (the primary log-structured engine) and boltengine.Engine (the
// alternative transactional backend).
type Engine interface {
	// Set stores value under key, overwriting any existing value.
	Set(key, value string) error

	// Get returns the value stored under key and true, or ("", false, nil)
	// if key has no value. A missing key is not an error.
	Get(key string) (value string, found bool, err error)

	// Remove deletes key. It returns a KeyNotFound error if key has no
	// value.
	Remove(key string) error

	// Close flushes and releases all resources held by the engine. The
	// engine must not be used afterward.
	Close() error
}
