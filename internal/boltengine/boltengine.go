// Package boltengine implements an alternative embedded transactional
// storage backend over go.etcd.io/bbolt, satisfying the same
// internal/engine.Engine contract as internal/kvengine but with a
// completely different on-disk format: a single bucket keyed by the
// record key, read or written inside its own transaction per operation.
package boltengine

import (
	stdErrors "errors"

	"github.com/ignitekv/ignitekv/internal/engine"
	"github.com/ignitekv/ignitekv/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// bucketName is the single bucket every key/value pair lives in,
// the Go analogue of redb.rs's single TableDefinition.
var bucketName = []byte("ignitekv")

// Engine is the bbolt-backed storage backend.
type Engine struct {
	db *bolt.DB
}

var _ engine.Engine = (*Engine)(nil)

// Open opens (creating if necessary) a bbolt database file at path and
// ensures the engine's bucket exists.
func Open(path string) (*Engine, error) {
	db, err := bolt.Open(path, 0644, nil)
	if err != nil {
		return nil, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to open bolt database").
			WithOperation("Open")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to create bucket").
			WithOperation("Open")
	}

	return &Engine{db: db}, nil
}

// Set stores value under key in a single write transaction.
func (e *Engine) Set(key, value string) error {
	err := e.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to commit set").
			WithKey(key).WithOperation("Set")
	}
	return nil
}

// Get returns the value for key and whether it was present.
func (e *Engine) Get(key string) (string, bool, error) {
	var value []byte
	err := e.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return "", false, errors.NewEngineError(err, errors.ErrorCodeIO, "failed to read key").
			WithKey(key).WithOperation("Get")
	}
	if value == nil {
		return "", false, nil
	}
	return string(value), true, nil
}

// Remove deletes key, failing with KeyNotFound if it is absent.
func (e *Engine) Remove(key string) error {
	err := e.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket.Get([]byte(key)) == nil {
			return errNotFound
		}
		return bucket.Delete([]byte(key))
	})
	if stdErrors.Is(err, errNotFound) {
		return errors.NewKeyNotFoundEngineError(key)
	}
	if err != nil {
		return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to commit remove").
			WithKey(key).WithOperation("Remove")
	}
	return nil
}

var errNotFound = stdErrors.New("key not found")

// Close releases the underlying bbolt database file.
func (e *Engine) Close() error {
	if err := e.db.Close(); err != nil {
		return errors.NewEngineError(err, errors.ErrorCodeIO, "failed to close bolt database").
			WithOperation("Close")
	}
	return nil
}
