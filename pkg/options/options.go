// Package options provides data structures and functions for configuring
// the ignitekv storage engine. It defines the parameters that control
// where segment files live, when compaction kicks in, and what address
// the network server listens on.
package options

import (
	"strings"
	"time"
)

// Options defines the configuration parameters for an ignitekv engine.
type Options struct {
	// Specifies the directory holding this engine's segment files.
	//
	// Default: "./ignitekv-data"
	DataDir string `json:"dataDir"`

	// CompactThreshold is the number of uncompacted bytes that triggers
	// an inline compaction from Set or Remove.
	//
	// Default: 1,000,000
	CompactThreshold uint64 `json:"compactThreshold"`

	// CompactInterval, when non-zero, runs compaction on a ticker in
	// addition to the threshold check, as a background safety net for
	// workloads that never cross the byte threshold but still accumulate
	// many small overwrites. Zero disables the ticker.
	//
	// Default: 0 (disabled)
	CompactInterval time.Duration `json:"compactInterval"`

	// Addr is the "IP:PORT" the network server listens on.
	//
	// Default: "127.0.0.1:7878"
	Addr string `json:"addr"`
}

// OptionFunc is a function type that modifies the engine's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions resets every field to its default value.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithDataDir sets the directory the engine stores its segment files in.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithCompactThreshold overrides the uncompacted-byte threshold that
// triggers inline compaction.
func WithCompactThreshold(threshold uint64) OptionFunc {
	return func(o *Options) {
		if threshold > 0 {
			o.CompactThreshold = threshold
		}
	}
}

// WithCompactInterval enables the background compaction ticker.
func WithCompactInterval(interval time.Duration) OptionFunc {
	return func(o *Options) {
		if interval > 0 {
			o.CompactInterval = interval
		}
	}
}

// WithAddr sets the network server's listen address.
func WithAddr(addr string) OptionFunc {
	return func(o *Options) {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			o.Addr = addr
		}
	}
}
