package options

const (
	// DefaultDataDir is where the engine stores its segment files if no
	// other directory is specified.
	DefaultDataDir = "./ignitekv-data"

	// DefaultCompactThreshold is the number of uncompacted bytes that
	// accumulate before Set and Remove trigger a compaction before
	// returning.
	DefaultCompactThreshold uint64 = 1_000_000

	// DefaultCompactInterval is 0: the background compaction ticker is
	// disabled by default, leaving the threshold check as the sole
	// trigger.
	DefaultCompactInterval = 0

	// DefaultAddr is the network server's default listen address.
	DefaultAddr = "127.0.0.1:7878"
)

// defaultOptions holds the default configuration for an ignitekv engine.
var defaultOptions = Options{
	DataDir:          DefaultDataDir,
	CompactThreshold: DefaultCompactThreshold,
	CompactInterval:  DefaultCompactInterval,
	Addr:             DefaultAddr,
}

// NewDefaultOptions returns a copy of the default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
