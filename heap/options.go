package heap

import "log/slog"

const (
	// DefaultArenaSize is the arena size used by heapctl when none is given.
	DefaultArenaSize = 64 << 10

	// DefaultJunkByte is the sentinel stamped into fresh payloads.
	DefaultJunkByte byte = 0x05
)

// Options controls heap behavior. Start from DefaultOptions; the zero value
// disables junk fill.
type Options struct {
	// JunkFill stamps every freshly allocated payload with JunkByte so reads
	// of uninitialized memory stand out.
	// Default: true (false when built with -tags heapnojunk)
	JunkFill bool

	// JunkByte is the byte JunkFill writes.
	// Default: 0x05
	JunkByte byte

	// Logger receives allocator events at debug level and rejected frees at
	// warn level.
	// Default: logger.L, or a stderr debug logger when HEAP_LOG_ALLOC is set
	Logger *slog.Logger
}

// DefaultOptions returns the build's default options.
func DefaultOptions() Options {
	return Options{
		JunkFill: defaultJunkFill,
		JunkByte: DefaultJunkByte,
	}
}
