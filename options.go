package segalloc

import "fmt"

// options.go carries the construction-time tuning knobs (spec §9 "hybrid
// fit policy", "initial extend_heap multiplier") as functional options,
// defaulting to the reference implementation's constants.

// Options configures a Heap at construction time. The zero Options is
// not valid on its own; use defaultOptions (via New) to get sane
// defaults and override individual fields with the With* functions.
type Options struct {
	// ListCount is the number of segregated free lists (LIST_NUM in the
	// reference). Must be >= 2.
	ListCount int
	// FitThreshold is the highest list index still searched first-fit;
	// classes above it are searched best-fit (LIST_TRSH in the
	// reference).
	FitThreshold int
	// ChunkSize is the minimum number of bytes requested whenever the
	// heap must be extended to satisfy an allocation (CHUNKSIZE in the
	// reference).
	ChunkSize int
	// InitialChunks is the number of ChunkSize-sized chunks requested
	// once, up front, when the Heap is constructed.
	InitialChunks int
	// MaxHeapBytes bounds the default slice-backed MemoryLayer's
	// capacity. Ignored when Layer is set explicitly.
	MaxHeapBytes int
	// Layer supplies the memory region the Heap grows into. If nil, New
	// constructs a portable slice-backed layer sized MaxHeapBytes.
	Layer MemoryLayer
}

// Option mutates an Options value during construction.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		ListCount:     10,
		FitThreshold:  2,
		ChunkSize:     1 << 12,
		InitialChunks: 8,
		MaxHeapBytes:  1 << 30,
	}
}

func (o Options) validate() error {
	if o.ListCount < 2 {
		return fmt.Errorf("%w: ListCount must be >= 2, got %d", ErrInvalidArgument, o.ListCount)
	}
	if o.FitThreshold < 0 || o.FitThreshold >= o.ListCount {
		return fmt.Errorf("%w: FitThreshold must be in [0, ListCount), got %d", ErrInvalidArgument, o.FitThreshold)
	}
	if o.ChunkSize < minBlock {
		return fmt.Errorf("%w: ChunkSize must be >= %d, got %d", ErrInvalidArgument, minBlock, o.ChunkSize)
	}
	if o.InitialChunks < 0 {
		return fmt.Errorf("%w: InitialChunks must be >= 0, got %d", ErrInvalidArgument, o.InitialChunks)
	}
	return nil
}

// WithListCount overrides the number of segregated free lists.
func WithListCount(n int) Option { return func(o *Options) { o.ListCount = n } }

// WithFitThreshold overrides the first-fit/best-fit boundary.
func WithFitThreshold(n int) Option { return func(o *Options) { o.FitThreshold = n } }

// WithChunkSize overrides the minimum heap-extension size.
func WithChunkSize(n int) Option { return func(o *Options) { o.ChunkSize = n } }

// WithInitialChunks overrides how many ChunkSize chunks are seeded at
// construction time.
func WithInitialChunks(n int) Option { return func(o *Options) { o.InitialChunks = n } }

// WithMaxHeapBytes overrides the default slice-backed layer's capacity.
// Has no effect if WithMemoryLayer is also supplied.
func WithMaxHeapBytes(n int) Option { return func(o *Options) { o.MaxHeapBytes = n } }

// WithMemoryLayer supplies a custom MemoryLayer, e.g. the mmap-backed
// one, in place of the default portable slice-backed implementation.
func WithMemoryLayer(l MemoryLayer) Option { return func(o *Options) { o.Layer = l } }
