package segalloc

import "errors"

// errors.go enumerates the error kinds the core can produce (spec §7).
// InvalidArgument-shaped no-ops (size 0 to Alloc, nil to Free) are not
// errors and do not appear here; they're handled as plain no-ops at the
// call site.

var (
	// ErrOutOfMemory is returned when the memory layer refuses to grow
	// the heap any further. Heap state is left unmodified.
	ErrOutOfMemory = errors.New("segalloc: out of memory")

	// ErrInvalidArgument is returned for malformed requests the core
	// can detect cheaply, such as a negative size or an overflowing
	// ZeroedAlloc(count, size) product.
	ErrInvalidArgument = errors.New("segalloc: invalid argument")

	// ErrCorruptHeap is returned by CheckHeap when a heap invariant
	// does not hold.
	ErrCorruptHeap = errors.New("segalloc: corrupt heap")
)
