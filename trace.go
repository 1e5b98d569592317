package segalloc

import (
	"fmt"
	"os"
)

// trace.go gates the debug tracing sprinkled through the exported API,
// in the same spirit as the teacher package's compile-time trace flag:
// flip trace to true and rebuild to get a line on stderr for every
// Alloc, Free and Resize call (ZeroedAlloc and Calloc report through
// Alloc), and per-block output from CheckHeap(true). The Unsafe*
// methods are not traced. The allocator's hot path stays allocation-free when
// trace is false, since the compiler drops the dead branch entirely.
const trace = false

func tracef(format string, args ...interface{}) {
	if trace {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
