package segalloc

import (
	"testing"
	"unsafe"
)

// mustTestHeap builds a small Heap suitable for unit tests that don't
// need a large backing region.
func mustTestHeap(t *testing.T, opts ...Option) *Heap {
	t.Helper()
	o := append([]Option{WithMaxHeapBytes(4 << 20)}, opts...)
	h, err := New(o...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

// testutil_test.go provides small helpers shared by the unit tests
// below, letting them exercise the block-level helpers (tag, nav,
// freelist) directly against a plain Go byte buffer instead of a full
// Heap when a test only cares about one layer of the format.

// headerBP returns the payload address (bp) that sits wordSize bytes
// into buf, so buf[0:4] is addressable as that block's header.
func headerBP(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(&buf[0])) + wordSize
}
