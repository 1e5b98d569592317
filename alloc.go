package segalloc

import (
	"fmt"
	"os"
	"reflect"
	"unsafe"

	"modernc.org/mathutil"
)

// alloc.go implements the user-facing API (spec §4.8): Alloc, Free,
// Resize and ZeroedAlloc, plus Unsafe* pointer twins mirroring the
// teacher package's dual []byte/unsafe.Pointer surface.

// Alloc returns a newly allocated, 8-byte-aligned []byte of length n.
// Alloc(0) returns (nil, nil), matching the C convention that malloc(0)
// is a contractual no-op rather than an error.
func (h *Heap) Alloc(n int) (r []byte, err error) {
	if trace {
		defer func() {
			var p *byte
			if len(r) != 0 {
				p = &r[0]
			}
			fmt.Fprintf(os.Stderr, "Alloc(%#x) %p, %v\n", n, p, err)
		}()
	}
	p, usable, err := h.allocRaw(n)
	if p == 0 || err != nil {
		return nil, err
	}
	return sliceFrom(p, n, usable), nil
}

// Calloc is ZeroedAlloc(1, n): a zero-initialized allocation of n bytes.
func (h *Heap) Calloc(n int) ([]byte, error) { return h.ZeroedAlloc(1, n) }

// ZeroedAlloc allocates room for count*size bytes and zeroes them. It
// returns ErrInvalidArgument if the product overflows (spec §9 leaves
// this unspecified upstream; this implementation chooses to detect it
// rather than silently wrap).
func (h *Heap) ZeroedAlloc(count, size int) ([]byte, error) {
	if count < 0 || size < 0 {
		return nil, fmt.Errorf("%w: negative count or size", ErrInvalidArgument)
	}
	if count != 0 && size > (1<<62)/count {
		return nil, fmt.Errorf("%w: count*size overflows", ErrInvalidArgument)
	}
	b, err := h.Alloc(count * size)
	if err != nil || b == nil {
		return b, err
	}
	for i := range b {
		b[i] = 0
	}
	return b, nil
}

// Free releases the block backing b, which must have come from Alloc,
// Calloc, ZeroedAlloc or Resize on this Heap. Freeing a nil/empty slice
// is a no-op. Double-free and foreign-pointer free are undefined
// behavior (spec §7); the core does not attempt to detect them.
func (h *Heap) Free(b []byte) (err error) {
	if trace {
		defer func() {
			var p *byte
			if len(b) != 0 {
				p = &b[0]
			}
			fmt.Fprintf(os.Stderr, "Free(%p) %v\n", p, err)
		}()
	}
	b = b[:cap(b)]
	if len(b) == 0 {
		return nil
	}
	h.freeRaw(uintptr(unsafe.Pointer(&b[0])))
	return nil
}

// Resize changes the size of the block backing b to n bytes, preserving
// the overlapping prefix of its contents. A nil b behaves like Alloc(n);
// n == 0 behaves like Free(b) and returns (nil, nil). When the block
// cannot grow in place, the data is copied into a fresh block and b's
// old backing block is freed; the old slice must not be used afterward.
func (h *Heap) Resize(b []byte, n int) (r []byte, err error) {
	if trace {
		defer func() {
			var p *byte
			if len(r) != 0 {
				p = &r[0]
			}
			fmt.Fprintf(os.Stderr, "Resize(%#x) %p, %v\n", n, p, err)
		}()
	}
	b = b[:cap(b)]
	switch {
	case len(b) == 0:
		return h.Alloc(n)
	case n == 0:
		return nil, h.Free(b)
	}

	bp := uintptr(unsafe.Pointer(&b[0]))
	newBp, usable, grew, err := h.resizeRaw(bp, n)
	if err != nil {
		return nil, err
	}
	if grew {
		return sliceFrom(newBp, n, usable), nil
	}

	newB, err := h.Alloc(n)
	if err != nil {
		return nil, err
	}
	copy(newB, b)
	if err := h.Free(b); err != nil {
		return nil, err
	}
	return newB, nil
}

// UsableSize reports the number of bytes actually available in the
// block backing p, which is always >= the size originally requested.
func (h *Heap) UsableSize(p []byte) int {
	if len(p) == 0 {
		return 0
	}
	return int(blockSize(uintptr(unsafe.Pointer(&p[0])))) - wordSize
}

// sliceFrom builds a []byte view of length n, capacity usable, over the
// payload starting at bp, the same reflect.SliceHeader trick the
// teacher package uses to hand back raw heap memory as a slice.
func sliceFrom(bp uintptr, n, usable int) []byte {
	var b []byte
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	sh.Data = bp
	sh.Len = n
	sh.Cap = usable
	return b
}

// allocRaw is the pointer-level core shared by Alloc and UnsafeAlloc. It
// returns the payload address (0 on failure), the usable payload
// capacity of the block it landed in, and an error.
func (h *Heap) allocRaw(n int) (bp uintptr, usable int, err error) {
	if n < 0 {
		return 0, 0, fmt.Errorf("%w: negative size", ErrInvalidArgument)
	}
	if n == 0 {
		return 0, 0, nil
	}

	asize := alignedSize(n)
	if bp := h.findFit(asize); bp != 0 {
		h.place(bp, asize)
		h.liveBlocks++
		return bp, int(blockSize(bp)) - wordSize, nil
	}

	extendSize := growRoundup(maxInt(int(asize), h.opts.ChunkSize))
	bp, err = h.extendHeap(extendSize)
	if err != nil {
		return 0, 0, err
	}
	h.place(bp, asize)
	h.liveBlocks++
	return bp, int(blockSize(bp)) - wordSize, nil
}

// growRoundup rounds n up to the next power of two, the same BitLen
// trick the teacher package uses (memory.go's log := BitLen(roundup(size,
// mallocAllign)-1) slot-class lookup) to decide how big a jump to take.
// Applied to heap-extension requests, it keeps the tail of the region
// from accreting a long run of oddly-sized chunks under a workload of
// ever-larger allocations.
func growRoundup(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << uint(mathutil.BitLen(n-1))
}

func (h *Heap) freeRaw(bp uintptr) {
	size := blockSize(bp)
	prevAlloc := blockPrevAlloc(bp)
	writeHeader(bp, size, prevAlloc, false)
	writeFooter(bp, size, false, false)
	h.coalesce(bp)
	h.liveBlocks--
}

// resizeRaw implements the grow-in-place half of resize (spec §4.8): it
// reports grew=false when the caller must fall back to alloc+copy+free.
func (h *Heap) resizeRaw(bp uintptr, n int) (newBp uintptr, usable int, grew bool, err error) {
	oldSize := blockSize(bp)
	prevAlloc := blockPrevAlloc(bp)
	asize := alignedSize(n)

	if asize <= oldSize {
		return bp, int(oldSize) - wordSize, true, nil
	}

	next := nextBlock(bp)
	if blockAlloc(next) {
		return 0, 0, false, nil
	}

	total := oldSize + blockSize(next)
	if total < asize {
		return 0, 0, false, nil
	}

	h.deleteNode(next)
	if total-asize >= minBlock {
		writeHeader(bp, asize, prevAlloc, true)
		tail := nextBlock(bp)
		writeHeader(tail, total-asize, true, false)
		writeFooter(tail, total-asize, false, false)
		setPrevFree(nextBlock(tail))
		h.insertNode(tail, h.listIndex(total-asize))
	} else {
		writeHeader(bp, total, prevAlloc, true)
		setPrevAlloc(nextBlock(bp))
	}
	return bp, int(blockSize(bp)) - wordSize, true, nil
}
