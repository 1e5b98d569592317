package segalloc

import (
	"fmt"
	"unsafe"
)

// unsafe_alloc.go mirrors alloc.go's safe []byte API with an
// unsafe.Pointer-based surface, the same duality the teacher package
// offers (Malloc/Calloc/Realloc/Free alongside UnsafeMalloc/
// UnsafeCalloc/UnsafeRealloc/UnsafeFree). Useful when the caller already
// manages bounds itself and wants to skip the slice header indirection.

// UnsafeAlloc is like Alloc but returns an unsafe.Pointer and does not
// track a length, only the block's capacity.
func (h *Heap) UnsafeAlloc(n int) (unsafe.Pointer, error) {
	bp, _, err := h.allocRaw(n)
	if bp == 0 || err != nil {
		return nil, err
	}
	return unsafe.Pointer(bp), nil
}

// UnsafeZeroedAlloc is like ZeroedAlloc but returns an unsafe.Pointer.
func (h *Heap) UnsafeZeroedAlloc(count, size int) (unsafe.Pointer, error) {
	if count < 0 || size < 0 {
		return nil, fmt.Errorf("%w: negative count or size", ErrInvalidArgument)
	}
	if count != 0 && size > (1<<62)/count {
		return nil, fmt.Errorf("%w: count*size overflows", ErrInvalidArgument)
	}
	n := count * size
	p, err := h.UnsafeAlloc(n)
	if p == nil || err != nil {
		return p, err
	}
	zero(p, n)
	return p, nil
}

// UnsafeFree is like Free but takes an unsafe.Pointer previously
// returned by UnsafeAlloc, UnsafeZeroedAlloc or UnsafeResize.
func (h *Heap) UnsafeFree(p unsafe.Pointer) error {
	if p == nil {
		return nil
	}
	h.freeRaw(uintptr(p))
	return nil
}

// UnsafeResize is like Resize but operates on unsafe.Pointer values.
func (h *Heap) UnsafeResize(p unsafe.Pointer, n int) (unsafe.Pointer, error) {
	switch {
	case p == nil:
		return h.UnsafeAlloc(n)
	case n == 0:
		return nil, h.UnsafeFree(p)
	}

	bp := uintptr(p)
	oldUsable := int(blockSize(bp)) - wordSize
	newBp, _, grew, err := h.resizeRaw(bp, n)
	if err != nil {
		return nil, err
	}
	if grew {
		return unsafe.Pointer(newBp), nil
	}

	newP, err := h.UnsafeAlloc(n)
	if err != nil {
		return nil, err
	}
	copySize := minInt(oldUsable, n)
	copyBytes(newP, p, copySize)
	if err := h.UnsafeFree(p); err != nil {
		return nil, err
	}
	return newP, nil
}

// UnsafeUsableSize reports the usable payload size of the block at p.
func (h *Heap) UnsafeUsableSize(p unsafe.Pointer) int {
	if p == nil {
		return 0
	}
	return int(blockSize(uintptr(p))) - wordSize
}

func zero(p unsafe.Pointer, n int) {
	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		b[i] = 0
	}
}

func copyBytes(dst, src unsafe.Pointer, n int) {
	copy(unsafe.Slice((*byte)(dst), n), unsafe.Slice((*byte)(src), n))
}

