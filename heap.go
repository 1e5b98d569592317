package segalloc

import "fmt"

// heap.go lays out the prologue/epilogue (spec §6 Persistent state
// layout) and implements heap extension (spec §4.7).

// init lays down the initial heap: a 4-byte alignment pad, a prologue
// block whose body carries the free-list sentinels, and an epilogue
// header, then seeds the heap with InitialChunks*ChunkSize bytes of
// usable free space.
func (h *Heap) init() error {
	prologueSize := uint32((2*h.opts.ListCount + 2) * wordSize)
	total := int(prologueSize) + dwordSize

	base, err := h.layer.Grow(total)
	if err != nil {
		return fmt.Errorf("segalloc: initial heap request failed: %w", err)
	}
	h.base = uintptr(base)

	storeWord(h.base, packTag(0, false, false)) // alignment pad
	writeHeader(h.base+dwordSize, prologueSize, true, true)
	h.listp = h.base + dwordSize

	for i := 0; i < h.opts.ListCount; i++ {
		// h.listp sits one dwordSize past h.base, so sentinel i's offset
		// from h.base (what the self-link must store) is (i+1)*dwordSize
		// even though sentinel(i) itself is h.listp+i*dwordSize.
		sentinelOff := uint32((i + 1) * dwordSize)
		sp := h.sentinel(i)
		storeWord(nextLinkAddr(sp), sentinelOff)
		storeWord(prevLinkAddr(sp), sentinelOff)
	}

	writeFooter(h.listp, prologueSize, true, true)
	writeHeader(nextBlock(h.listp), 0, true, true) // epilogue header

	seed := h.opts.ChunkSize * h.opts.InitialChunks
	if seed <= 0 {
		return nil
	}
	if _, err := h.extendHeap(seed); err != nil {
		return fmt.Errorf("segalloc: initial heap seed failed: %w", err)
	}
	return nil
}

// extendHeap asks the memory layer for at least minBytes more space,
// rounds that up to a multiple of 8, reinterprets the new region as a
// single free block (replacing what used to be the epilogue header),
// installs a fresh epilogue, and coalesces with the previous block if it
// was free. It returns the payload address of the resulting block.
func (h *Heap) extendHeap(minBytes int) (uintptr, error) {
	if minBytes <= 0 {
		return 0, fmt.Errorf("%w: extendHeap requires a positive size", ErrInvalidArgument)
	}
	nbytes := roundup(minBytes, dwordSize)
	p, err := h.layer.Grow(nbytes)
	if err != nil {
		return 0, fmt.Errorf("%w: requested %d bytes", ErrOutOfMemory, nbytes)
	}
	bp := uintptr(p)

	prevAlloc := blockPrevAlloc(bp) // carried over from the old epilogue word
	writeHeader(bp, uint32(nbytes), prevAlloc, false)
	writeFooter(bp, uint32(nbytes), false, false)
	writeHeader(nextBlock(bp), 0, false, true) // fresh epilogue

	h.extensions++
	h.bytesRequested += nbytes
	return h.coalesce(bp), nil
}
