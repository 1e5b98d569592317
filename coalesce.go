package segalloc

// coalesce.go implements coalescing (spec §4.6): merging a newly-freed
// block with whichever of its physical neighbors are also free, so that
// invariant 5 (no two adjacent free blocks) holds after every free.
//
// coalesce assumes bp's own header and footer have already been written
// with alloc=0. It returns the payload address of the resulting block,
// which may be bp itself, its predecessor, or (after a three-way merge)
// its predecessor again with an extended size.

func (h *Heap) coalesce(bp uintptr) uintptr {
	prevAlloc := blockPrevAlloc(bp)
	next := nextBlock(bp)
	nextAlloc := blockAlloc(next)
	size := blockSize(bp)

	switch {
	case prevAlloc && nextAlloc:
		setPrevFree(next)

	case prevAlloc && !nextAlloc:
		size += blockSize(next)
		h.deleteNode(next)
		writeHeader(bp, size, prevAlloc, false)
		writeFooter(bp, size, false, false)

	case !prevAlloc && nextAlloc:
		prev := prevBlock(bp)
		size += blockSize(prev)
		prevPrevAlloc := blockPrevAlloc(prev)
		h.deleteNode(prev)

		writeFooter(bp, size, false, false)
		bp = prev
		writeHeader(bp, size, prevPrevAlloc, false)
		setPrevFree(nextBlock(bp))

	default: // !prevAlloc && !nextAlloc
		prev := prevBlock(bp)
		size += blockSize(prev) + blockSize(next)
		prevPrevAlloc := blockPrevAlloc(prev)
		h.deleteNode(next)
		h.deleteNode(prev)

		writeHeader(prev, size, prevPrevAlloc, false)
		writeFooter(next, size, false, false)
		bp = prev
	}

	h.insertNode(bp, h.listIndex(size))
	return bp
}
