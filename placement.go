package segalloc

// placement.go implements find_fit and place (spec §4.5): selecting a
// free block for a request and, when profitable, splitting it.

// bestFitNotFound is the unsigned sentinel used while tracking the
// smallest qualifying block during a best-fit scan. The original C
// driver used a signed 1<<31 "infinity"; spec.md §9 flags that as a bug
// in spirit and asks for a genuinely unsigned sentinel instead.
const bestFitNotFound = ^uint32(0)

// findFit scans the free lists for a block able to hold asize bytes.
// Classes at or below the configured fit threshold are scanned first
// fit; classes above it are scanned best fit across every remaining
// list. It returns 0 if no block qualifies.
func (h *Heap) findFit(asize uint32) uintptr {
	start := h.listIndex(asize)
	if start <= h.opts.FitThreshold {
		return h.findFirstFit(start, asize)
	}
	return h.findBestFit(start, asize)
}

func (h *Heap) findFirstFit(start int, asize uint32) uintptr {
	for idx := start; idx < h.opts.ListCount; idx++ {
		list := h.sentinel(idx)
		for bp := h.nextInList(list); bp != list; bp = h.nextInList(bp) {
			if asize <= blockSize(bp) {
				return bp
			}
		}
	}
	return 0
}

func (h *Heap) findBestFit(start int, asize uint32) uintptr {
	var best uintptr
	bestSize := bestFitNotFound
	for idx := start; idx < h.opts.ListCount; idx++ {
		list := h.sentinel(idx)
		for bp := h.nextInList(list); bp != list; bp = h.nextInList(bp) {
			size := blockSize(bp)
			if asize <= size && (best == 0 || size < bestSize) {
				best = bp
				bestSize = size
			}
		}
	}
	return best
}

// place carves asize bytes of allocated space out of the free block bp,
// splitting off the remainder as a new free block when it is large
// enough to stand on its own (spec's minimum block size, 16 bytes).
func (h *Heap) place(bp uintptr, asize uint32) {
	csize := blockSize(bp)
	prevAlloc := blockPrevAlloc(bp)
	h.deleteNode(bp)

	remainder := csize - asize
	if remainder >= minBlock {
		writeHeader(bp, asize, prevAlloc, true)

		free := nextBlock(bp)
		writeHeader(free, remainder, true, false)
		writeFooter(free, remainder, false, false)
		h.insertNode(free, h.listIndex(remainder))
		return
	}

	writeHeader(bp, csize, prevAlloc, true)
	setPrevAlloc(nextBlock(bp))
}
