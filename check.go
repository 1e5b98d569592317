package segalloc

import "fmt"

// check.go implements the whole-heap consistency checker (spec §4.9): a
// single entry point that walks the heap from prologue to epilogue and
// walks each free list, verifying every invariant in spec §3. It never
// mutates state, and it reports the first violation it finds.

// CheckHeap walks the entire heap and every free list, verifying the
// invariants listed in spec.md §3. It returns nil if the heap is
// consistent, or an error describing the first violation found
// (wrapping ErrCorruptHeap). verbose additionally prints each block it
// visits via tracef, which prints only when the package's compile-time
// trace flag is true.
func (h *Heap) CheckHeap(verbose bool) error {
	if err := h.checkBlocks(verbose); err != nil {
		return err
	}
	return h.checkFreeLists(verbose)
}

func (h *Heap) checkBlocks(verbose bool) error {
	freeSeen := map[uintptr]bool{}
	bp := h.listp
	prevWasFree := false

	for {
		size := blockSize(bp)
		alloc := blockAlloc(bp)
		prevAlloc := blockPrevAlloc(bp)

		if verbose {
			tracef("block %#x size=%d alloc=%v prevAlloc=%v\n", bp, size, alloc, prevAlloc)
		}

		isEpilogue := bp != h.listp && size == 0
		if !isEpilogue {
			if size%dwordSize != 0 || size < minBlock {
				return corruptf("block %#x has size %d, not a multiple of %d >= %d", bp, size, dwordSize, minBlock)
			}
			if bp%dwordSize != 0 {
				return corruptf("payload %#x is not %d-byte aligned", bp, dwordSize)
			}
		}

		if bp != h.listp && prevAlloc != !prevWasFree {
			return corruptf("block %#x prev_alloc=%v disagrees with predecessor's alloc bit", bp, prevAlloc)
		}

		if !alloc && !isEpilogue {
			footer := loadWord(footerAddr(bp))
			if tagSize(footer) != size || tagAlloc(footer) {
				return corruptf("block %#x header/footer disagree: header size=%d alloc=%v, footer size=%d alloc=%v",
					bp, size, alloc, tagSize(footer), tagAlloc(footer))
			}
			if prevWasFree {
				return corruptf("block %#x is free and so is its predecessor", bp)
			}
			freeSeen[bp] = true
		}

		if isEpilogue {
			if !alloc {
				return corruptf("epilogue at %#x is not marked allocated", bp)
			}
			break
		}

		prevWasFree = !alloc
		bp = nextBlock(bp)
	}

	return h.checkListMembership(freeSeen)
}

func (h *Heap) checkListMembership(freeSeen map[uintptr]bool) error {
	for idx := 0; idx < h.opts.ListCount; idx++ {
		list := h.sentinel(idx)
		for bp := h.nextInList(list); bp != list; bp = h.nextInList(bp) {
			if !freeSeen[bp] {
				return corruptf("block %#x is on free list %d but is not a free block reachable from the heap walk", bp, idx)
			}
			delete(freeSeen, bp)
		}
	}
	for bp := range freeSeen {
		return corruptf("free block %#x is not on any free list", bp)
	}
	return nil
}

func (h *Heap) checkFreeLists(verbose bool) error {
	for idx := 0; idx < h.opts.ListCount; idx++ {
		list := h.sentinel(idx)
		for bp := h.nextInList(list); bp != list; bp = h.nextInList(bp) {
			if verbose {
				tracef("list %d node %#x\n", idx, bp)
			}
			if blockAlloc(bp) {
				return corruptf("block %#x on free list %d is marked allocated", bp, idx)
			}
			size := blockSize(bp)
			if h.listIndex(size) != idx {
				return corruptf("block %#x of size %d is on list %d, but belongs on list %d", bp, size, idx, h.listIndex(size))
			}
			if h.nextInList(h.prevInList(bp)) != bp {
				return corruptf("block %#x fails prev(next(x))==x", bp)
			}
			if h.prevInList(h.nextInList(bp)) != bp {
				return corruptf("block %#x fails next(prev(x))==x", bp)
			}
		}
	}
	return nil
}

func corruptf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrCorruptHeap}, args...)...)
}
