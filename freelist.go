package segalloc

// freelist.go implements the free-list directory and list operations
// (spec §4.4): a fixed number of circular, doubly-linked free lists
// whose sentinels live inside the prologue block, and insert/delete
// operations over them.
//
// A free block's payload is overlaid with its list links: the first
// word holds the offset (from the heap base) of the next node, the
// second word holds the offset of the previous node. Sentinels are
// addressed the same way, so the same get/put helpers work for both
// real blocks and sentinels.

// sentinel returns the address of list index's sentinel node, which
// lives inside the prologue body.
func (h *Heap) sentinel(index int) uintptr {
	return h.listp + uintptr(index*dwordSize)
}

func nextLinkAddr(bp uintptr) uintptr { return bp }
func prevLinkAddr(bp uintptr) uintptr { return bp + wordSize }

func (h *Heap) offsetOf(addr uintptr) uint32 { return uint32(addr - h.base) }
func (h *Heap) addrOf(off uint32) uintptr    { return h.base + uintptr(off) }

// nextInList returns the node following bp on whichever free list bp is
// threaded through.
func (h *Heap) nextInList(bp uintptr) uintptr {
	return h.addrOf(loadWord(nextLinkAddr(bp)))
}

// prevInList returns the node preceding bp on whichever free list bp is
// threaded through.
func (h *Heap) prevInList(bp uintptr) uintptr {
	return h.addrOf(loadWord(prevLinkAddr(bp)))
}

// insertNode pushes bp onto the head of free list index (LIFO), just
// after the sentinel.
func (h *Heap) insertNode(bp uintptr, index int) {
	list := h.sentinel(index)
	storeWord(nextLinkAddr(bp), loadWord(nextLinkAddr(list)))
	storeWord(prevLinkAddr(bp), loadWord(prevLinkAddr(h.nextInList(bp))))
	storeWord(nextLinkAddr(list), h.offsetOf(bp))
	storeWord(prevLinkAddr(h.nextInList(bp)), h.offsetOf(bp))
}

// deleteNode unlinks bp from whichever free list it is currently on. The
// caller does not need to know the list index; the links carry enough
// information on their own.
func (h *Heap) deleteNode(bp uintptr) {
	storeWord(prevLinkAddr(h.nextInList(bp)), loadWord(prevLinkAddr(bp)))
	storeWord(nextLinkAddr(h.prevInList(bp)), loadWord(nextLinkAddr(bp)))
}
