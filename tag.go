package segalloc

// tag.go implements the block tag codec (spec §4.1): packing and
// unpacking (size, prev_alloc, alloc) into a single 4-byte header/footer
// word. size is always a multiple of 8, so the low 3 bits are free for
// the two flag bits; bit 0 is alloc, bit 1 is prev_alloc.

// packTag encodes size, prevAlloc and alloc into a single header/footer
// word. size must already be a multiple of 8.
func packTag(size uint32, prevAlloc, alloc bool) uint32 {
	v := size
	if prevAlloc {
		v |= prevAllocBit
	}
	if alloc {
		v |= allocBit
	}
	return v
}

func tagSize(word uint32) uint32     { return word & sizeMask }
func tagPrevAlloc(word uint32) bool  { return word&prevAllocBit != 0 }
func tagAlloc(word uint32) bool      { return word&allocBit != 0 }

// headerAddr returns the address of the 4-byte header word for the block
// whose payload starts at bp.
func headerAddr(bp uintptr) uintptr { return bp - wordSize }

// blockSize reads the size field out of the header at bp's block.
func blockSize(bp uintptr) uint32 { return tagSize(loadWord(headerAddr(bp))) }

// blockAlloc reads the alloc bit out of the header at bp's block.
func blockAlloc(bp uintptr) bool { return tagAlloc(loadWord(headerAddr(bp))) }

// blockPrevAlloc reads the prev_alloc bit out of the header at bp's block.
func blockPrevAlloc(bp uintptr) bool { return tagPrevAlloc(loadWord(headerAddr(bp))) }

// setPrevAlloc sets the prev_alloc bit of bp's header without disturbing
// the size or alloc fields.
func setPrevAlloc(bp uintptr) {
	addr := headerAddr(bp)
	storeWord(addr, loadWord(addr)|prevAllocBit)
}

// setPrevFree clears the prev_alloc bit of bp's header without disturbing
// the size or alloc fields.
func setPrevFree(bp uintptr) {
	addr := headerAddr(bp)
	storeWord(addr, loadWord(addr)&^prevAllocBit)
}

// writeHeader overwrites bp's header word wholesale.
func writeHeader(bp uintptr, size uint32, prevAlloc, alloc bool) {
	storeWord(headerAddr(bp), packTag(size, prevAlloc, alloc))
}

// writeFooter overwrites the footer word of the block whose payload
// starts at bp. It resolves footerAddr itself, using the size currently
// in bp's header, so callers pass the payload address rather than the
// footer address.
func writeFooter(bp uintptr, size uint32, prevAlloc, alloc bool) {
	storeWord(footerAddr(bp), packTag(size, prevAlloc, alloc))
}
