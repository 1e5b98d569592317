package segalloc

import "fmt"

// Heap is a boundary-tag, segregated-fit allocator over a single
// memory-layer-backed region. Unlike the teacher package's Allocator,
// whose zero value is ready to use, a Heap must be constructed with New
// because the free-list directory and prologue/epilogue layout need a
// backing MemoryLayer to be laid down into.
//
// A Heap is not safe for concurrent use.
type Heap struct {
	layer  MemoryLayer
	opts   Options
	bounds []uint32

	base  uintptr // fixed base address of the heap region
	listp uintptr // payload address of the prologue block

	liveBlocks     int
	bytesRequested int
	extensions     int
}

// New constructs a Heap, laying down its prologue/epilogue and seeding
// it with the configured initial free space. It fails if the options are
// invalid, if the default MemoryLayer cannot be constructed, or if the
// MemoryLayer refuses the initial request.
func New(opts ...Option) (*Heap, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o.Layer == nil {
		layer, err := newSliceLayer(o.MaxHeapBytes)
		if err != nil {
			return nil, err
		}
		o.Layer = layer
	}

	h := &Heap{
		layer:  o.Layer,
		opts:   o,
		bounds: classBounds(o.ListCount),
	}
	if err := h.init(); err != nil {
		return nil, err
	}
	if trace {
		fmt.Printf("segalloc: New() listCount=%d threshold=%d chunk=%d\n", o.ListCount, o.FitThreshold, o.ChunkSize)
	}
	return h, nil
}

// Close releases any OS resources held by the Heap's memory layer and
// leaves the Heap unusable.
func (h *Heap) Close() error {
	return h.layer.Close()
}

// Stats reports the allocator's running counters: the number of blocks
// currently allocated to the user, the number of bytes ever requested
// from the memory layer, and the number of heap extensions performed.
func (h *Heap) Stats() (liveBlocks, bytesRequested, extensions int) {
	return h.liveBlocks, h.bytesRequested, h.extensions
}

// alignedSize computes the block size to request for a size-byte user
// payload: the minimum block size for small requests, otherwise size
// rounded up to fit an extra header word and align to 8 bytes.
func alignedSize(size int) uint32 {
	if size <= dwordSize+wordSize {
		return 2 * dwordSize
	}
	return uint32(roundup(size+wordSize, dwordSize))
}
