package segalloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// coalesce_test.go exercises each of the four merge cases in
// coalesce.go individually, by allocating three adjacent blocks and
// freeing the middle one in each of the four possible neighbor states.

func threeAdjacent(t *testing.T, h *Heap) (a, b, c []byte) {
	t.Helper()
	var err error
	a, err = h.Alloc(32)
	require.NoError(t, err)
	b, err = h.Alloc(32)
	require.NoError(t, err)
	c, err = h.Alloc(32)
	require.NoError(t, err)
	return a, b, c
}

// Case 1: both neighbors allocated. Freeing b should leave it standing
// alone, with prev_alloc propagated onto c.
func TestCoalesceAllocAlloc(t *testing.T) {
	h := mustTestHeap(t)
	a, b, c := threeAdjacent(t, h)
	_ = a
	require.NoError(t, h.Free(b))

	bp := payloadAddr(b)
	require.False(t, blockAlloc(bp))
	require.False(t, blockPrevAlloc(payloadAddr(c)))
	require.NoError(t, h.CheckHeap(false))
}

// Case 2: predecessor allocated, successor free. Freeing b should merge
// it with c into one free block starting at b. c is itself followed by
// the free remainder of the initial chunk, so freeing c first already
// merged that remainder into c.
func TestCoalesceAllocFree(t *testing.T) {
	h := mustTestHeap(t)
	a, b, c := threeAdjacent(t, h)
	_ = a
	tailSize := blockSize(nextBlock(payloadAddr(c)))
	require.NoError(t, h.Free(c))
	require.NoError(t, h.Free(b))

	free := freeBlockAddrs(h)
	require.Len(t, free, 1)
	require.Equal(t, payloadAddr(b), free[0])
	require.Equal(t, blockSize(free[0]), alignedSize(32)+alignedSize(32)+tailSize)
	require.NoError(t, h.CheckHeap(false))
}

// Case 3: predecessor free, successor allocated. Freeing b should merge
// it with a, with the resulting block keyed at a's address. The free
// remainder of the initial chunk after c stays a separate free block.
func TestCoalesceFreeAlloc(t *testing.T) {
	h := mustTestHeap(t)
	a, b, c := threeAdjacent(t, h)
	_ = c
	require.NoError(t, h.Free(a))
	require.NoError(t, h.Free(b))

	free := freeBlockAddrs(h)
	require.Len(t, free, 2)
	require.Equal(t, payloadAddr(a), free[0])
	require.NoError(t, h.CheckHeap(false))
}

// Case 4: both neighbors free. Freeing b should merge all three into one
// block keyed at a's address. c has already absorbed the free remainder
// of the initial chunk that follows it.
func TestCoalesceFreeFree(t *testing.T) {
	h := mustTestHeap(t)
	a, b, c := threeAdjacent(t, h)
	tailSize := blockSize(nextBlock(payloadAddr(c)))
	require.NoError(t, h.Free(a))
	require.NoError(t, h.Free(c))
	require.NoError(t, h.Free(b))

	free := freeBlockAddrs(h)
	require.Len(t, free, 1)
	require.Equal(t, payloadAddr(a), free[0])
	require.Equal(t, blockSize(free[0]), alignedSize(32)*3+tailSize)
	require.NoError(t, h.CheckHeap(false))
}
