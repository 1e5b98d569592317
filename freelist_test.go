package segalloc

import "testing"

// TestSentinelsStartEmpty verifies invariant 8 (circular list including
// the sentinel) holds immediately after init: every list's sentinel
// points to itself.
func TestSentinelsStartEmpty(t *testing.T) {
	h := mustTestHeap(t, WithInitialChunks(0))
	for i := 0; i < h.opts.ListCount; i++ {
		sp := h.sentinel(i)
		if h.nextInList(sp) != sp || h.prevInList(sp) != sp {
			t.Fatalf("list %d sentinel is not self-linked after init", i)
		}
	}
}

// TestInsertDeleteRoundTrip exercises insertNode/deleteNode directly
// against a synthetic free block, checking invariant 8 at each step.
func TestInsertDeleteRoundTrip(t *testing.T) {
	h := mustTestHeap(t, WithInitialChunks(1), WithChunkSize(4096))

	free := freeBlockAddrs(h)
	if len(free) != 1 {
		t.Fatalf("expected one seeded free block, got %d", len(free))
	}
	bp := free[0]
	size := blockSize(bp)
	idx := h.listIndex(size)
	sp := h.sentinel(idx)

	h.deleteNode(bp)
	if h.nextInList(sp) != sp {
		t.Fatal("deleteNode left the list non-empty")
	}

	h.insertNode(bp, idx)
	if h.nextInList(sp) != bp || h.prevInList(sp) != bp {
		t.Fatal("insertNode did not link the node at the head")
	}
	if h.nextInList(bp) != sp || h.prevInList(bp) != sp {
		t.Fatal("insertNode into an empty list should point both ways at the sentinel")
	}
}

// TestInsertIsLIFO checks the documented LIFO tie-break: the
// most-recently-inserted node is found first.
func TestInsertIsLIFO(t *testing.T) {
	h := mustTestHeap(t)
	a, err := h.Alloc(64)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.Alloc(8); err != nil { // keeps a and b apart
		t.Fatal(err)
	}
	b, err := h.Alloc(64)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.Alloc(8); err != nil { // keeps b apart from the trailing free space
		t.Fatal(err)
	}

	aAddr := payloadAddr(a)
	bAddr := payloadAddr(b)
	if err := h.Free(a); err != nil {
		t.Fatal(err)
	}
	if err := h.Free(b); err != nil {
		t.Fatal(err)
	}
	// a and b are each flanked by allocated blocks, so neither coalesces;
	// both sit on the same list, and the most recently freed block - b -
	// must be found first for an equal-size request since insertion is
	// LIFO.
	c, err := h.Alloc(64)
	if err != nil {
		t.Fatal(err)
	}
	if payloadAddr(c) != bAddr {
		t.Fatalf("got %#x, want the most recently freed block %#x (not %#x)", payloadAddr(c), bAddr, aAddr)
	}
}
