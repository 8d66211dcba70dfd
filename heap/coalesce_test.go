package heap

import "testing"

// splitOff carves a single new allocated block of size asize off the front
// of the heap's sole free block and returns its payload address, leaving
// the remainder as a free block of its own (not yet re-split further).
func splitOff(h *Heap, asize uint32) uintptr {
	head, ok := h.head(sizeClassOf(chunkSize))
	if !ok {
		panic("expected a free block after Init")
	}
	h.place(head, asize)
	return head
}

func TestCoalesceNoMergeWhenBothNeighboursAllocated(t *testing.T) {
	h := newTestHeap(t)

	a := splitOff(h, 64)
	b := uintptr(func() uintptr {
		head, _ := h.head(sizeClassOf(chunkSize))
		h.place(head, 64)
		return head
	}())

	// a and b are both allocated and adjacent; freeing a alone must not
	// coalesce with b.
	size := h.size(a)
	h.setHeader(a, size, false, h.isPrevAllocated(a))
	h.writeFooter(a, size, false, h.isPrevAllocated(a))
	h.setHeader(b, h.size(b), h.isAllocated(b), false)

	merged := h.coalesce(a)
	if merged != a {
		t.Fatalf("expected no coalescing, got merged block %#x (a=%#x)", merged, a)
	}
	if h.size(merged) != size {
		t.Fatalf("size changed after no-op coalesce: got %d, want %d", h.size(merged), size)
	}
}

func TestCoalesceMergesFreeSuccessor(t *testing.T) {
	h := newTestHeap(t)

	a := splitOff(h, 64)
	aSize := h.size(a)
	next := h.next(a)
	nextSizeBefore := h.size(next)

	// next is already free and registered in its list (place split it off);
	// mark a free too and coalesce forward. coalesce is responsible for
	// pulling next back out of its list when it merges it away.
	h.setHeader(a, aSize, false, h.isPrevAllocated(a))
	h.writeFooter(a, aSize, false, h.isPrevAllocated(a))

	merged := h.coalesce(a)
	if merged != a {
		t.Fatalf("expected the merge to keep the lower address %#x, got %#x", a, merged)
	}
	if want := aSize + nextSizeBefore; h.size(merged) != want {
		t.Fatalf("merged size = %d, want %d", h.size(merged), want)
	}
	if h.isAllocated(merged) {
		t.Fatal("merged block should be free")
	}
}
