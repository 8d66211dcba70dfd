package heap

import "testing"

func TestPlaceSplitsWhenRemainderIsLargeEnough(t *testing.T) {
	h := newTestHeap(t)

	head, ok := h.head(sizeClassOf(chunkSize))
	if !ok {
		t.Fatal("expected a free block after Init")
	}
	total := h.size(head)
	asize := uint32(64)

	if total-asize < minBlockSize {
		t.Fatalf("test fixture assumption broken: total=%d asize=%d", total, asize)
	}

	h.place(head, asize)

	if !h.isAllocated(head) {
		t.Fatal("expected the placed block to be allocated")
	}
	if h.size(head) != asize {
		t.Fatalf("allocated block size = %d, want %d", h.size(head), asize)
	}

	rem := h.next(head)
	if h.isAllocated(rem) {
		t.Fatal("expected the remainder to be free")
	}
	if h.size(rem) != total-asize {
		t.Fatalf("remainder size = %d, want %d", h.size(rem), total-asize)
	}
	if !h.isPrevAllocated(rem) {
		t.Fatal("remainder's prev_allocated bit should reflect the now-allocated low half")
	}
}

func TestPlaceConsumesWholeWhenRemainderTooSmall(t *testing.T) {
	h := newTestHeap(t)

	head, ok := h.head(sizeClassOf(chunkSize))
	if !ok {
		t.Fatal("expected a free block after Init")
	}
	total := h.size(head)

	h.place(head, total)

	if !h.isAllocated(head) {
		t.Fatal("expected the placed block to be allocated")
	}
	if h.size(head) != total {
		t.Fatalf("allocated block size = %d, want %d (whole block consumed)", h.size(head), total)
	}

	next := h.next(head)
	if !h.isPrevAllocated(next) {
		t.Fatal("following block's prev_allocated bit should now be set")
	}
}

func TestFindFitScansUpwardThroughClasses(t *testing.T) {
	h := newTestHeap(t)

	if _, ok := h.findFit(1 << 20); ok {
		t.Fatal("expected no fit for a request far larger than the heap")
	}

	head, ok := h.head(sizeClassOf(chunkSize))
	if !ok {
		t.Fatal("expected a free block after Init")
	}
	bp, ok := h.findFit(64)
	if !ok || bp != head {
		t.Fatalf("findFit(64) = %#x, %v; want %#x, true", bp, ok, head)
	}
}
