package heap

import "testing"

func TestAsizeForCanonicalisation(t *testing.T) {
	cases := []struct {
		user int
		want uint32
	}{
		{0, minBlockSize},
		{1, minBlockSize},
		{4, minBlockSize},
		{12, minBlockSize},
		{13, 24},
		{24, 32},
		{28, 32},
	}
	for _, c := range cases {
		if got := asizeFor(c.user); got != c.want {
			t.Errorf("asizeFor(%d) = %d, want %d", c.user, got, c.want)
		}
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := newTestHeap(t)

	head, ok := h.head(sizeClassOf(chunkSize))
	if !ok {
		t.Fatal("expected a free block after Init")
	}

	size := h.size(head)
	if size%alignment != 0 || size < minBlockSize {
		t.Fatalf("unexpected initial free block size %d", size)
	}
	if h.isAllocated(head) {
		t.Fatal("initial free block should not be allocated")
	}

	h.setHeader(head, size, true, true)
	if !h.isAllocated(head) || !h.isPrevAllocated(head) {
		t.Fatal("setHeader did not set the flags it was asked to")
	}
	if h.size(head) != size {
		t.Fatalf("size changed across setHeader: got %d, want %d", h.size(head), size)
	}

	h.setHeader(head, size, false, true)
	h.writeFooter(head, size, false, true)
	if h.getWord(hdrp(head)) != h.getWord(head+uintptr(size)-doubleWordSize) {
		t.Fatal("header and footer should be identical for a free block")
	}
}

func TestNextAndPrevNavigation(t *testing.T) {
	h := newTestHeap(t)

	head, ok := h.head(sizeClassOf(chunkSize))
	if !ok {
		t.Fatal("expected a free block after Init")
	}

	size := h.size(head)
	next := h.next(head)
	if next != head+uintptr(size) {
		t.Fatalf("next(head) = %#x, want %#x", next, head+uintptr(size))
	}

	// prev is only valid when !isPrevAllocated; the initial block is free,
	// so its successor (the epilogue) reaches it via its footer.
	if h.isPrevAllocated(next) {
		t.Fatal("expected the epilogue's prev_allocated bit to be false after the initial free block")
	}
	if got := h.prev(next); got != head {
		t.Fatalf("prev(next) = %#x, want %#x", got, head)
	}
}
