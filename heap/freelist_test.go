package heap

import "testing"

func TestSizeClassOfMatchesDoublingRuler(t *testing.T) {
	cases := []struct {
		size uint32
		want int
	}{
		{16, 0},
		{17, 1},
		{32, 1},
		{33, 2},
		{64, 2},
		{65, 3},
		{1 << 20, sizeClasses - 1},
	}
	for _, c := range cases {
		if got := sizeClassOf(c.size); got != c.want {
			t.Errorf("sizeClassOf(%d) = %d, want %d", c.size, got, c.want)
		}
	}
}

// TestInsertIsTailOrder manufactures three free blocks of the same class
// directly (bypassing Acquire/Release, whose coalescing would make the
// final list shape depend on address adjacency) to pin down the tail-
// insertion policy: the class head never moves once set, later inserts land
// immediately before it.
func TestInsertIsTailOrder(t *testing.T) {
	h := newTestHeap(t)

	head, ok := h.head(sizeClassOf(chunkSize))
	if !ok {
		t.Fatal("expected a free block after Init")
	}
	if h.succ(head) != head || h.pred(head) != head {
		t.Fatal("expected the sole free block to be a self-linked singleton")
	}

	big := h.size(head)
	h.remove(head)

	const blockSize = 64
	class := sizeClassOf(blockSize)

	first := head
	second := head + blockSize
	third := head + 2*blockSize
	remainderAddr := head + 3*blockSize
	remainderSize := big - 3*blockSize

	for _, bp := range []uintptr{first, second, third} {
		h.setHeader(bp, blockSize, false, true)
		h.writeFooter(bp, blockSize, false, true)
	}
	h.setHeader(remainderAddr, remainderSize, false, true)
	h.writeFooter(remainderAddr, remainderSize, false, true)

	h.insert(first)
	h.insert(second)
	h.insert(third)

	newHead, ok := h.head(class)
	if !ok || newHead != first {
		t.Fatalf("expected the head to stay at the first-inserted block %#x, got %#x (ok=%v)", first, newHead, ok)
	}

	// Tail-insertion means each new block lands just before the head when
	// walked via succ, so the head's successor chain is FIFO insertion
	// order: first, second, third.
	got := []uintptr{newHead}
	for p := h.succ(newHead); p != newHead; p = h.succ(p) {
		got = append(got, p)
	}
	want := []uintptr{first, second, third}
	if len(got) != len(want) {
		t.Fatalf("list length = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("list order = %v, want %v", got, want)
		}
	}

	if h.pred(first) != third || h.succ(third) != first {
		t.Fatal("circular wraparound link is broken")
	}
}
