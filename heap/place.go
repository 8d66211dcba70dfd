package heap

// findFit scans the segregated index for the first free block able to hold
// asize, first-fit within the starting class and every class above it. It
// reports (0, false) when no class has room.
func (h *Heap) findFit(asize uint32) (uintptr, bool) {
	for i := sizeClassOf(asize); i < sizeClasses; i++ {
		head, ok := h.head(i)
		if !ok {
			continue
		}

		if h.size(head) >= asize {
			return head, true
		}

		for fb := h.succ(head); fb != head; fb = h.succ(fb) {
			if h.size(fb) >= asize {
				return fb, true
			}
		}
	}
	return 0, false
}

// place removes bp from its free list and either splits it (keeping the
// remainder free) or consumes it whole. The 16-byte split threshold is
// exactly the minimum representable free block; a smaller remnant cannot
// hold free links and is absorbed as internal fragmentation.
func (h *Heap) place(bp uintptr, asize uint32) {
	csize := h.size(bp)
	prevAlloc := h.isPrevAllocated(bp)
	h.remove(bp)

	if csize-asize >= minBlockSize {
		h.setHeader(bp, asize, true, prevAlloc)

		rem := h.next(bp)
		remSize := csize - asize
		h.setHeader(rem, remSize, false, true)
		h.writeFooter(rem, remSize, false, true)
		h.insert(rem)
		return
	}

	h.setHeader(bp, csize, true, prevAlloc)

	nb := h.next(bp)
	nSize := h.size(nb)
	nAlloc := h.isAllocated(nb)
	h.setHeader(nb, nSize, nAlloc, true)
	if !nAlloc {
		h.writeFooter(nb, nSize, false, true)
	}
}
