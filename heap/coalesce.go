package heap

// coalesce merges a just-freed block B (whose header/footer already reflect
// allocated=false) with any immediately-adjacent free neighbours, removing
// consumed neighbours from their size-class lists. It returns the surviving
// (possibly grown) block; inserting it into a free list is the caller's
// responsibility.
func (h *Heap) coalesce(bp uintptr) uintptr {
	prevAlloc := h.isPrevAllocated(bp)
	next := h.next(bp)
	nextAlloc := h.isAllocated(next)
	size := h.size(bp)

	switch {
	case prevAlloc && nextAlloc:
		return bp

	case prevAlloc && !nextAlloc:
		size += h.size(next)
		h.remove(next)
		h.setHeader(bp, size, false, true)
		h.writeFooter(bp, size, false, true)
		return bp

	case !prevAlloc && nextAlloc:
		p := h.prev(bp)
		pPrevAlloc := h.isPrevAllocated(p)
		size += h.size(p)
		h.remove(p)
		h.setHeader(p, size, false, pPrevAlloc)
		h.writeFooter(p, size, false, pPrevAlloc)
		return p

	default: // !prevAlloc && !nextAlloc
		p := h.prev(bp)
		pPrevAlloc := h.isPrevAllocated(p)
		size += h.size(p) + h.size(next)
		h.remove(p)
		h.remove(next)
		h.setHeader(p, size, false, pPrevAlloc)
		h.writeFooter(p, size, false, pPrevAlloc)
		return p
	}
}
