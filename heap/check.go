package heap

import "fmt"

// Check verifies every structural invariant against the live heap, plus one
// cross-check: the count of blocks reachable by a forward scan whose
// allocated bit is 0 must equal the total count of blocks reachable by
// walking every size-class list. site identifies the call site for
// diagnostics, mirroring a `check(int line)` signature.
//
// Any violation panics with an *InvariantError. Recovery is not attempted:
// by the time a structural invariant has broken, the allocator's state is
// already corrupt, so the only sound response is to surface the diagnostic
// and let the caller's goroutine die.
func (h *Heap) Check(site int) {
	h.checkSentinels(site)
	scanFree := h.checkForwardScan(site)
	listFree := h.checkFreeLists(site)

	if scanFree != listFree {
		h.fail(site, 0, fmt.Sprintf("free block count mismatch: scan found %d, lists found %d", scanFree, listFree))
	}
}

func (h *Heap) checkSentinels(site int) {
	if !h.inHeap(h.anchor) || !h.isAllocated(h.anchor) || h.size(h.anchor) != doubleWordSize || !h.isPrevAllocated(h.anchor) {
		h.fail(site, h.anchor, "prologue sentinel is malformed")
	}

	epi := h.getWord(h.epilogue)
	if !h.inHeap(h.epilogue) || epi&flagAllocated == 0 || epi&^flagMask != 0 {
		h.fail(site, h.epilogue, "epilogue sentinel is malformed")
	}
}

// checkForwardScan walks every block by address order and returns how many
// are free, checking alignment, bounds, boundary-tag consistency and
// allocation-bit agreement between neighbours along the way.
func (h *Heap) checkForwardScan(site int) int {
	free := 0
	bp := h.anchor

	for h.size(bp) != 0 {
		if !h.inHeap(bp) {
			h.fail(site, bp, "block header lies outside the heap")
		}
		if bp%alignment != 0 {
			h.fail(site, bp, "payload is not 8-byte aligned")
		}
		// The DSIZE prologue is the one block below the minimum size; its
		// size is checked in checkSentinels.
		if h.size(bp)%alignment != 0 || (bp != h.anchor && h.size(bp) < minBlockSize) {
			h.fail(site, bp, "block size is not a legal multiple of 8 above the minimum")
		}

		allocated := h.isAllocated(bp)
		if !allocated {
			free++

			hdr := h.getWord(hdrp(bp))
			ftr := h.getWord(bp + uintptr(h.size(bp)) - doubleWordSize)
			if hdr != ftr {
				h.fail(site, bp, "free block header and footer disagree")
			}
		}

		next := h.next(bp)
		if !allocated && !h.isAllocated(next) {
			h.fail(site, bp, "two adjacent blocks are both free")
		}
		if allocated != h.isPrevAllocated(next) {
			h.fail(site, next, "prev_allocated bit does not match predecessor's allocated bit")
		}

		bp = next
	}

	return free
}

// checkFreeLists walks every size-class list and returns how many blocks it
// visited, checking class membership and the doubly-linked ring's
// consistency at each entry.
func (h *Heap) checkFreeLists(site int) int {
	count := 0

	for i := 0; i < sizeClasses; i++ {
		head, ok := h.head(i)
		if !ok {
			continue
		}

		fb := head
		for {
			count++
			if !h.inHeap(fb) {
				h.fail(site, fb, "free-list entry lies outside the heap")
			}
			if h.isAllocated(fb) {
				h.fail(site, fb, "free-list entry is marked allocated")
			}
			if sizeClassOf(h.size(fb)) != i {
				h.fail(site, fb, "free-list entry is in the wrong size class")
			}
			if h.succ(h.pred(fb)) != fb {
				h.fail(site, fb, "predecessor's successor does not point back")
			}
			if h.pred(h.succ(fb)) != fb {
				h.fail(site, fb, "successor's predecessor does not point back")
			}

			fb = h.succ(fb)
			if fb == head {
				break
			}
		}
	}

	return count
}

func (h *Heap) inHeap(addr uintptr) bool {
	return addr >= h.prov.HeapLo() && addr <= h.prov.HeapHi()
}

func (h *Heap) fail(site int, addr uintptr, invariant string) {
	panic(&InvariantError{Site: site, Invariant: invariant, Addr: addr})
}
