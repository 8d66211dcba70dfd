package heap

import "github.com/cznic/mathutil"

// sizeClassOf picks the starting size class for a block of the given size
// using a doubling ruler starting at 16 bytes: class i holds sizes in
// (16*2^(i-1), 16*2^i], with the last class catching everything above it.
// mathutil.BitLen(size-1)-4 picks the power-of-two slot in one shift-and-mask
// instead of a doubling loop.
func sizeClassOf(size uint32) int {
	i := mathutil.BitLen(int(size-1)) - 4
	if i < 0 {
		i = 0
	}
	if i > sizeClasses-1 {
		i = sizeClasses - 1
	}
	return i
}

func (h *Heap) headOffset(i int) uintptr {
	return h.headTable + uintptr(i)*wordSize
}

// head reads the head-table entry for class i. The second return value is
// false when the class is empty (the stored offset is the 0 sentinel).
func (h *Heap) head(i int) (uintptr, bool) {
	v := int32(h.getWord(h.headOffset(i)))
	if v == 0 {
		return 0, false
	}
	return uintptr(int64(h.anchor) + int64(v)), true
}

func (h *Heap) setHeadEmpty(i int) {
	h.putWord(h.headOffset(i), 0)
}

func (h *Heap) setHead(i int, bp uintptr) {
	h.putWord(h.headOffset(i), uint32(int32(int64(bp)-int64(h.anchor))))
}

// pred/succ read a free block's link fields, which are 32-bit offsets
// relative to the block itself rather than raw pointers: this keeps the
// minimum block size at 16 bytes regardless of host word size, at the cost
// of limiting a single heap to a 32-bit address span.
func (h *Heap) pred(bp uintptr) uintptr {
	return uintptr(int64(bp) + int64(int32(h.getWord(bp))))
}

func (h *Heap) succ(bp uintptr) uintptr {
	return uintptr(int64(bp) + int64(int32(h.getWord(bp+wordSize))))
}

func (h *Heap) setPred(bp, pred uintptr) {
	h.putWord(bp, uint32(int32(int64(pred)-int64(bp))))
}

func (h *Heap) setSucc(bp, succ uintptr) {
	h.putWord(bp+wordSize, uint32(int32(int64(succ)-int64(bp))))
}

// insert adds a free block to its size class at the tail of the circular
// list, i.e. immediately before the current head. The class head only moves
// when a block is inserted into an empty list, never on a later insertion,
// so repeated first-fit lookups keep finding the same head until it is
// placed.
func (h *Heap) insert(bp uintptr) {
	i := sizeClassOf(h.size(bp))
	head, ok := h.head(i)
	if !ok {
		h.setHead(i, bp)
		h.setPred(bp, bp)
		h.setSucc(bp, bp)
		return
	}

	tail := h.pred(head)
	h.setPred(bp, tail)
	h.setSucc(tail, bp)
	h.setSucc(bp, head)
	h.setPred(head, bp)
}

// remove splices a free block out of its size class list.
func (h *Heap) remove(bp uintptr) {
	i := sizeClassOf(h.size(bp))
	head, _ := h.head(i)

	if bp == head {
		if h.succ(bp) == head {
			h.setHeadEmpty(i)
			return
		}
		h.setHead(i, h.succ(bp))
	}

	p, s := h.pred(bp), h.succ(bp)
	h.setSucc(p, s)
	h.setPred(s, p)
}
