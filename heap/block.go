package heap

import "unsafe"

// Layout constants: alignment, word size, double-word size, the per-
// extension chunk size, the number of segregated size classes, and the
// 16-byte minimum block size.
const (
	alignment      = 8
	wordSize       = 4
	doubleWordSize = 8
	chunkSize      = 1 << 12
	sizeClasses    = 12
	minBlockSize   = 2 * doubleWordSize // header + two link words + footer

	// headWordPadding is one pad word after the N_SIZECLASS (even) head
	// entries, so that head table, pad and prologue header together span an
	// even number of words and the prologue payload (the anchor) is 8-byte
	// aligned.
	headWordPadding = 1
)

// allocated/prev_allocated bit positions within a header or footer word.
// Bit 2 is reserved and always 0; bits 3..31 hold size, which is always a
// multiple of 8 so it never collides with the flag bits.
const (
	flagAllocated     = 1 << 0
	flagPrevAllocated = 1 << 1
	flagMask          = flagAllocated | flagPrevAllocated | 1<<2
)

func align8(n int) int { return (n + alignment - 1) &^ (alignment - 1) }

// asizeFor canonicalises a requested payload size into the block size the
// allocator actually carves out: max(align8(userSize+WSIZE), minBlockSize).
func asizeFor(userSize int) uint32 {
	s := align8(userSize + wordSize)
	if s < minBlockSize {
		s = minBlockSize
	}
	return uint32(s)
}

func pack(size uint32, alloc, prevAlloc bool) uint32 {
	v := size &^ flagMask
	if alloc {
		v |= flagAllocated
	}
	if prevAlloc {
		v |= flagPrevAllocated
	}
	return v
}

// hdrp returns the header address for a block whose payload starts at bp.
func hdrp(bp uintptr) uintptr { return bp - wordSize }

func (h *Heap) getWord(addr uintptr) uint32 {
	return *(*uint32)(unsafe.Pointer(addr))
}

func (h *Heap) putWord(addr uintptr, v uint32) {
	*(*uint32)(unsafe.Pointer(addr)) = v
}

func (h *Heap) size(bp uintptr) uint32 {
	return h.getWord(hdrp(bp)) &^ flagMask
}

func (h *Heap) isAllocated(bp uintptr) bool {
	return h.getWord(hdrp(bp))&flagAllocated != 0
}

func (h *Heap) isPrevAllocated(bp uintptr) bool {
	return h.getWord(hdrp(bp))&flagPrevAllocated != 0
}

func (h *Heap) setHeader(bp uintptr, size uint32, alloc, prevAlloc bool) {
	h.putWord(hdrp(bp), pack(size, alloc, prevAlloc))
}

// writeFooter writes the boundary tag for a free block of the given size
// starting at bp. Allocated blocks carry no footer: each successor reads its
// predecessor's allocation state from its own prev_allocated bit instead.
func (h *Heap) writeFooter(bp uintptr, size uint32, alloc, prevAlloc bool) {
	h.putWord(bp+uintptr(size)-doubleWordSize, pack(size, alloc, prevAlloc))
}

// next returns the block immediately following bp.
func (h *Heap) next(bp uintptr) uintptr {
	return bp + uintptr(h.size(bp))
}

// prev returns the block immediately preceding bp by reading its footer.
// Only valid when !isPrevAllocated(bp); callers must guard with that bit,
// since an allocated predecessor has no footer to read.
func (h *Heap) prev(bp uintptr) uintptr {
	psize := h.getWord(bp-doubleWordSize) &^ flagMask
	return bp - uintptr(psize)
}
