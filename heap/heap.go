// Package heap implements a segregated-fit dynamic storage allocator over a
// single contiguous, monotonically-growable region obtained from a
// provider.Provider. It is the Go-native counterpart of the classic
// header/footer, boundary-tag allocator: acquire, release, resize and
// zero-acquire are all expressed in terms of an in-band block encoding
// (block.go), a segregated free-list index (freelist.go), a coalescer
// (coalesce.go) and a first-fit placement engine (place.go).
//
// The allocator is single-threaded and non-reentrant: every method here must
// run to completion before the next begins, and a Heap value must not be
// shared across goroutines without external synchronisation.
package heap

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/ShiningCrevice/ics-malloclab/provider"
)

// trace gates verbose Acquire/Release logging. Resize and ZeroAcquire log
// nothing of their own; only the Acquire/Release calls they make are logged.
// It is off by default and only ever flipped from tests.
var trace = false

// Heap is a single allocator instance. Its zero value is not ready for use;
// construct one with New and call Init before the first Acquire.
type Heap struct {
	prov provider.Provider

	headTable uintptr // address of the N_SIZECLASS-entry head table
	anchor    uintptr // prologue payload address; the offset anchor for the head table
	epilogue  uintptr // address of the current epilogue header
}

// New returns a Heap that will extend its high watermark against p. Call
// Init before using it.
func New(p provider.Provider) *Heap {
	return &Heap{prov: p}
}

// Init (re)initialises the heap: it resets the provider, carves the head
// table, prologue and epilogue, and extends the heap by one chunk so the
// first Acquire has somewhere to place from. Init may be called repeatedly
// on the same Heap, the way a trace-replaying test driver resets the
// allocator between traces.
func (h *Heap) Init() error {
	if err := h.prov.InitBacking(); err != nil {
		return err
	}
	h.headTable, h.anchor, h.epilogue = 0, 0, 0

	headWords := sizeClasses + headWordPadding
	hdr, err := h.prov.ExtendHighWatermark((3 + sizeClasses + headWordPadding) * wordSize)
	if err != nil {
		return err
	}

	h.headTable = hdr
	for i := 0; i < sizeClasses; i++ {
		h.setHeadEmpty(i)
	}

	// The prologue is a DSIZE block with no payload: header and footer are
	// adjacent words, and its footer's address coincides with anchor itself
	// (FTRP(anchor) = anchor + DSIZE - DSIZE = anchor). It never needs a real
	// boundary tag value there because nothing ever treats the prologue as
	// free or walks backward past it (isPrevAllocated(anchor) is always
	// true), so the slot is left zeroed.
	prologueHdr := h.headTable + uintptr(headWords)*wordSize
	h.putWord(prologueHdr, pack(doubleWordSize, true, true))
	h.putWord(prologueHdr+wordSize, 0)
	h.putWord(prologueHdr+2*wordSize, pack(0, true, true))

	h.anchor = prologueHdr + wordSize
	h.epilogue = prologueHdr + 2*wordSize

	fb, err := h.extend(chunkSize/wordSize, true)
	if err != nil {
		return err
	}
	h.insert(fb)
	return nil
}

// Acquire returns a pointer to size usable bytes, or nil if size is 0 or the
// heap cannot be extended further. The payload is not initialised.
func (h *Heap) Acquire(size int) (p unsafe.Pointer, err error) {
	if trace {
		defer func() { fmt.Fprintf(os.Stderr, "Acquire(%#x) %p, %v\n", size, p, err) }()
	}

	if size == 0 {
		return nil, nil
	}

	asize := asizeFor(size)
	if bp, ok := h.findFit(asize); ok {
		h.place(bp, asize)
		return unsafe.Pointer(bp), nil
	}

	esize := int(asize)
	if esize < chunkSize {
		esize = chunkSize
	}
	prevAlloc := h.getWord(h.epilogue)&flagPrevAllocated != 0

	fb, err := h.extend(esize/wordSize, prevAlloc)
	if err != nil {
		return nil, ErrOutOfMemory
	}
	h.insert(fb)
	h.place(fb, asize)
	return unsafe.Pointer(fb), nil
}

// Release returns the block at p to the heap. p == nil is a no-op.
func (h *Heap) Release(p unsafe.Pointer) {
	if trace {
		defer func() { fmt.Fprintf(os.Stderr, "Release(%p)\n", p) }()
	}

	if p == nil {
		return
	}
	bp := uintptr(p)

	size := h.size(bp)
	prevAlloc := h.isPrevAllocated(bp)
	h.setHeader(bp, size, false, prevAlloc)
	h.writeFooter(bp, size, false, prevAlloc)

	next := h.next(bp)
	h.setHeader(next, h.size(next), h.isAllocated(next), false)

	bp = h.coalesce(bp)
	h.insert(bp)
}

// Resize changes the block at p to hold size bytes, preserving the first
// min(old, size) bytes of its content. p == nil behaves like Acquire;
// size == 0 behaves like Release. This never attempts an in-place grow: a
// new block is always acquired and the old one copied and released.
func (h *Heap) Resize(p unsafe.Pointer, size int) (unsafe.Pointer, error) {
	if size == 0 {
		h.Release(p)
		return nil, nil
	}
	if p == nil {
		return h.Acquire(size)
	}

	np, err := h.Acquire(size)
	if err != nil {
		return nil, err
	}

	oldPayload := int(h.size(uintptr(p))) - wordSize
	n := size
	if oldPayload < n {
		n = oldPayload
	}
	if n > 0 {
		copyBytes(np, p, n)
	}

	h.Release(p)
	return np, nil
}

// ZeroAcquire acquires room for n*size bytes and zeroes them. It guards
// against Acquire returning nil before zeroing rather than zeroing through a
// null pointer.
func (h *Heap) ZeroAcquire(n, size int) (unsafe.Pointer, error) {
	p, err := h.Acquire(n * size)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	zeroBytes(p, n*size)
	return p, nil
}

// copyBytes and zeroBytes present an intBits-gated raw byte-slice view over
// an unsafe.Pointer, since this allocator's public surface is pointer-based
// rather than []byte-based.
const intBits = 32 << (^uint(0) >> 63)

func copyBytes(dst, src unsafe.Pointer, n int) {
	if intBits > 32 {
		copy((*[1 << 40]byte)(dst)[:n], (*[1 << 40]byte)(src)[:n])
		return
	}
	copy((*[1 << 30]byte)(dst)[:n], (*[1 << 30]byte)(src)[:n])
}

func zeroBytes(p unsafe.Pointer, n int) {
	var b []byte
	if intBits > 32 {
		b = (*[1 << 40]byte)(p)[:n]
	} else {
		b = (*[1 << 30]byte)(p)[:n]
	}
	for i := range b {
		b[i] = 0
	}
}
