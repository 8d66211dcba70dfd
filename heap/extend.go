package heap

// extend requests new bytes from the backing provider and installs a
// freshly-freed tail block plus a new epilogue sentinel. The returned block
// has already been through the coalescer but is not yet inserted into any
// free list; placement decisions belong to the caller.
func (h *Heap) extend(words int, prevAlloc bool) (uintptr, error) {
	if words%2 != 0 {
		words++
	}
	size := uint32(words * wordSize)

	// ExtendHighWatermark returns the old high watermark, which is exactly
	// where the stale epilogue word ends: the provider always leaves brk one
	// word past the current epilogue header, so that address is both the new
	// block's bp and the old epilogue's address plus WSIZE.
	bp, err := h.prov.ExtendHighWatermark(int(size))
	if err != nil {
		return 0, err
	}

	h.setHeader(bp, size, false, prevAlloc)
	h.writeFooter(bp, size, false, prevAlloc)

	h.epilogue = bp + uintptr(size) - wordSize
	h.putWord(h.epilogue, pack(0, true, false))

	return h.coalesce(bp), nil
}
