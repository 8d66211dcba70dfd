// Package trace implements a minimal allocation-trace replay harness, the
// ambient test-driver tool every repository built around an allocator still
// ships in some form: it generates and replays a sequence of allocate/free
// operations against the allocator under a byte budget.
package trace

import (
	"fmt"
	"unsafe"

	"github.com/ShiningCrevice/ics-malloclab/heap"
)

// OpKind identifies which of the four public operations a trace step
// invokes.
type OpKind int

const (
	OpAcquire OpKind = iota
	OpRelease
	OpResize
	OpZeroAcquire
)

func (k OpKind) String() string {
	switch k {
	case OpAcquire:
		return "acquire"
	case OpRelease:
		return "release"
	case OpResize:
		return "resize"
	case OpZeroAcquire:
		return "zero_acquire"
	default:
		return "unknown"
	}
}

// Op is one step of a trace. Ref names a slot: Acquire and ZeroAcquire store
// the pointer they get under Ref, and Release and Resize act on the pointer
// stored under it.
type Op struct {
	Kind OpKind
	Ref  int
	Size int
	N    int // only meaningful for OpZeroAcquire
}

// Trace is a fixed sequence of operations to replay against a fresh Heap.
type Trace struct {
	Ops []Op
}

// Stats summarises a completed replay.
type Stats struct {
	Ops          int
	Acquires     int
	Releases     int
	Resizes      int
	ZeroAcquires int
	LiveBytes    int
	PeakBytes    int
}

// Replay runs tr against h, which must already be Init'd. It returns an
// error if a Release or Resize op refers to a slot that was never acquired
// or was already released — that is a malformed trace, not an allocator
// fault.
func Replay(h *heap.Heap, tr Trace) (Stats, error) {
	live := make(map[int]unsafe.Pointer)
	sizes := make(map[int]int)
	var stats Stats

	for _, op := range tr.Ops {
		stats.Ops++
		switch op.Kind {
		case OpAcquire:
			p, err := h.Acquire(op.Size)
			if err != nil {
				return stats, fmt.Errorf("trace: acquire(%d) at op %d: %w", op.Size, stats.Ops, err)
			}
			live[op.Ref] = p
			sizes[op.Ref] = op.Size
			stats.Acquires++
			stats.LiveBytes += op.Size

		case OpRelease:
			p, ok := live[op.Ref]
			if !ok {
				return stats, fmt.Errorf("trace: release of unknown slot %d at op %d", op.Ref, stats.Ops)
			}
			h.Release(p)
			stats.LiveBytes -= sizes[op.Ref]
			delete(live, op.Ref)
			delete(sizes, op.Ref)
			stats.Releases++

		case OpResize:
			p, ok := live[op.Ref]
			if !ok {
				return stats, fmt.Errorf("trace: resize of unknown slot %d at op %d", op.Ref, stats.Ops)
			}
			np, err := h.Resize(p, op.Size)
			if err != nil {
				return stats, fmt.Errorf("trace: resize(%d) at op %d: %w", op.Size, stats.Ops, err)
			}
			stats.LiveBytes += op.Size - sizes[op.Ref]
			if op.Size == 0 {
				delete(live, op.Ref)
				delete(sizes, op.Ref)
			} else {
				live[op.Ref] = np
				sizes[op.Ref] = op.Size
			}
			stats.Resizes++

		case OpZeroAcquire:
			p, err := h.ZeroAcquire(op.N, op.Size)
			if err != nil {
				return stats, fmt.Errorf("trace: zero_acquire(%d,%d) at op %d: %w", op.N, op.Size, stats.Ops, err)
			}
			live[op.Ref] = p
			sizes[op.Ref] = op.N * op.Size
			stats.ZeroAcquires++
			stats.LiveBytes += op.N * op.Size
		}

		if stats.LiveBytes > stats.PeakBytes {
			stats.PeakBytes = stats.LiveBytes
		}
	}

	return stats, nil
}
