package heap

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is returned by Acquire/Resize when the backing provider
// refuses to extend the heap's high watermark. State is left unchanged:
// there is no partial mutation to roll back, because extension is always
// the last mutating step on an acquire's failure path.
var ErrOutOfMemory = errors.New("heap: out of memory")

// InvariantError is raised by Check when a structural invariant does not
// hold. It is fatal by contract: once the checker finds a broken invariant
// the allocator's internal state is already corrupt and recovery is not
// attempted, mirroring lldb.Allocator.Verify's diagnostic payload but
// reported as a single panic instead of an accumulated log.
type InvariantError struct {
	Site      int     // the check(line) call site, for diagnostics
	Invariant string  // which invariant failed
	Addr      uintptr // the offending block's address, if any
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("heap: invariant violation at check site %d: %s (block %#x)", e.Site, e.Invariant, e.Addr)
}
