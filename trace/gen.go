package trace

import (
	"math"

	"github.com/cznic/mathutil"
)

// Generate produces a randomised trace under a byte quota: a full-cycle PRNG
// (mathutil.NewFC32) drives interleaved allocate/free decisions until the
// quota is exhausted, then everything still live is freed. A full-cycle
// generator visits every value in its range exactly once per cycle, which
// avoids the clustering an ordinary PRNG gives a fixed quota.
func Generate(seed int32, quota, maxSize int) (Trace, error) {
	rng, err := mathutil.NewFC32(0, math.MaxInt32, true)
	if err != nil {
		return Trace{}, err
	}
	rng.Seed(int64(seed))

	var tr Trace
	live := []int{}
	nextRef := 0
	rem := quota

	for rem > 0 {
		size := int(rng.Next())%maxSize + 1
		if len(live) > 0 && rng.Next()%4 == 0 {
			idx := int(rng.Next()) % len(live)
			ref := live[idx]
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
			tr.Ops = append(tr.Ops, Op{Kind: OpRelease, Ref: ref})
			continue
		}

		tr.Ops = append(tr.Ops, Op{Kind: OpAcquire, Ref: nextRef, Size: size})
		live = append(live, nextRef)
		nextRef++
		rem -= size
	}

	for _, ref := range live {
		tr.Ops = append(tr.Ops, Op{Kind: OpRelease, Ref: ref})
	}

	return tr, nil
}
