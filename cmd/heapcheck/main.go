// Command heapcheck replays an allocation trace file against the heap
// allocator and reports how many operations of each kind it ran and the
// peak number of live payload bytes. The replay is not timed.
//
// Trace file format: one operation per line, whitespace-separated:
//
//	a <ref> <size>       acquire
//	f <ref>              release
//	r <ref> <size>       resize (size 0 behaves like release)
//	z <ref> <n> <size>   zero_acquire
//
// Blank lines and lines starting with '#' are ignored.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ShiningCrevice/ics-malloclab/heap"
	"github.com/ShiningCrevice/ics-malloclab/provider"
	"github.com/ShiningCrevice/ics-malloclab/trace"
)

func main() {
	path := flag.String("trace", "", "path to a trace file (see package doc for format)")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "heapcheck: -trace is required")
		os.Exit(2)
	}

	tr, err := parseTraceFile(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "heapcheck:", err)
		os.Exit(1)
	}

	h := heap.New(provider.NewMemProvider(0))
	if err := h.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "heapcheck: init:", err)
		os.Exit(1)
	}

	stats, err := trace.Replay(h, tr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "heapcheck:", err)
		os.Exit(1)
	}

	fmt.Printf("ops=%d acquires=%d releases=%d resizes=%d zero_acquires=%d peak_bytes=%d\n",
		stats.Ops, stats.Acquires, stats.Releases, stats.Resizes, stats.ZeroAcquires, stats.PeakBytes)
}

func parseTraceFile(path string) (trace.Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return trace.Trace{}, err
	}
	defer f.Close()

	var tr trace.Trace
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		op, err := parseOp(fields)
		if err != nil {
			return trace.Trace{}, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		tr.Ops = append(tr.Ops, op)
	}
	if err := sc.Err(); err != nil {
		return trace.Trace{}, err
	}
	return tr, nil
}

func parseOp(fields []string) (trace.Op, error) {
	if len(fields) == 0 {
		return trace.Op{}, fmt.Errorf("empty operation")
	}

	atoi := func(s string) (int, error) { return strconv.Atoi(s) }

	switch fields[0] {
	case "a":
		if len(fields) != 3 {
			return trace.Op{}, fmt.Errorf("acquire wants 2 fields, got %d", len(fields)-1)
		}
		ref, err := atoi(fields[1])
		if err != nil {
			return trace.Op{}, err
		}
		size, err := atoi(fields[2])
		if err != nil {
			return trace.Op{}, err
		}
		return trace.Op{Kind: trace.OpAcquire, Ref: ref, Size: size}, nil

	case "f":
		if len(fields) != 2 {
			return trace.Op{}, fmt.Errorf("release wants 1 field, got %d", len(fields)-1)
		}
		ref, err := atoi(fields[1])
		if err != nil {
			return trace.Op{}, err
		}
		return trace.Op{Kind: trace.OpRelease, Ref: ref}, nil

	case "r":
		if len(fields) != 3 {
			return trace.Op{}, fmt.Errorf("resize wants 2 fields, got %d", len(fields)-1)
		}
		ref, err := atoi(fields[1])
		if err != nil {
			return trace.Op{}, err
		}
		size, err := atoi(fields[2])
		if err != nil {
			return trace.Op{}, err
		}
		return trace.Op{Kind: trace.OpResize, Ref: ref, Size: size}, nil

	case "z":
		if len(fields) != 4 {
			return trace.Op{}, fmt.Errorf("zero_acquire wants 3 fields, got %d", len(fields)-1)
		}
		ref, err := atoi(fields[1])
		if err != nil {
			return trace.Op{}, err
		}
		n, err := atoi(fields[2])
		if err != nil {
			return trace.Op{}, err
		}
		size, err := atoi(fields[3])
		if err != nil {
			return trace.Op{}, err
		}
		return trace.Op{Kind: trace.OpZeroAcquire, Ref: ref, N: n, Size: size}, nil

	default:
		return trace.Op{}, fmt.Errorf("unknown operation %q", fields[0])
	}
}
