package wordcount

import "runtime"

const (
	// DefaultChunkThreshold is the range length, in bytes, below which a
	// range is counted sequentially. Forking a goroutine per 20 KB keeps the
	// scheduling overhead well under the cost of the scan itself.
	DefaultChunkThreshold = 20_000

	// minSplitSize is the narrowest range that can be split into two
	// non-empty halves.
	minSplitSize = 2

	// parallelismPerProc bounds live counting goroutines relative to
	// GOMAXPROCS. Deeper recursion runs inline once the bound is reached.
	parallelismPerProc = 4
)

// DefaultMaxParallelism returns the default cap on concurrently running
// counting goroutines for this process.
func DefaultMaxParallelism() int {
	return runtime.GOMAXPROCS(0) * parallelismPerProc
}
