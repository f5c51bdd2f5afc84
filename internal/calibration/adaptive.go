// This file implements adaptive chunk threshold generation based on hardware characteristics.

package calibration

import (
	"math"
	"runtime"
)

// SequentialThreshold is a chunk threshold no document reaches, so the
// counter never forks.
const SequentialThreshold = math.MaxInt32

// GenerateChunkThresholds generates the list of chunk thresholds to benchmark
// based on the number of available CPU cores.
func GenerateChunkThresholds() []int {
	return generateChunkThresholds(runtime.NumCPU())
}

// generateChunkThresholds returns the candidates for numCPU cores.
//
// The rationale:
// - Single-core: Only sequential makes sense
// - 2-4 cores: Large chunks, fork overhead dominates small ones
// - 8+ cores: Include smaller chunks to keep every core busy
func generateChunkThresholds(numCPU int) []int {
	thresholds := []int{SequentialThreshold}

	switch {
	case numCPU <= 1:
		return thresholds
	case numCPU <= 4:
		thresholds = append(thresholds, 16<<10, 32<<10, 64<<10, 128<<10, 256<<10)
	case numCPU <= 8:
		thresholds = append(thresholds, 8<<10, 16<<10, 20_000, 32<<10, 64<<10, 128<<10)
	default:
		thresholds = append(thresholds, 4<<10, 8<<10, 16<<10, 20_000, 32<<10, 64<<10)
	}
	return thresholds
}
