package config

import "runtime"

// Chunk threshold resolution chain (highest priority first):
//   1. CLI flag (--chunk-threshold)
//   2. Environment variable (WORDCOUNT_CHUNK_THRESHOLD)
//   3. Cached calibration profile (~/.wordcount_calibration.json)
//   4. Adaptive hardware estimation (this file)

// sequentialOnlyThreshold is large enough that typical documents are never split.
const sequentialOnlyThreshold = 1 << 26

// ApplyAdaptiveThresholds fills a zero chunk threshold with a hardware-based
// estimate. Values set by the user are preserved.
func ApplyAdaptiveThresholds(cfg AppConfig) AppConfig {
	if cfg.ChunkThreshold == 0 {
		cfg.ChunkThreshold = EstimateOptimalChunkThreshold(runtime.NumCPU())
	}
	return cfg
}

// EstimateOptimalChunkThreshold provides a heuristic estimate of the chunk
// threshold for numCPU logical processors without running benchmarks.
// More cores amortize smaller chunks.
func EstimateOptimalChunkThreshold(numCPU int) int {
	switch {
	case numCPU <= 1:
		return sequentialOnlyThreshold // No parallelism
	case numCPU <= 2:
		return 64 << 10
	case numCPU <= 4:
		return 32 << 10
	case numCPU <= 8:
		return 20_000
	case numCPU <= 16:
		return 16 << 10
	default:
		return 8 << 10
	}
}
