// Package parallel holds the small concurrency primitives shared by the word
// counter and the fetch orchestrator: a fork-join Future, a bounded Spawner
// that degrades to inline execution when saturated, and a first-error-wins
// ErrorCollector.
package parallel
