// Package metrics exposes run metrics: a Prometheus recorder for the
// per-document pipeline and runtime memory snapshots for verbose output.
package metrics
