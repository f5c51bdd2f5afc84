// Package server exposes run metrics over HTTP while a run is in progress.
// It serves a single read-only /metrics endpoint with hardened response
// headers.
package server
