// Package format renders durations, sizes, counts and progress for terminal
// output.
package format
