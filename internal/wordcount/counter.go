package wordcount

import (
	"unicode"

	"github.com/agbru/wordcount/internal/parallel"
)

// Option configures a Counter.
type Option func(*Counter)

// WithThreshold sets the sequential/parallel split point in bytes.
// Values below 1 select DefaultChunkThreshold.
func WithThreshold(threshold int) Option {
	return func(c *Counter) {
		if threshold < 1 {
			threshold = DefaultChunkThreshold
		}
		c.threshold = threshold
	}
}

// WithMaxParallelism caps the number of forked counting goroutines alive at
// once. Values below 1 select DefaultMaxParallelism.
func WithMaxParallelism(n int) Option {
	return func(c *Counter) {
		if n < 1 {
			n = DefaultMaxParallelism()
		}
		c.maxParallelism = n
	}
}

// Counter counts words using parallel divide-and-conquer. A Counter is safe
// for concurrent use; all concurrent Count calls share its goroutine budget.
type Counter struct {
	threshold      int
	maxParallelism int
	spawner        *parallel.Spawner
}

// New creates a Counter.
func New(opts ...Option) *Counter {
	c := &Counter{
		threshold:      DefaultChunkThreshold,
		maxParallelism: DefaultMaxParallelism(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.spawner = parallel.NewSpawner(c.maxParallelism)
	return c
}

// Threshold returns the configured chunk threshold.
func (c *Counter) Threshold() int { return c.threshold }

// MaxParallelism returns the configured goroutine cap.
func (c *Counter) MaxParallelism() int { return c.maxParallelism }

// Count returns the number of words in content. Words are maximal runs of
// non-whitespace characters, as defined by unicode.IsSpace.
func (c *Counter) Count(content string) int {
	if len(content) == 0 {
		return 0
	}
	return c.countRange(content, 0, len(content))
}

// countRange counts words in content[left:right).
func (c *Counter) countRange(content string, left, right int) int {
	size := right - left
	if size < c.threshold || size < minSplitSize {
		return CountSequential(content[left:right])
	}

	mid := SplitPoint(content, left, right)
	if mid >= right {
		// No whitespace anywhere past left: the range is a single run.
		return CountSequential(content[left:right])
	}

	leftCount := parallel.Spawn(c.spawner, func() int {
		return c.countRange(content, left, mid)
	})
	rightCount := c.countRange(content, mid, right)
	return leftCount.Wait() + rightCount
}

var defaultCounter = New()

// Count counts words in content with a default Counter.
func Count(content string) int {
	return defaultCounter.Count(content)
}

// SplitPoint picks the index at which content[left:right) is divided.
//
// It starts at the midpoint and moves forward to the first ASCII whitespace
// byte. If the scan reaches right, it searches backward from the midpoint
// instead. The returned index p always satisfies left < p < right with
// content[p] whitespace, or p == right when no such byte exists. ASCII
// whitespace never appears inside a multi-byte UTF-8 sequence, so p is
// always a rune boundary outside any word.
func SplitPoint(content string, left, right int) int {
	if right-left < minSplitSize {
		return right
	}
	mid := left + (right-left)/2
	for p := mid; p < right; p++ {
		if isSplitByte(content[p]) {
			return p
		}
	}
	for p := mid - 1; p > left; p-- {
		if isSplitByte(content[p]) {
			return p
		}
	}
	return right
}

// CountSequential counts words in a single pass. It is the base case of
// Counter.Count and the reference it is tested against.
func CountSequential(content string) int {
	count := 0
	inWord := false
	for _, r := range content {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			inWord = true
			count++
		}
	}
	return count
}

func isSplitByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
