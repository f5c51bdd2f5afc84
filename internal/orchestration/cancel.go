package orchestration

import (
	"sync"
	"sync/atomic"
)

// CancelToken is a one-shot cancellation flag handed explicitly through the
// fetch and count pipeline. It may be read concurrently from any number of
// checkpoints and is set at most once.
type CancelToken struct {
	canceled atomic.Bool
	once     sync.Once
	done     chan struct{}
}

// NewCancelToken returns an unset token.
func NewCancelToken() *CancelToken {
	return &CancelToken{done: make(chan struct{})}
}

// Cancel sets the token. It reports whether this call was the one that set it.
func (t *CancelToken) Cancel() bool {
	set := false
	t.once.Do(func() {
		t.canceled.Store(true)
		close(t.done)
		set = true
	})
	return set
}

// Canceled reports whether the token has been set.
func (t *CancelToken) Canceled() bool {
	return t.canceled.Load()
}

// Done returns a channel closed when the token is set.
func (t *CancelToken) Done() <-chan struct{} {
	return t.done
}
