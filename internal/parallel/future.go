package parallel

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Future is a handle on a value computed by a forked task. Wait blocks until
// the task has finished and may be called any number of times.
type Future[T any] struct {
	done  chan struct{}
	value T
}

// Go runs fn on a new goroutine and returns a handle on its result.
func Go[T any](fn func() T) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value = fn()
	}()
	return f
}

// Resolved returns a Future that is already complete.
func Resolved[T any](v T) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: v}
	close(f.done)
	return f
}

// Wait blocks until the value is available.
func (f *Future[T]) Wait() T {
	<-f.done
	return f.value
}

// WaitContext blocks until the value is available or ctx is done.
func (f *Future[T]) WaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel closed once the value is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Spawner forks tasks onto goroutines while fewer than its limit are live.
// Once saturated it runs tasks on the caller's goroutine instead, so
// recursive fork-join never blocks waiting for a slot.
type Spawner struct {
	sem *semaphore.Weighted
}

// NewSpawner creates a Spawner allowing at most limit concurrent forks.
// A limit below 1 disables forking entirely.
func NewSpawner(limit int) *Spawner {
	if limit < 1 {
		return &Spawner{}
	}
	return &Spawner{sem: semaphore.NewWeighted(int64(limit))}
}

// Spawn forks fn and returns its Future. When no slot is free fn runs inline
// and the returned Future is already resolved.
func Spawn[T any](s *Spawner, fn func() T) *Future[T] {
	if s == nil || s.sem == nil || !s.sem.TryAcquire(1) {
		return Resolved(fn())
	}
	return Go(func() T {
		defer s.sem.Release(1)
		return fn()
	})
}
