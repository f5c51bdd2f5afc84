package source

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/agbru/wordcount/internal/errors"
)

// ErrNotFound is the cause reported for references a Memory source lacks.
var ErrNotFound = errors.New("document not found")

// Document is one entry of a Memory source.
type Document struct {
	Ref     Ref
	Content string
	// Delay is waited before the content is returned.
	Delay time.Duration
	// Err, when set, is returned (wrapped in a FetchError) after Delay.
	Err error
}

// Memory is an in-process source, used in tests and dry runs.
type Memory struct {
	mu    sync.RWMutex
	order []Ref
	docs  map[Ref]Document
}

var _ Source = (*Memory)(nil)

// NewMemory creates a source listing docs in the given order.
func NewMemory(docs ...Document) *Memory {
	m := &Memory{docs: make(map[Ref]Document, len(docs))}
	for _, d := range docs {
		m.Add(d)
	}
	return m
}

// Add registers or replaces a document.
func (m *Memory) Add(d Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[d.Ref]; !ok {
		m.order = append(m.order, d.Ref)
	}
	m.docs[d.Ref] = d
}

// ListTopDocuments returns the first max references in insertion order.
func (m *Memory) ListTopDocuments(_ context.Context, max int) ([]Ref, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Ref(nil), truncate(m.order, max)...), nil
}

// Fetch returns the stored content after the document's delay. It honors
// ctx while waiting.
func (m *Memory) Fetch(ctx context.Context, ref Ref) (string, error) {
	m.mu.RLock()
	d, ok := m.docs[ref]
	m.mu.RUnlock()
	if !ok {
		return "", apperrors.NewFetchError(ref.String(), ErrNotFound)
	}

	if d.Delay > 0 {
		timer := time.NewTimer(d.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", apperrors.NewFetchError(ref.String(), ctx.Err())
		}
	}
	if d.Err != nil {
		return "", apperrors.NewFetchError(ref.String(), d.Err)
	}
	return d.Content, nil
}
