package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// List serves a fixed set of references and fetches them over HTTP.
type List struct {
	*HTTPFetcher
	refs []Ref
}

var _ Source = (*List)(nil)

// NewList creates a source over refs.
func NewList(fetcher *HTTPFetcher, refs []Ref) *List {
	if fetcher == nil {
		fetcher = NewHTTPFetcher(nil)
	}
	return &List{HTTPFetcher: fetcher, refs: append([]Ref(nil), refs...)}
}

// ListTopDocuments returns the first max references.
func (l *List) ListTopDocuments(_ context.Context, max int) ([]Ref, error) {
	return append([]Ref(nil), truncate(l.refs, max)...), nil
}

// ReadRefs reads one reference per line. Blank lines and lines starting
// with '#' are skipped.
func ReadRefs(r io.Reader) ([]Ref, error) {
	var refs []Ref
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, Ref(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read references: %w", err)
	}
	return refs, nil
}

// ReadRefsFile reads references from path (see ReadRefs).
func ReadRefsFile(path string) ([]Ref, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open references file: %w", err)
	}
	defer f.Close()
	return ReadRefs(f)
}
