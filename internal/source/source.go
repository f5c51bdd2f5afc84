//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks

// Package source supplies document locations and their content to the fetch
// pipeline. The pipeline only depends on the Lister and Fetcher interfaces;
// this package provides Hacker News, fixed URL list and in-memory
// implementations.
package source

import (
	"context"
	"strings"
)

// Ref identifies a document, typically its URL.
type Ref string

// String returns the reference as a string.
func (r Ref) String() string { return string(r) }

// IsBlank reports whether the reference is empty or only whitespace.
func (r Ref) IsBlank() bool { return strings.TrimSpace(string(r)) == "" }

// Lister returns up to max document references.
type Lister interface {
	ListTopDocuments(ctx context.Context, max int) ([]Ref, error)
}

// Fetcher resolves a reference to its content. Transport failures are
// returned as *apperrors.FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, ref Ref) (string, error)
}

// Source is both a Lister and a Fetcher.
type Source interface {
	Lister
	Fetcher
}

// Refs converts plain strings into references.
func Refs(values ...string) []Ref {
	refs := make([]Ref, len(values))
	for i, v := range values {
		refs[i] = Ref(v)
	}
	return refs
}

func truncate(refs []Ref, max int) []Ref {
	if max >= 0 && len(refs) > max {
		return refs[:max]
	}
	return refs
}
