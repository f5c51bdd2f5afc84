package source

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/wordcount/internal/errors"
)

const (
	// DefaultHackerNewsAPI is the public Hacker News Firebase API root.
	DefaultHackerNewsAPI = "https://hacker-news.firebaseio.com/v0"

	// DiscussionURLPrefix is used for items that do not link anywhere.
	DiscussionURLPrefix = "https://news.ycombinator.com/item?id="

	// maxConcurrentItemLookups bounds concurrent item metadata requests.
	maxConcurrentItemLookups = 16
)

// TopStoriesURL returns the top stories endpoint under base.
func TopStoriesURL(base string) string {
	return strings.TrimRight(base, "/") + "/topstories.json"
}

// ConstructItemURL returns the item metadata endpoint for id under base.
func ConstructItemURL(base string, id int) string {
	return strings.TrimRight(base, "/") + "/item/" + strconv.Itoa(id) + ".json"
}

// hackerNewsItem is the subset of item metadata the listing needs.
type hackerNewsItem struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// HackerNewsOption configures a HackerNews source.
type HackerNewsOption func(*HackerNews)

// WithBaseURL points the source at a different API root.
func WithBaseURL(base string) HackerNewsOption {
	return func(h *HackerNews) {
		if base != "" {
			h.base = base
		}
	}
}

// HackerNews lists the current top stories and fetches the pages they link.
type HackerNews struct {
	*HTTPFetcher
	base string
}

var _ Source = (*HackerNews)(nil)

// NewHackerNews creates a source that uses fetcher for both the API and
// the linked documents.
func NewHackerNews(fetcher *HTTPFetcher, opts ...HackerNewsOption) *HackerNews {
	if fetcher == nil {
		fetcher = NewHTTPFetcher(nil)
	}
	h := &HackerNews{HTTPFetcher: fetcher, base: DefaultHackerNewsAPI}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ListTopDocuments returns the URLs of up to max top stories, in ranking
// order. Stories without an outbound link resolve to their discussion page.
func (h *HackerNews) ListTopDocuments(ctx context.Context, max int) ([]Ref, error) {
	var ids []int
	if err := h.getJSON(ctx, TopStoriesURL(h.base), "topstories", &ids); err != nil {
		return nil, err
	}
	if max >= 0 && len(ids) > max {
		ids = ids[:max]
	}

	refs := make([]Ref, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentItemLookups)
	for i, id := range ids {
		g.Go(func() error {
			var item hackerNewsItem
			if err := h.getJSON(gctx, ConstructItemURL(h.base, id), "item "+strconv.Itoa(id), &item); err != nil {
				return err
			}
			refs[i] = itemRef(id, item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return refs, nil
}

func itemRef(id int, item hackerNewsItem) Ref {
	if strings.TrimSpace(item.URL) != "" {
		return Ref(item.URL)
	}
	return Ref(DiscussionURLPrefix + strconv.Itoa(id))
}

// getJSON fetches url and decodes it into v. Malformed payloads are reported
// as *apperrors.DecodeError.
func (h *HackerNews) getJSON(ctx context.Context, url, what string, v any) error {
	body, _, err := h.get(ctx, url)
	if err != nil {
		return apperrors.WrapError(err, "list %s", what)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &apperrors.DecodeError{What: what, Cause: err}
	}
	return nil
}
