package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/agbru/wordcount/internal/errors"
)

const (
	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "wordcount/1.0 (Go)"

	// DefaultMaxBodyBytes caps how much of a response body is read.
	DefaultMaxBodyBytes int64 = 32 << 20
)

// RateLimitConfig configures the token bucket applied to outgoing requests.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate. Zero or less disables limiting.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// HTTPOption configures an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithRateLimit enables client-side rate limiting.
func WithRateLimit(cfg RateLimitConfig) HTTPOption {
	return func(f *HTTPFetcher) {
		if cfg.RequestsPerSecond <= 0 {
			f.limiter = nil
			return
		}
		burst := cfg.BurstSize
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
}

// WithMaxBodyBytes caps the number of body bytes read per response.
func WithMaxBodyBytes(n int64) HTTPOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// WithTextExtraction makes Fetch return the visible text of HTML documents
// instead of the raw body.
func WithTextExtraction(enabled bool) HTTPOption {
	return func(f *HTTPFetcher) { f.extractText = enabled }
}

// HTTPFetcher fetches documents over HTTP with an explicitly owned client.
type HTTPFetcher struct {
	client       *http.Client
	limiter      *rate.Limiter
	userAgent    string
	maxBodyBytes int64
	extractText  bool
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates a fetcher around client. A nil client is replaced by
// one with a conservative transport.
func NewHTTPFetcher(client *http.Client, opts ...HTTPOption) *HTTPFetcher {
	if client == nil {
		client = NewHTTPClient(30 * time.Second)
	}
	f := &HTTPFetcher{
		client:       client,
		userAgent:    DefaultUserAgent,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewHTTPClient returns a client tuned for many concurrent short fetches.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Fetch downloads ref and returns its body as text.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref Ref) (string, error) {
	body, contentType, err := f.get(ctx, ref.String())
	if err != nil {
		return "", apperrors.NewFetchError(ref.String(), err)
	}
	if f.extractText && isHTML(contentType, body) {
		text, err := ExtractText(body)
		if err != nil {
			return "", apperrors.NewFetchError(ref.String(), err)
		}
		return text, nil
	}
	return string(body), nil
}

// get performs a rate-limited GET and returns the body and content type.
func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func isHTML(contentType string, body []byte) bool {
	if contentType != "" {
		return strings.Contains(strings.ToLower(contentType), "html")
	}
	return strings.Contains(strings.ToLower(http.DetectContentType(body)), "html")
}
