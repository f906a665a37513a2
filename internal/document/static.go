package document

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

const maxBodyBytes = 5 << 20

// StaticSource fetches pages over plain HTTP and parses them without
// executing scripts. It is cheaper than a browser but misses content that
// the site renders client-side.
type StaticSource struct {
	client    *http.Client
	userAgent string
}

// StaticOption configures a StaticSource.
type StaticOption func(*StaticSource)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) StaticOption {
	return func(s *StaticSource) {
		s.client = c
	}
}

// WithStaticUserAgent sets the User-Agent header sent with every request.
func WithStaticUserAgent(ua string) StaticOption {
	return func(s *StaticSource) {
		s.userAgent = ua
	}
}

// NewStaticSource creates a StaticSource.
func NewStaticSource(opts ...StaticOption) *StaticSource {
	s := &StaticSource{
		client:    http.DefaultClient,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open downloads url, following redirects, and parses the response body.
func (s *StaticSource) Open(ctx context.Context, url string) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching page: unexpected status %d", resp.StatusCode)
	}

	// The document keeps the address the redirects ended at.
	final := url
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	return NewHTMLDocument(final, io.LimitReader(resp.Body, maxBodyBytes))
}

// Close releases idle connections.
func (s *StaticSource) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
