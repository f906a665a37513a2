// Package document defines the narrow capability the tracker needs from a
// rendered product page, plus adapters over headless Chrome and plain HTTP.
package document

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Query when no element matches the selector
// before the timeout elapses. It is the expected miss of a selector strategy,
// not an unexpected document error.
var ErrNotFound = errors.New("element not found")

// ErrScreenshotUnsupported is returned by documents that cannot render pixels.
var ErrScreenshotUnsupported = errors.New("screenshots not supported by this document")

// Element is a single node matched by a selector.
type Element interface {
	Text(ctx context.Context) (string, error)
}

// Screenshotter captures the current rendering as PNG bytes.
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// Document is a rendered page that can be queried by CSS selector.
type Document interface {
	Screenshotter

	// URL returns the address the document was opened from.
	URL() string

	// Query returns the first element matching selector, waiting up to
	// timeout for it to appear. A zero timeout checks once. Absence is
	// reported as ErrNotFound.
	Query(ctx context.Context, selector string, timeout time.Duration) (Element, error)
}

// Source opens documents by URL. A Source is used by one run at a time and
// must be closed when the run ends.
type Source interface {
	Open(ctx context.Context, url string) (Document, error)
	Close() error
}

// Acquirer starts a Source for the duration of a run.
type Acquirer func(ctx context.Context) (Source, error)

var (
	_ Source        = (*StaticSource)(nil)
	_ Source        = (*BrowserSource)(nil)
	_ Screenshotter = (*BrowserSource)(nil)
	_ Document      = (*HTMLDocument)(nil)
	_ Document      = (*browserDocument)(nil)
)
