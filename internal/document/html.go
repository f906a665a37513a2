package document

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// HTMLDocument is a static, already-rendered page backed by goquery. Queries
// never wait because the markup cannot change.
type HTMLDocument struct {
	url string
	doc *goquery.Document
}

// NewHTMLDocument parses r into an HTMLDocument.
func NewHTMLDocument(url string, r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return &HTMLDocument{url: url, doc: doc}, nil
}

// FromHTML parses an HTML string. It is mostly useful for fixtures.
func FromHTML(url, html string) (*HTMLDocument, error) {
	return NewHTMLDocument(url, strings.NewReader(html))
}

// URL returns the address the document was loaded from.
func (d *HTMLDocument) URL() string {
	return d.url
}

// Query returns the first match of selector or ErrNotFound.
func (d *HTMLDocument) Query(ctx context.Context, selector string, _ time.Duration) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sel := d.doc.Find(selector)
	if sel.Length() == 0 {
		return nil, ErrNotFound
	}
	return htmlElement{sel: sel.First()}, nil
}

// Screenshot is not available for static markup.
func (*HTMLDocument) Screenshot(context.Context) ([]byte, error) {
	return nil, ErrScreenshotUnsupported
}

type htmlElement struct {
	sel *goquery.Selection
}

func (e htmlElement) Text(context.Context) (string, error) {
	return e.sel.Text(), nil
}
