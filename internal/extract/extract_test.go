package extract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/dealhound/internal/document"
	"github.com/donaldgifford/dealhound/internal/extract"
	domain "github.com/donaldgifford/dealhound/pkg/types"
)

const productURL = "https://www.amazon.com/dp/B000TEST"

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func testOptions() extract.Options {
	return extract.Options{
		ExplicitWait: time.Second,
		ImplicitWait: time.Second,
		Now:          func() time.Time { return fixedNow },
	}
}

func mustDoc(t *testing.T, html string) *document.HTMLDocument {
	t.Helper()
	doc, err := document.FromHTML(productURL, html)
	require.NoError(t, err)
	return doc
}

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		html      string
		wantName  string
		wantPrice string // "" means absent
		wantAvail domain.Availability
	}{
		{
			name: "full amazon layout with split price",
			html: `<html><body>
				<span id="productTitle">  Acme Widget Pro  </span>
				<span class="a-price"><span class="a-price-whole">1,234<span class="a-price-decimal">.</span></span><span class="a-price-fraction">56</span></span>
				<div id="availability"><span> In Stock. </span></div>
			</body></html>`,
			wantName:  "Acme Widget Pro",
			wantPrice: "1234.56",
			wantAvail: domain.InStock,
		},
		{
			name: "name found by third strategy",
			html: `<html><body>
				<div id="title"><span>Title Block Widget</span></div>
				<span class="a-offscreen">$19.99</span>
				<div id="availability">Only 3 left in stock - order soon.</div>
			</body></html>`,
			wantName:  "Title Block Widget",
			wantPrice: "19.99",
			wantAvail: domain.InStock,
		},
		{
			name: "empty title text falls through to next strategy",
			html: `<html><body>
				<span id="productTitle">   </span>
				<h1 class="a-size-large">Heading Widget</h1>
			</body></html>`,
			wantName:  "Heading Widget",
			wantAvail: domain.Unknown,
		},
		{
			name: "unavailable text matches the in-stock phrase first",
			html: `<html><body>
				<span id="productTitle">W</span>
				<div id="availability"><span>Currently unavailable.</span></div>
			</body></html>`,
			wantName:  "W",
			wantAvail: domain.InStock,
		},
		{
			name: "out of stock wins even with a price",
			html: `<html><body>
				<span id="productTitle">Widget</span>
				<span id="priceblock_ourprice">$45.00</span>
				<div id="availability"><span>Temporarily out of stock.</span></div>
			</body></html>`,
			wantName:  "Widget",
			wantPrice: "45",
			wantAvail: domain.OutOfStock,
		},
		{
			name: "priced listing without stock text assumed in stock",
			html: `<html><body>
				<span id="productTitle">Widget</span>
				<span id="priceblock_dealprice">$29.99</span>
			</body></html>`,
			wantName:  "Widget",
			wantPrice: "29.99",
			wantAvail: domain.InStock,
		},
		{
			name: "unclassified stock text with no price stays unknown",
			html: `<html><body>
				<span id="productTitle">Widget</span>
				<div id="availability"><span>Ships from and sold by Acme.</span></div>
			</body></html>`,
			wantName:  "Widget",
			wantAvail: domain.Unknown,
		},
		{
			name: "invalid price candidates are skipped",
			html: `<html><body>
				<span id="productTitle">Widget</span>
				<span class="a-offscreen">See price in cart</span>
				<span id="priceblock_ourprice">$0.00</span>
				<span id="priceblock_dealprice">$15.50</span>
			</body></html>`,
			wantName:  "Widget",
			wantPrice: "15.5",
			wantAvail: domain.InStock,
		},
		{
			name: "price out of range is absent",
			html: `<html><body>
				<span id="productTitle">Widget</span>
				<span class="a-offscreen">$2,000,000.00</span>
			</body></html>`,
			wantName:  "Widget",
			wantAvail: domain.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := extract.Extract(context.Background(), mustDoc(t, tt.html), productURL, testOptions())
			require.True(t, out.OK(), "unexpected failure: %v", out.Failure)

			obs := out.Observation
			assert.Equal(t, tt.wantName, obs.ProductName)
			assert.Equal(t, tt.wantAvail, obs.Availability)
			assert.Equal(t, productURL, obs.URL)
			assert.Equal(t, fixedNow, obs.ObservedAt)

			if tt.wantPrice == "" {
				assert.Nil(t, obs.Price)
				return
			}
			require.NotNil(t, obs.Price)
			assert.Equal(t, tt.wantPrice, obs.Price.String())
		})
	}
}

func TestExtract_MissingName(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `<html><body>
		<span class="a-offscreen">$19.99</span>
		<div id="availability"><span>In Stock</span></div>
	</body></html>`)

	out := extract.Extract(context.Background(), doc, productURL, testOptions())
	require.False(t, out.OK())
	assert.Equal(t, domain.ReasonMissingName, out.Failure.Reason)
	assert.Equal(t, productURL, out.Failure.URL)
}

// faultyDocument fails on one selector and misses everything else.
type faultyDocument struct {
	failOn  string
	err     error
	queried []string
}

func (d *faultyDocument) URL() string { return productURL }

func (d *faultyDocument) Query(_ context.Context, selector string, _ time.Duration) (document.Element, error) {
	d.queried = append(d.queried, selector)
	if selector == d.failOn {
		return nil, d.err
	}
	if selector == "span#productTitle" {
		return textElement("Widget"), nil
	}
	return nil, document.ErrNotFound
}

func (*faultyDocument) Screenshot(context.Context) ([]byte, error) {
	return nil, document.ErrScreenshotUnsupported
}

type textElement string

func (e textElement) Text(context.Context) (string, error) { return string(e), nil }

func TestExtract_UnexpectedError(t *testing.T) {
	t.Parallel()

	errSession := errors.New("invalid session id")

	tests := []struct {
		name   string
		failOn string
	}{
		{name: "during name lookup", failOn: "span#productTitle"},
		{name: "during price lookup", failOn: "#priceblock_ourprice"},
		{name: "during availability lookup", failOn: "#stockAvailability"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := &faultyDocument{failOn: tt.failOn, err: errSession}
			out := extract.Extract(context.Background(), doc, productURL, testOptions())

			require.False(t, out.OK())
			assert.Equal(t, domain.ReasonUnexpectedError, out.Failure.Reason)
			assert.ErrorIs(t, out.Failure, errSession)
			assert.Contains(t, out.Failure.Detail, "invalid session id")
			assert.Equal(t, tt.failOn, doc.queried[len(doc.queried)-1], "extraction stops at the failing query")
		})
	}
}

func TestExtract_CanceledContext(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `<span id="productTitle">Widget</span>`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := extract.Extract(ctx, doc, productURL, testOptions())
	require.False(t, out.OK())
	assert.Equal(t, domain.ReasonUnexpectedError, out.Failure.Reason)
	assert.ErrorIs(t, out.Failure, context.Canceled)
}

func TestStrategyOrder(t *testing.T) {
	t.Parallel()

	selectors := func(ss []extract.Strategy) []string {
		out := make([]string, 0, len(ss))
		for _, s := range ss {
			out = append(out, s.Selector)
		}
		return out
	}

	assert.Equal(t, []string{
		"span#productTitle", "h1.a-size-large", "#title span", "h1 span",
	}, selectors(extract.NameStrategies))
	assert.Equal(t, []string{
		"span.a-price-whole",
		"span.a-offscreen",
		"#priceblock_ourprice",
		"#priceblock_dealprice",
		".a-price .a-offscreen",
		"span[data-a-color='price'] span.a-offscreen",
		".a-price span",
	}, selectors(extract.PriceStrategies))
	assert.Equal(t, []string{
		"#availability span", "#availability", "#stockAvailability", "div#availability",
	}, selectors(extract.AvailabilityStrategies))
}
