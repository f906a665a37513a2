package document_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/dealhound/internal/document"
)

const sampleHTML = `<html><body>
<h1 class="a-size-large"><span id="productTitle">  Widget Pro  </span></h1>
<span class="a-price"><span class="a-offscreen">$19.99</span></span>
</body></html>`

func TestHTMLDocument_Query(t *testing.T) {
	t.Parallel()

	doc, err := document.FromHTML("https://www.amazon.com/dp/B000", sampleHTML)
	require.NoError(t, err)
	assert.Equal(t, "https://www.amazon.com/dp/B000", doc.URL())

	ctx := context.Background()

	el, err := doc.Query(ctx, "span#productTitle", 0)
	require.NoError(t, err)
	text, err := el.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "  Widget Pro  ", text)

	_, err = doc.Query(ctx, "#priceblock_ourprice", 0)
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestHTMLDocument_QueryFirstMatch(t *testing.T) {
	t.Parallel()

	doc, err := document.FromHTML("u", `<p class="x">one</p><p class="x">two</p>`)
	require.NoError(t, err)

	el, err := doc.Query(context.Background(), "p.x", 0)
	require.NoError(t, err)
	text, err := el.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "one", text)
}

func TestHTMLDocument_CancelledContext(t *testing.T) {
	t.Parallel()

	doc, err := document.FromHTML("u", sampleHTML)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = doc.Query(ctx, "span#productTitle", 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, document.ErrNotFound)
}

func TestHTMLDocument_Screenshot(t *testing.T) {
	t.Parallel()

	doc, err := document.FromHTML("u", sampleHTML)
	require.NoError(t, err)

	_, err = doc.Screenshot(context.Background())
	assert.ErrorIs(t, err, document.ErrScreenshotUnsupported)
}
