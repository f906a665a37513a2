package document_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/dealhound/internal/document"
)

const productURL = "https://www.amazon.com/dp/B0TEST"

func newMockedSource(t *testing.T) (*document.StaticSource, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	src := document.NewStaticSource(
		document.WithHTTPClient(&http.Client{Transport: transport}),
		document.WithStaticUserAgent("dealhound-test"),
	)
	return src, transport
}

func TestStaticSource_Open(t *testing.T) {
	t.Parallel()

	src, transport := newMockedSource(t)
	transport.RegisterResponder(http.MethodGet, productURL,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "dealhound-test", req.Header.Get("User-Agent"))
			return httpmock.NewStringResponse(http.StatusOK, sampleHTML), nil
		},
	)

	doc, err := src.Open(context.Background(), productURL)
	require.NoError(t, err)
	assert.Equal(t, productURL, doc.URL())

	el, err := doc.Query(context.Background(), "span.a-offscreen", 0)
	require.NoError(t, err)
	text, err := el.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "$19.99", text)

	assert.Equal(t, 1, transport.GetTotalCallCount())
	require.NoError(t, src.Close())
}

func TestStaticSource_Open_FollowsRedirect(t *testing.T) {
	t.Parallel()

	const canonicalURL = "https://www.amazon.com/Widget-Pro/dp/B0TEST"

	src, transport := newMockedSource(t)
	transport.RegisterResponder(http.MethodGet, productURL,
		func(*http.Request) (*http.Response, error) {
			resp := httpmock.NewStringResponse(http.StatusMovedPermanently, "")
			resp.Header.Set("Location", canonicalURL)
			return resp, nil
		},
	)
	transport.RegisterResponder(http.MethodGet, canonicalURL,
		httpmock.NewStringResponder(http.StatusOK, sampleHTML))

	doc, err := src.Open(context.Background(), productURL)
	require.NoError(t, err)
	assert.Equal(t, canonicalURL, doc.URL())
	assert.Equal(t, 2, transport.GetTotalCallCount())
}

func TestStaticSource_Open_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		responder httpmock.Responder
		errMsg    string
	}{
		{
			name:      "non-2xx status",
			responder: httpmock.NewStringResponder(http.StatusServiceUnavailable, "robot check"),
			errMsg:    "unexpected status 503",
		},
		{
			name:      "transport error",
			responder: httpmock.NewErrorResponder(assert.AnError),
			errMsg:    "fetching page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, transport := newMockedSource(t)
			transport.RegisterResponder(http.MethodGet, productURL, tt.responder)

			_, err := src.Open(context.Background(), productURL)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestStaticSource_InvalidURL(t *testing.T) {
	t.Parallel()

	src := document.NewStaticSource()
	_, err := src.Open(context.Background(), "://not-a-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating request")
}
