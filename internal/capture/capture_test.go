package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/dealhound/internal/document"
)

type fakeShooter struct {
	png []byte
	err error
}

func (f fakeShooter) Screenshot(context.Context) ([]byte, error) {
	return f.png, f.err
}

var at = time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

func TestSanitizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "https scheme removed and slashes replaced",
			url:  "https://www.amazon.com/dp/B0TEST",
			want: "www.amazon.com_dp_B0TEST",
		},
		{
			name: "http scheme removed",
			url:  "http://amazon.com/x",
			want: "amazon.com_x",
		},
		{
			name: "query characters replaced",
			url:  "https://a.com/p?q=1&r=\"x\"",
			want: "a.com_p_q=1&r=_x_",
		},
		{
			name: "truncated to fifty characters",
			url:  "https://www.amazon.com/Some-Very-Long-Product-Title-Here/dp/B0TEST1234",
			want: "www.amazon.com_Some-Very-Long-Product-Title-Here_d",
		},
		{
			name: "multibyte runes are not split",
			url:  "https://example.com/" + "ü" + "/ab",
			want: "example.com_ü_ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SanitizeURL(tt.url)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), 50)
		})
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"20240309_140507_www.amazon.com_dp_B0TEST.png",
		FileName(at, "https://www.amazon.com/dp/B0TEST"),
	)
}

func TestWriter_Capture(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "screenshots")
	w := NewWriter(dir, WithClock(func() time.Time { return at }))

	path, err := w.Capture(context.Background(), fakeShooter{png: []byte("\x89PNG")}, "https://www.amazon.com/dp/B0TEST")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20240309_140507_www.amazon.com_dp_B0TEST.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data)
}

func TestWriter_Capture_ScreenshotError(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "screenshots")
	w := NewWriter(dir)

	_, err := w.Capture(context.Background(), fakeShooter{err: document.ErrScreenshotUnsupported}, "https://a.com")
	require.ErrorIs(t, err, document.ErrScreenshotUnsupported)

	_, statErr := os.Stat(dir)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "directory is created lazily")
}
