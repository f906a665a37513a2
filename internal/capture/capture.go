// Package capture writes diagnostic screenshots of pages that failed to
// extract.
package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/donaldgifford/dealhound/internal/document"
	"github.com/donaldgifford/dealhound/internal/metrics"
)

const maxNameRunes = 50

var unsafeChars = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// Writer saves PNG captures into a directory, creating it on first use.
type Writer struct {
	dir string
	now func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock sets the clock used for file names.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter creates a Writer for dir.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Capture takes a screenshot from shooter and writes it, returning the path.
func (w *Writer) Capture(ctx context.Context, shooter document.Screenshotter, url string) (string, error) {
	png, err := shooter.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("taking screenshot: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return "", fmt.Errorf("creating screenshots dir: %w", err)
	}

	path := filepath.Join(w.dir, FileName(w.now(), url))
	if err := os.WriteFile(path, png, 0o600); err != nil {
		return "", fmt.Errorf("writing screenshot: %w", err)
	}

	metrics.ScreenshotsTotal.Inc()
	return path, nil
}

// FileName returns "<YYYYMMDD_HHMMSS>_<sanitized url>.png".
func FileName(at time.Time, url string) string {
	return at.Format("20060102_150405") + "_" + SanitizeURL(url) + ".png"
}

// SanitizeURL drops the scheme, replaces path-unsafe characters with '_' and
// keeps the first 50 characters.
func SanitizeURL(url string) string {
	s := strings.TrimPrefix(url, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = unsafeChars.Replace(s)

	if r := []rune(s); len(r) > maxNameRunes {
		s = string(r[:maxNameRunes])
	}
	return s
}
