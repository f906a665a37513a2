package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	domain "github.com/donaldgifford/dealhound/pkg/types"
)

// TimestampLayout is the observation log's timestamp format, in local time.
const TimestampLayout = "2006-01-02 15:04:05"

// CSVHeader is written once at the top of a new or empty log.
var CSVHeader = []string{"timestamp", "product_name", "price", "availability", "url"}

// CSVSink appends observations to a CSV file. The file is opened, appended
// and closed on every write so a crash never leaves buffered rows behind.
type CSVSink struct {
	path string
	mu   sync.Mutex
}

// NewCSVSink creates a sink writing to path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Path returns the log file location.
func (s *CSVSink) Path() string {
	return s.path
}

// Append writes one row, adding the header first when the file is absent or
// empty.
func (s *CSVSink) Append(ctx context.Context, obs *domain.Observation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating results dir: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec // path from config
	if err != nil {
		return fmt.Errorf("opening results file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat results file: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(CSVHeader); err != nil {
			_ = f.Close()
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := w.Write(Row(obs)); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flushing results file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing results file: %w", err)
	}
	return nil
}

// Row renders obs as a CSV record.
func Row(obs *domain.Observation) []string {
	return []string{
		obs.ObservedAt.Local().Format(TimestampLayout),
		obs.ProductName,
		obs.PriceString(),
		string(obs.Availability),
		obs.URL,
	}
}
