package store_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/dealhound/internal/store"
	domain "github.com/donaldgifford/dealhound/pkg/types"
)

func testObservation(name string, price *decimal.Decimal) *domain.Observation {
	return &domain.Observation{
		ObservedAt:   time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local),
		ProductName:  name,
		Price:        price,
		Availability: domain.InStock,
		URL:          "https://www.amazon.com/dp/B0TEST",
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVSink_Append(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.csv")
	sink := store.NewCSVSink(path)
	ctx := context.Background()

	price := decimal.RequireFromString("1234.5")
	require.NoError(t, sink.Append(ctx, testObservation("Widget, Deluxe", &price)))

	noPrice := testObservation("Gadget", nil)
	noPrice.Availability = domain.Unknown
	require.NoError(t, sink.Append(ctx, noPrice))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, store.CSVHeader, records[0])
	assert.Equal(t, []string{
		"2024-03-09 14:05:07", "Widget, Deluxe", "1234.50", "In Stock", "https://www.amazon.com/dp/B0TEST",
	}, records[1])
	assert.Equal(t, []string{
		"2024-03-09 14:05:07", "Gadget", "N/A", "Unknown", "https://www.amazon.com/dp/B0TEST",
	}, records[2])
}

func TestCSVSink_ExistingFileKeepsSingleHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte("timestamp,product_name,price,availability,url\n"), 0o600))

	sink := store.NewCSVSink(path)
	price := decimal.NewFromInt(10)
	require.NoError(t, sink.Append(context.Background(), testObservation("Widget", &price)))

	records := readCSV(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, "10.00", records[1][2])
}

func TestCSVSink_EmptyFileGetsHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "results.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	sink := store.NewCSVSink(path)
	require.NoError(t, sink.Append(context.Background(), testObservation("Widget", nil)))

	records := readCSV(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, store.CSVHeader, records[0])
}

func TestCSVSink_UnwritablePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// A directory where the file should be makes the open fail.
	path := filepath.Join(dir, "results.csv")
	require.NoError(t, os.Mkdir(path, 0o750))

	err := store.NewCSVSink(path).Append(context.Background(), testObservation("Widget", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening results file")
}
