package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// ErrProductsNotFound is returned when the product list file does not exist.
var ErrProductsNotFound = errors.New("products file not found")

// LoadProducts reads one URL per line. Blank lines and lines starting with
// '#' are ignored. The order of the file is preserved.
func LoadProducts(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path from trusted CLI flag
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrProductsNotFound, path)
		}
		return nil, fmt.Errorf("opening products file: %w", err)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading products file: %w", err)
	}

	return urls, nil
}
