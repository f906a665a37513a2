// Package domain defines the core types exchanged between the extractor,
// the observation log and the alerting pipeline.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Availability is the normalized stock state of a listing.
type Availability string

// Availability constants. The values are what the observation log stores.
const (
	InStock    Availability = "In Stock"
	OutOfStock Availability = "Out of Stock"
	Unknown    Availability = "Unknown"
)

// NotAvailable is written in place of a missing price.
const NotAvailable = "N/A"

// Observation is one successful visit of a product page.
type Observation struct {
	ObservedAt   time.Time        `json:"observed_at"`
	ProductName  string           `json:"product_name"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Availability Availability     `json:"availability"`
	URL          string           `json:"url"`
}

// HasPrice reports whether a price was found on the page.
func (o *Observation) HasPrice() bool {
	return o.Price != nil
}

// PriceString returns the price with two decimals, or N/A when absent.
func (o *Observation) PriceString() string {
	if o.Price == nil {
		return NotAvailable
	}
	return o.Price.StringFixed(2)
}

// FailureReason classifies why a visit produced no observation.
type FailureReason string

// Failure reasons.
const (
	ReasonMissingName     FailureReason = "missing_name"
	ReasonUnexpectedError FailureReason = "unexpected_error"
	ReasonNavigation      FailureReason = "navigation_error"
	ReasonStorage         FailureReason = "storage_error"
)

// Failure describes a visit that did not produce a stored observation.
type Failure struct {
	Reason FailureReason `json:"reason"`
	URL    string        `json:"url"`
	Detail string        `json:"detail,omitempty"`
	Err    error         `json:"-"`
}

// Error implements error so failures can be logged and wrapped directly.
func (f *Failure) Error() string {
	if f.Detail == "" {
		return string(f.Reason) + ": " + f.URL
	}
	return string(f.Reason) + ": " + f.URL + ": " + f.Detail
}

// Unwrap returns the underlying error, if any.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Outcome is the result of extracting one page. Exactly one of Observation
// and Failure is set.
type Outcome struct {
	Observation *Observation
	Failure     *Failure
}

// Success wraps an observation in an Outcome.
func Success(obs *Observation) Outcome {
	return Outcome{Observation: obs}
}

// Fail builds a failed Outcome.
func Fail(reason FailureReason, url string, err error) Outcome {
	f := &Failure{Reason: reason, URL: url, Err: err}
	if err != nil {
		f.Detail = err.Error()
	}
	return Outcome{Failure: f}
}

// OK reports whether the outcome carries an observation.
func (o Outcome) OK() bool {
	return o.Observation != nil
}
