// Package price parses currency-formatted text into validated decimal prices.
package price

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

	// MaxPrice is the exclusive upper bound for an accepted price.
	MaxPrice = decimal.NewFromInt(1_000_000)
)

// Normalize extracts the first number from raw and returns it when it lies
// strictly between 0 and MaxPrice. Malformed or out-of-range text yields false.
func Normalize(raw string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, raw)

	match := numberRe.FindString(cleaned)
	if match == "" {
		return decimal.Decimal{}, false
	}

	v, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Decimal{}, false
	}

	if !v.IsPositive() || !v.LessThan(MaxPrice) {
		return decimal.Decimal{}, false
	}

	return v, true
}

// JoinFraction combines a whole-part and a fractional-part text the way sites
// that render dollars and cents in separate nodes expect. A trailing decimal
// point on the whole part is dropped before joining.
func JoinFraction(whole, fraction string) string {
	whole = strings.TrimSpace(whole)
	fraction = strings.TrimSpace(fraction)
	if fraction == "" {
		return whole
	}
	return strings.TrimSuffix(whole, ".") + "." + fraction
}

// Format renders p with exactly two decimals.
func Format(p decimal.Decimal) string {
	return p.StringFixed(2)
}
