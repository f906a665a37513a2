// Package notify defines the notification interface and implementations
// for price alert delivery.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/donaldgifford/dealhound/pkg/types"
)

// AlertPayload contains the data needed to send a price alert.
type AlertPayload struct {
	ProductName  string
	Price        decimal.Decimal
	Threshold    decimal.Decimal
	Availability domain.Availability
	URL          string
	ObservedAt   time.Time
}

// Notifier defines the interface for sending price alert notifications.
type Notifier interface {
	SendAlert(ctx context.Context, alert *AlertPayload) error
}

// Subject is the one-line summary used for email subjects.
func (a *AlertPayload) Subject() string {
	name := a.ProductName
	if name == "" {
		name = "Product"
	}
	return fmt.Sprintf("DealHound Alert: %s Price Drop!", name)
}

// Body is the plain-text alert message.
func (a *AlertPayload) Body() string {
	var b strings.Builder
	b.WriteString("DealHound Price Alert!\n\n")
	fmt.Fprintf(&b, "Product: %s\n", a.ProductName)
	fmt.Fprintf(&b, "Current Price: $%s\n", a.Price.StringFixed(2))
	fmt.Fprintf(&b, "Threshold: $%s\n", a.Threshold.StringFixed(2))
	fmt.Fprintf(&b, "Availability: %s\n", a.Availability)
	fmt.Fprintf(&b, "URL: %s\n", a.URL)
	if !a.ObservedAt.IsZero() {
		fmt.Fprintf(&b, "Observed: %s\n", a.ObservedAt.Format(time.RFC1123))
	}
	b.WriteString("\nThe price has dropped below your threshold!\n")
	return b.String()
}

// SavingsPercent is how far below the threshold the price is, in percent.
// It is zero when the threshold is not positive.
func (a *AlertPayload) SavingsPercent() decimal.Decimal {
	if !a.Threshold.IsPositive() {
		return decimal.Zero
	}
	return a.Threshold.Sub(a.Price).Div(a.Threshold).Mul(decimal.NewFromInt(100))
}
