package notify

import (
	"context"
	"errors"
	"fmt"
)

// Channel pairs a notifier with the name used in logs and errors.
type Channel struct {
	Name     string
	Notifier Notifier
}

// MultiNotifier fans an alert out to every channel. A failing channel does
// not stop delivery to the others.
type MultiNotifier struct {
	channels []Channel
}

// NewMultiNotifier creates a notifier over channels, in order.
func NewMultiNotifier(channels ...Channel) *MultiNotifier {
	return &MultiNotifier{channels: channels}
}

// Len returns the number of channels.
func (m *MultiNotifier) Len() int {
	return len(m.channels)
}

// SendAlert delivers to all channels and joins their errors.
func (m *MultiNotifier) SendAlert(ctx context.Context, alert *AlertPayload) error {
	var errs []error
	for _, ch := range m.channels {
		if err := ch.Notifier.SendAlert(ctx, alert); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name, err))
		}
	}
	return errors.Join(errs...)
}

// compile-time interface checks.
var (
	_ Notifier = (*DiscordNotifier)(nil)
	_ Notifier = (*EmailNotifier)(nil)
	_ Notifier = (*NoOpNotifier)(nil)
	_ Notifier = (*MultiNotifier)(nil)
)
