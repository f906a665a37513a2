package engine

import (
	"context"
	"log/slog"

	"github.com/donaldgifford/dealhound/internal/config"
	"github.com/donaldgifford/dealhound/internal/metrics"
	"github.com/donaldgifford/dealhound/internal/notify"
)

// DispatchStatus is the outcome of an alert delivery attempt.
type DispatchStatus string

// Dispatch statuses.
const (
	StatusSent    DispatchStatus = "sent"
	StatusSkipped DispatchStatus = "skipped"
	StatusFailed  DispatchStatus = "failed"
)

// DispatchResult reports what happened to an alert.
type DispatchResult struct {
	Status DispatchStatus
	Reason string
}

// Dispatcher turns alert decisions into notifications. Delivery problems are
// reported in the result and never returned as errors.
type Dispatcher struct {
	log         *slog.Logger
	override    notify.Notifier
	emailOpts   []notify.EmailOption
	discordOpts []notify.DiscordOption
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatchLogger sets a custom logger.
func WithDispatchLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// WithNotifier bypasses config-driven channel selection and sends every
// alert to n.
func WithNotifier(n notify.Notifier) DispatcherOption {
	return func(d *Dispatcher) {
		d.override = n
	}
}

// WithEmailOptions passes options to the email channel when it is built.
func WithEmailOptions(opts ...notify.EmailOption) DispatcherOption {
	return func(d *Dispatcher) {
		d.emailOpts = append(d.emailOpts, opts...)
	}
}

// WithDiscordOptions passes options to the Discord channel when it is built.
func WithDiscordOptions(opts ...notify.DiscordOption) DispatcherOption {
	return func(d *Dispatcher) {
		d.discordOpts = append(d.discordOpts, opts...)
	}
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{log: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Channels builds the notification channels usable under cfg.
func (d *Dispatcher) Channels(cfg *config.Config) []notify.Channel {
	var channels []notify.Channel

	email := cfg.EmailAlerts
	if email.Enabled {
		if email.HasCredentials() {
			channels = append(channels, notify.Channel{
				Name: "email",
				Notifier: notify.NewEmailNotifier(
					email.SMTPServer, email.SMTPPort,
					email.SenderEmail, email.Password, email.RecipientEmail,
					d.emailOpts...,
				),
			})
		} else {
			d.log.Warn("email alerts enabled but credentials missing; check .env or config")
		}
	}

	if cfg.Discord.Enabled {
		if cfg.Discord.WebhookURL != "" {
			channels = append(channels, notify.Channel{
				Name:     "discord",
				Notifier: notify.NewDiscordNotifier(cfg.Discord.WebhookURL, d.discordOpts...),
			})
		} else {
			d.log.Warn("discord alerts enabled but webhook url missing")
		}
	}

	return channels
}

// Dispatch delivers decision when it is an alert.
func (d *Dispatcher) Dispatch(ctx context.Context, decision AlertDecision, cfg *config.Config) DispatchResult {
	if !decision.Alert {
		return DispatchResult{Status: StatusSkipped, Reason: "no alert"}
	}

	payload := &notify.AlertPayload{
		ProductName:  decision.Observation.ProductName,
		Price:        decision.Price,
		Threshold:    decision.Threshold,
		Availability: decision.Observation.Availability,
		URL:          decision.Observation.URL,
		ObservedAt:   decision.Observation.ObservedAt,
	}

	n := d.override
	if n == nil {
		multi := notify.NewMultiNotifier(d.Channels(cfg)...)
		if multi.Len() == 0 {
			_ = notify.NewNoOpNotifier(d.log).SendAlert(ctx, payload)
			return DispatchResult{Status: StatusSkipped, Reason: "no notification channel configured"}
		}
		n = multi
	}

	if err := n.SendAlert(ctx, payload); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		d.log.Error("alert delivery failed",
			"product", payload.ProductName,
			"url", payload.URL,
			"error", err,
		)
		return DispatchResult{Status: StatusFailed, Reason: err.Error()}
	}

	d.log.Info("alert sent", "product", payload.ProductName, "price", payload.Price.StringFixed(2))
	return DispatchResult{Status: StatusSent}
}
