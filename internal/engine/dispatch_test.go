package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/dealhound/internal/config"
	"github.com/donaldgifford/dealhound/internal/metrics"
	"github.com/donaldgifford/dealhound/internal/notify"
	notifyMocks "github.com/donaldgifford/dealhound/internal/notify/mocks"
)

func alertDecision() AlertDecision {
	return Evaluate(priced("39.99"), decimal.NewFromInt(50))
}

func baseConfig() *config.Config {
	return &config.Config{
		PriceThreshold: 50,
		EmailAlerts: config.EmailConfig{
			SMTPServer: "smtp.example.com",
			SMTPPort:   587,
		},
	}
}

func TestDispatcher_NoAlert(t *testing.T) {
	t.Parallel()

	mn := notifyMocks.NewMockNotifier(t)
	d := NewDispatcher(WithDispatchLogger(quietLogger()), WithNotifier(mn))

	res := d.Dispatch(context.Background(), Evaluate(priced("60"), decimal.NewFromInt(50)), baseConfig())
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Equal(t, "no alert", res.Reason)
}

func TestDispatcher_NoChannels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "nothing enabled", mutate: func(*config.Config) {}},
		{
			name: "email enabled without password",
			mutate: func(c *config.Config) {
				c.EmailAlerts.Enabled = true
				c.EmailAlerts.SenderEmail = "a@example.com"
				c.EmailAlerts.RecipientEmail = "b@example.com"
			},
		},
		{
			name:   "discord enabled without webhook",
			mutate: func(c *config.Config) { c.Discord.Enabled = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := baseConfig()
			tt.mutate(cfg)

			d := NewDispatcher(WithDispatchLogger(quietLogger()))
			assert.Empty(t, d.Channels(cfg))

			res := d.Dispatch(context.Background(), alertDecision(), cfg)
			assert.Equal(t, StatusSkipped, res.Status)
			assert.Contains(t, res.Reason, "no notification channel")
		})
	}
}

func TestDispatcher_Email(t *testing.T) {
	t.Parallel()

	var gotTo []string
	send := func(_ string, _ smtp.Auth, _ string, to []string, _ []byte) error {
		gotTo = to
		return nil
	}

	cfg := baseConfig()
	cfg.EmailAlerts.Enabled = true
	cfg.EmailAlerts.SenderEmail = "a@example.com"
	cfg.EmailAlerts.Password = "pw"
	cfg.EmailAlerts.RecipientEmail = "b@example.com"

	d := NewDispatcher(
		WithDispatchLogger(quietLogger()),
		WithEmailOptions(notify.WithSendFunc(send)),
	)

	channels := d.Channels(cfg)
	require.Len(t, channels, 1)
	assert.Equal(t, "email", channels[0].Name)

	res := d.Dispatch(context.Background(), alertDecision(), cfg)
	assert.Equal(t, StatusSent, res.Status)
	assert.Equal(t, []string{"b@example.com"}, gotTo)
}

func TestDispatcher_DiscordFailureIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := baseConfig()
	cfg.Discord.Enabled = true
	cfg.Discord.WebhookURL = srv.URL

	before := ptestutil.ToFloat64(metrics.NotificationFailuresTotal)

	d := NewDispatcher(WithDispatchLogger(quietLogger()))
	res := d.Dispatch(context.Background(), alertDecision(), cfg)

	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Reason, "discord returned 500")
	assert.InDelta(t, before+1, ptestutil.ToFloat64(metrics.NotificationFailuresTotal), 0.001)
}

func TestDispatcher_PayloadFromDecision(t *testing.T) {
	t.Parallel()

	decision := alertDecision()

	mn := notifyMocks.NewMockNotifier(t)
	mn.EXPECT().
		SendAlert(mock.Anything, mock.MatchedBy(func(p *notify.AlertPayload) bool {
			return p.ProductName == "Widget" &&
				p.Price.Equal(decimal.RequireFromString("39.99")) &&
				p.Threshold.Equal(decimal.NewFromInt(50)) &&
				p.URL == "https://www.amazon.com/dp/B1"
		})).
		Return(nil).
		Once()

	d := NewDispatcher(WithDispatchLogger(quietLogger()), WithNotifier(mn))
	res := d.Dispatch(context.Background(), decision, baseConfig())
	assert.Equal(t, StatusSent, res.Status)
}

func TestDispatcher_OverrideError(t *testing.T) {
	t.Parallel()

	mn := notifyMocks.NewMockNotifier(t)
	mn.EXPECT().SendAlert(mock.Anything, mock.Anything).Return(errors.New("smtp: 535")).Once()

	d := NewDispatcher(WithDispatchLogger(quietLogger()), WithNotifier(mn))
	res := d.Dispatch(context.Background(), alertDecision(), baseConfig())
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, "smtp: 535", res.Reason)
}
