package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/donaldgifford/dealhound/internal/metrics"
)

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier implements Notifier via SMTP. smtp.SendMail upgrades the
// connection with STARTTLS when the server offers it.
type EmailNotifier struct {
	host     string
	port     int
	from     string
	password string
	to       string
	send     SendFunc
	now      func() time.Time
}

// EmailOption configures an EmailNotifier.
type EmailOption func(*EmailNotifier)

// WithSendFunc replaces the SMTP transport.
func WithSendFunc(fn SendFunc) EmailOption {
	return func(e *EmailNotifier) {
		e.send = fn
	}
}

// NewEmailNotifier creates a new EmailNotifier that logs in as from.
func NewEmailNotifier(host string, port int, from, password, to string, opts ...EmailOption) *EmailNotifier {
	e := &EmailNotifier{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		to:       to,
		send:     smtp.SendMail,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SendAlert sends a single alert as a plain-text email.
func (e *EmailNotifier) SendAlert(ctx context.Context, alert *AlertPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		metrics.NotificationDuration.Observe(time.Since(start).Seconds())
	}()

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.from, e.password, e.host)

	if err := e.send(addr, auth, e.from, []string{e.to}, e.message(alert)); err != nil {
		return fmt.Errorf("sending email via %s: %w", addr, err)
	}
	return nil
}

func (e *EmailNotifier) message(alert *AlertPayload) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", e.from)
	fmt.Fprintf(&b, "To: %s\r\n", e.to)
	fmt.Fprintf(&b, "Subject: %s\r\n", headerSafe(alert.Subject()))
	fmt.Fprintf(&b, "Date: %s\r\n", e.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(alert.Body(), "\n", "\r\n"))
	return []byte(b.String())
}

// headerSafe keeps product names from injecting extra headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
