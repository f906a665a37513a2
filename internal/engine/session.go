package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/dealhound/internal/capture"
	"github.com/donaldgifford/dealhound/internal/config"
	"github.com/donaldgifford/dealhound/internal/document"
	"github.com/donaldgifford/dealhound/internal/extract"
	"github.com/donaldgifford/dealhound/internal/metrics"
	"github.com/donaldgifford/dealhound/internal/store"
	"github.com/donaldgifford/dealhound/pkg/logger"
	domain "github.com/donaldgifford/dealhound/pkg/types"
)

const tracerName = "github.com/donaldgifford/dealhound/internal/engine"

// supportedSiteLabel is the host label a product URL must carry.
const supportedSiteLabel = "amazon"

// ErrSourceUnavailable is returned when the document source cannot be
// started. It aborts the run before any URL is visited.
var ErrSourceUnavailable = errors.New("document source unavailable")

// ErrInvalidURL marks a product line that is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid product url")

// Session runs the product list through extraction, storage and alerting.
type Session struct {
	acquire    document.Acquirer
	sink       store.Sink
	dispatcher *Dispatcher
	log        *slog.Logger
	now        func() time.Time
	tracer     trace.Tracer
	newRunID   func() string

	runDuration metric.Float64Histogram
	runVisits   metric.Int64Counter
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.log = l
	}
}

// WithClock sets the clock used for observation and capture timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// WithDispatcher sets the alert dispatcher.
func WithDispatcher(d *Dispatcher) SessionOption {
	return func(s *Session) {
		s.dispatcher = d
	}
}

// WithTracer sets the tracer used for per-visit spans.
func WithTracer(t trace.Tracer) SessionOption {
	return func(s *Session) {
		s.tracer = t
	}
}

// WithRunIDFunc sets the run id generator.
func WithRunIDFunc(fn func() string) SessionOption {
	return func(s *Session) {
		s.newRunID = fn
	}
}

// NewSession creates a Session that opens pages with acquire and records
// observations in sink.
func NewSession(acquire document.Acquirer, sink store.Sink, opts ...SessionOption) *Session {
	s := &Session{
		acquire:  acquire,
		sink:     sink,
		log:      slog.Default(),
		now:      time.Now,
		tracer:   otel.Tracer(tracerName),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	meter := otel.Meter(tracerName)
	// Instrument errors only occur for invalid names.
	s.runDuration, _ = meter.Float64Histogram("dealhound.run.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of a full run over the product list."),
	)
	s.runVisits, _ = meter.Int64Counter("dealhound.run.visits",
		metric.WithDescription("Product page visits by outcome."),
	)

	if s.dispatcher == nil {
		s.dispatcher = NewDispatcher(WithDispatchLogger(s.log))
	}
	return s
}

// visit is the result of processing one URL.
type visit struct {
	outcome domain.Outcome
	skipped bool
	alerted bool
}

// Run visits urls in order. Per-URL problems are counted in the summary and
// never returned; only a source that cannot start or a canceled context
// produce an error.
func (s *Session) Run(ctx context.Context, urls []string, cfg *config.Config) (summary *RunSummary, err error) {
	summary = &RunSummary{
		RunID:     s.newRunID(),
		StartedAt: s.now(),
		Total:     len(urls),
		Failures:  []domain.Failure{},
	}
	log := logger.ForRun(s.log, summary.RunID)
	ctx = store.WithRunID(ctx, summary.RunID)

	src, err := s.acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			log.Warn("closing document source", "error", cerr)
		}
	}()

	shots := capture.NewWriter(cfg.Output.ScreenshotsDir, capture.WithClock(s.now))

	log.Info("run started", "urls", len(urls))

	for _, u := range urls {
		if ctx.Err() != nil {
			break
		}

		v := s.visitSafely(ctx, src, shots, u, cfg, log)
		switch {
		case v.skipped:
			summary.Skipped++
		case v.outcome.OK():
			summary.Succeeded++
		default:
			summary.Failed++
			summary.Failures = append(summary.Failures, *v.outcome.Failure)
		}
		if v.alerted {
			summary.Alerts++
		}
	}

	summary.FinishedAt = s.now()
	metrics.LastRunTimestamp.Set(float64(summary.FinishedAt.Unix()))
	s.recordRun(ctx, summary)

	log.Info("run finished",
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"alerts", summary.Alerts,
		"duration", summary.Duration(),
	)

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("run interrupted: %w", err)
	}
	return summary, nil
}

// visitSafely processes one URL inside a span and turns a panic into an
// unexpected-error failure so the rest of the list still runs.
func (s *Session) visitSafely(
	ctx context.Context,
	src document.Source,
	shots *capture.Writer,
	rawURL string,
	cfg *config.Config,
	log *slog.Logger,
) (v visit) {
	ctx, span := s.tracer.Start(ctx, "visit", trace.WithAttributes(attribute.String("url", rawURL)))
	start := time.Now()
	log = log.With("url", rawURL)

	var doc document.Document

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic during visit", "panic", fmt.Sprint(r))
			v = visit{outcome: domain.Fail(domain.ReasonUnexpectedError, rawURL, fmt.Errorf("panic: %v", r))}
			s.captureFailure(ctx, src, doc, shots, rawURL, cfg, log)
		}

		outcome := metrics.OutcomeSuccess
		switch {
		case v.skipped:
			outcome = metrics.OutcomeSkipped
		case !v.outcome.OK():
			outcome = metrics.OutcomeFailure
			span.RecordError(v.outcome.Failure)
			span.SetStatus(codes.Error, string(v.outcome.Failure.Reason))
		}
		metrics.VisitsTotal.WithLabelValues(outcome).Inc()
		metrics.VisitDuration.Observe(time.Since(start).Seconds())
		span.SetAttributes(attribute.String("outcome", outcome))
		span.End()
	}()

	if err := CheckURL(rawURL); err != nil {
		log.Warn("skipping invalid product url", "error", err)
		return visit{skipped: true}
	}
	if !Supported(rawURL) {
		log.Warn("skipping unsupported site")
		return visit{skipped: true}
	}

	log.Info("checking product")

	doc, err := src.Open(ctx, rawURL)
	if err != nil {
		out := domain.Fail(domain.ReasonNavigation, rawURL, err)
		s.logFailure(log, out.Failure)
		s.captureFailure(ctx, src, nil, shots, rawURL, cfg, log)
		return visit{outcome: out}
	}
	if final := doc.URL(); final != rawURL {
		log.Info("product page redirected", "final_url", final)
	}

	out := extract.Extract(ctx, doc, rawURL, extract.Options{
		ExplicitWait: cfg.ExplicitWait(),
		ImplicitWait: cfg.ImplicitWait(),
		Now:          s.now,
		Logger:       log,
	})
	if !out.OK() {
		s.logFailure(log, out.Failure)
		s.captureFailure(ctx, src, doc, shots, rawURL, cfg, log)
		return visit{outcome: out}
	}

	obs := out.Observation
	log.Info("product found",
		"product", obs.ProductName,
		"price", obs.PriceString(),
		"availability", obs.Availability,
	)

	if err := s.sink.Append(ctx, obs); err != nil {
		out = domain.Fail(domain.ReasonStorage, rawURL, err)
		s.logFailure(log, out.Failure)
		return visit{outcome: out}
	}

	decision := Evaluate(obs, cfg.Threshold())
	if !decision.Alert {
		return visit{outcome: out}
	}

	metrics.AlertsFiredTotal.Inc()
	log.Warn("price below threshold",
		"product", obs.ProductName,
		"price", decision.Price.StringFixed(2),
		"threshold", decision.Threshold.StringFixed(2),
	)
	res := s.dispatcher.Dispatch(ctx, decision, cfg)
	log.Debug("alert dispatched", "status", res.Status, "reason", res.Reason)

	return visit{outcome: out, alerted: true}
}

// recordRun exports the run totals through the OpenTelemetry meter.
func (s *Session) recordRun(ctx context.Context, summary *RunSummary) {
	ctx = context.WithoutCancel(ctx)
	s.runDuration.Record(ctx, summary.Duration().Seconds())
	for outcome, n := range map[string]int{
		metrics.OutcomeSuccess: summary.Succeeded,
		metrics.OutcomeFailure: summary.Failed,
		metrics.OutcomeSkipped: summary.Skipped,
	} {
		s.runVisits.Add(ctx, int64(n), metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func (s *Session) logFailure(log *slog.Logger, f *domain.Failure) {
	log.Error("visit failed", "reason", f.Reason, "detail", f.Detail)
}

// captureFailure saves one diagnostic screenshot, preferring the opened
// document and falling back to the source. Errors are logged only.
func (s *Session) captureFailure(
	ctx context.Context,
	src document.Source,
	doc document.Document,
	shots *capture.Writer,
	rawURL string,
	cfg *config.Config,
	log *slog.Logger,
) {
	if !cfg.ScreenshotOnError {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while taking screenshot", "panic", fmt.Sprint(r))
		}
	}()

	var shooter document.Screenshotter
	if doc != nil {
		shooter = doc
	} else if sc, ok := src.(document.Screenshotter); ok {
		shooter = sc
	} else {
		log.Debug("no screenshot available for failed visit")
		return
	}

	path, err := shots.Capture(ctx, shooter, rawURL)
	if errors.Is(err, document.ErrScreenshotUnsupported) {
		log.Debug("renderer cannot take screenshots")
		return
	}
	if err != nil {
		log.Warn("failed to take screenshot", "error", err)
		return
	}
	log.Info("screenshot saved", "path", path)
}

// CheckURL rejects product lines that lack an http or https scheme or a host,
// such as "www.amazon.com/dp/X".
func CheckURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q needs an http or https scheme and a host", ErrInvalidURL, rawURL)
	}
	return nil
}

// Supported reports whether rawURL points at the supported site: its host
// must contain an "amazon" label, as in www.amazon.com or amazon.co.uk.
func Supported(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	for _, label := range strings.Split(strings.ToLower(u.Hostname()), ".") {
		if label == supportedSiteLabel {
			return true
		}
	}
	return false
}
