package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/donaldgifford/dealhound/internal/metrics"
	domain "github.com/donaldgifford/dealhound/pkg/types"
)

// Named pairs a sink with the label used in metrics and errors.
type Named struct {
	Name string
	Sink Sink
}

// MultiSink writes each observation to every sink in order. Every sink is
// attempted even if an earlier one fails.
type MultiSink struct {
	sinks []Named
}

// NewMultiSink creates a sink over sinks.
func NewMultiSink(sinks ...Named) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Append writes obs to all sinks and joins their errors.
func (m *MultiSink) Append(ctx context.Context, obs *domain.Observation) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Sink.Append(ctx, obs); err != nil {
			metrics.ObservationsStoredTotal.WithLabelValues(s.Name, metrics.ResultError).Inc()
			errs = append(errs, fmt.Errorf("%s sink: %w", s.Name, err))
			continue
		}
		metrics.ObservationsStoredTotal.WithLabelValues(s.Name, metrics.ResultSuccess).Inc()
	}
	return errors.Join(errs...)
}

// compile-time interface checks.
var (
	_ Sink   = (*CSVSink)(nil)
	_ Sink   = (*PostgresSink)(nil)
	_ Reader = (*PostgresSink)(nil)
	_ Sink   = (*MultiSink)(nil)
)
