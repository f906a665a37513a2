// Package store defines where observations are recorded. All tracking logic
// depends on the Sink interface, never on concrete implementations, so runs
// can be tested without a filesystem or a database.
package store

import (
	"context"
	"time"

	domain "github.com/donaldgifford/dealhound/pkg/types"
)

// Sink appends observations to durable storage. An observation is written
// exactly once per sink; rows are never updated or deleted.
type Sink interface {
	Append(ctx context.Context, obs *domain.Observation) error
}

// Reader lists previously stored observations.
type Reader interface {
	ListObservations(ctx context.Context, q *ObservationQuery) ([]domain.Observation, int, error)
}

// ObservationQuery defines optional filters for observation queries.
type ObservationQuery struct {
	URL          *string
	Since        *time.Time
	Availability *string
	Limit        int // default 50
	Offset       int
}

type runIDKey struct{}

// WithRunID tags ctx with the run an observation belongs to.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFrom returns the run id set by WithRunID, or "".
func RunIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
