// Package engine runs tracking sessions: it visits product pages, records
// observations, evaluates the price threshold and dispatches alerts.
package engine

import (
	"sync"
	"time"

	domain "github.com/donaldgifford/dealhound/pkg/types"
)

// RunSummary describes one completed run over the product list.
type RunSummary struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Total      int              `json:"total"`
	Succeeded  int              `json:"succeeded"`
	Failed     int              `json:"failed"`
	Skipped    int              `json:"skipped"`
	Alerts     int              `json:"alerts"`
	Failures   []domain.Failure `json:"failures"`
}

// Duration is how long the run took.
func (s *RunSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// RunHistory keeps the most recent run summary for the status API.
type RunHistory struct {
	mu     sync.RWMutex
	latest *RunSummary
	runs   int
}

// NewRunHistory creates an empty history.
func NewRunHistory() *RunHistory {
	return &RunHistory{}
}

// Record stores s as the latest run.
func (h *RunHistory) Record(s *RunSummary) {
	if s == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = s
	h.runs++
}

// Latest returns the most recent summary and false when no run finished yet.
func (h *RunHistory) Latest() (*RunSummary, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.latest != nil
}

// Runs returns how many runs have been recorded.
func (h *RunHistory) Runs() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.runs
}
