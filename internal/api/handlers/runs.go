package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/dealhound/internal/engine"
)

// LatestRunProvider returns the most recent run summary and how many runs
// have been recorded.
type LatestRunProvider interface {
	Latest() (*engine.RunSummary, bool)
	Runs() int
}

// RunsHandler handles GET /api/v1/runs/latest.
type RunsHandler struct {
	history LatestRunProvider
}

// NewRunsHandler creates a RunsHandler.
func NewRunsHandler(h LatestRunProvider) *RunsHandler {
	return &RunsHandler{history: h}
}

// LatestRunOutput is the response for GET /api/v1/runs/latest.
type LatestRunOutput struct {
	RunCount int `header:"X-Run-Count" doc:"Runs completed since the process started"`
	Body     *engine.RunSummary
}

// GetLatestRun returns the summary of the last completed run.
func (h *RunsHandler) GetLatestRun(
	_ context.Context,
	_ *struct{},
) (*LatestRunOutput, error) {
	summary, ok := h.history.Latest()
	if !ok {
		return nil, huma.Error404NotFound("no run has completed yet")
	}

	return &LatestRunOutput{RunCount: h.history.Runs(), Body: summary}, nil
}

// RegisterRunRoutes registers the run routes on the Huma API.
func RegisterRunRoutes(api huma.API, h *RunsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-latest-run",
		Method:      http.MethodGet,
		Path:        "/api/v1/runs/latest",
		Summary:     "Get latest run",
		Description: "Returns the summary of the most recent completed run.",
		Tags:        []string{"runs"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetLatestRun)
}
