package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/dealhound/internal/api/handlers"
	"github.com/donaldgifford/dealhound/internal/engine"
)

func TestGetLatestRun_NoRunYet(t *testing.T) {
	t.Parallel()

	h := handlers.NewRunsHandler(engine.NewRunHistory())

	_, api := humatest.New(t)
	handlers.RegisterRunRoutes(api, h)

	resp := api.Get("/api/v1/runs/latest")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "no run has completed yet")
}

func TestGetLatestRun_ReturnsLatest(t *testing.T) {
	t.Parallel()

	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	history := engine.NewRunHistory()
	history.Record(&engine.RunSummary{RunID: "first", StartedAt: started, FinishedAt: started})
	history.Record(&engine.RunSummary{
		RunID:      "second",
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Total:      3,
		Succeeded:  2,
		Failed:     1,
		Alerts:     1,
	})

	h := handlers.NewRunsHandler(history)

	_, api := humatest.New(t)
	handlers.RegisterRunRoutes(api, h)

	resp := api.Get("/api/v1/runs/latest")
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, `"run_id":"second"`)
	assert.Contains(t, body, `"total":3`)
	assert.Contains(t, body, `"succeeded":2`)
	assert.Contains(t, body, `"alerts":1`)
	assert.Equal(t, "2", resp.Header().Get("X-Run-Count"))
}
