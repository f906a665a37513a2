package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/dealhound/internal/store"
	domain "github.com/donaldgifford/dealhound/pkg/types"
)

// ObservationsHandler serves the observation log when PostgreSQL is configured.
type ObservationsHandler struct {
	store store.Reader
}

// NewObservationsHandler creates a new ObservationsHandler.
func NewObservationsHandler(r store.Reader) *ObservationsHandler {
	return &ObservationsHandler{store: r}
}

// ListObservationsInput is the input for listing observations.
type ListObservationsInput struct {
	URL          string `query:"url"          doc:"Filter by product URL"`
	Since        string `query:"since"        doc:"Only observations at or after this time (RFC 3339)"`
	Availability string `query:"availability" doc:"Filter by availability (In Stock, Out of Stock, Unknown)"`
	Limit        int    `query:"limit"        doc:"Number of results (default 50)"                            minimum:"1" maximum:"500"`
	Offset       int    `query:"offset"       doc:"Pagination offset"                                         minimum:"0"`
}

// ListObservationsOutput is the response for listing observations.
type ListObservationsOutput struct {
	Body struct {
		Observations []domain.Observation `json:"observations"`
		Total        int                  `json:"total"`
		Limit        int                  `json:"limit"`
		Offset       int                  `json:"offset"`
	}
}

// ListObservations returns stored observations, newest first.
func (h *ObservationsHandler) ListObservations(
	ctx context.Context,
	input *ListObservationsInput,
) (*ListObservationsOutput, error) {
	q := &store.ObservationQuery{
		Limit:  input.Limit,
		Offset: input.Offset,
	}

	if input.URL != "" {
		q.URL = &input.URL
	}
	if input.Since != "" {
		since, err := time.Parse(time.RFC3339, input.Since)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("since must be an RFC 3339 timestamp")
		}
		q.Since = &since
	}
	if input.Availability != "" {
		q.Availability = &input.Availability
	}

	observations, total, err := h.store.ListObservations(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("observation query failed: " + err.Error())
	}
	if observations == nil {
		observations = []domain.Observation{}
	}

	resp := &ListObservationsOutput{}
	resp.Body.Observations = observations
	resp.Body.Total = total
	resp.Body.Limit = q.EffectiveLimit()
	resp.Body.Offset = q.Offset
	return resp, nil
}

// RegisterObservationRoutes registers observation endpoints with the Huma API.
func RegisterObservationRoutes(api huma.API, h *ObservationsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-observations",
		Method:      http.MethodGet,
		Path:        "/api/v1/observations",
		Summary:     "List observations",
		Description: "Returns recorded price observations with optional URL, time and availability filters.",
		Tags:        []string{"observations"},
	}, h.ListObservations)
}
