package pattern

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/recurrence-server/internal/service"
)

// UpcomingInput is the Huma input for the upcoming-patterns widget feed.
type UpcomingInput struct {
	OwnerID    string `query:"ownerID" required:"true" doc:"Owner UUID"`
	WithinDays int    `query:"withinDays" default:"30" minimum:"1" maximum:"365" doc:"Rolling window in days"`
}

// UpcomingResponseBody is the response body for upcoming patterns.
type UpcomingResponseBody struct {
	Patterns []Pattern `json:"patterns" doc:"Active patterns due within the window"`
}

// UpcomingOutput is the Huma output for upcoming patterns.
type UpcomingOutput struct {
	Body UpcomingResponseBody
}

// upcomingLister is the interface for the upcoming feed.
type upcomingLister interface {
	Upcoming(ctx context.Context, ownerID uuid.UUID, withinDays int) ([]service.Pattern, error)
}

// UpcomingHandler handles GET /v1/patterns/upcoming.
type UpcomingHandler struct {
	PatternService upcomingLister
}

// NewUpcomingHandler creates a new UpcomingHandler.
func NewUpcomingHandler(svc upcomingLister) *UpcomingHandler {
	return &UpcomingHandler{PatternService: svc}
}

// Register registers the upcoming endpoint with the Huma API.
func (h *UpcomingHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "upcoming-patterns",
		Method:      http.MethodGet,
		Path:        "/v1/patterns/upcoming",
		Summary:     "Upcoming patterns",
		Description: "Returns active patterns whose next occurrence falls within a rolling window.",
		Tags:        []string{"Patterns"},
	}, h.handle)
}

func (h *UpcomingHandler) handle(ctx context.Context, input *UpcomingInput) (*UpcomingOutput, error) {
	ownerID, err := uuid.FromString(input.OwnerID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid ownerID", err)
	}

	patterns, err := h.PatternService.Upcoming(ctx, ownerID, input.WithinDays)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list upcoming patterns", err)
	}

	return &UpcomingOutput{Body: UpcomingResponseBody{
		Patterns: patternsFromService(patterns),
	}}, nil
}
