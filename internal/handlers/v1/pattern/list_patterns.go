package pattern

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/recurrence-server/internal/service"
)

// ListPatternsInput is the Huma input for listing patterns.
type ListPatternsInput struct {
	OwnerID string `query:"ownerID" required:"true" doc:"Owner UUID"`
	Status  string `query:"status" doc:"Optional status filter: active, paused, or cancelled"`
}

// ListPatternsResponseBody is the response body for listing patterns.
type ListPatternsResponseBody struct {
	Patterns []Pattern `json:"patterns" doc:"Owner's patterns ordered by next occurrence"`
}

// ListPatternsOutput is the Huma output for listing patterns.
type ListPatternsOutput struct {
	Body ListPatternsResponseBody
}

// patternLister is the interface for listing patterns.
type patternLister interface {
	ListPatterns(ctx context.Context, ownerID uuid.UUID, status *service.Status) ([]service.Pattern, error)
}

// ListPatternsHandler handles GET /v1/patterns.
type ListPatternsHandler struct {
	PatternService patternLister
}

// NewListPatternsHandler creates a new ListPatternsHandler.
func NewListPatternsHandler(svc patternLister) *ListPatternsHandler {
	return &ListPatternsHandler{PatternService: svc}
}

// Register registers the list patterns endpoint with the Huma API.
func (h *ListPatternsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-patterns",
		Method:      http.MethodGet,
		Path:        "/v1/patterns",
		Summary:     "List patterns",
		Description: "Returns the owner's persisted recurring patterns.",
		Tags:        []string{"Patterns"},
	}, h.handle)
}

func (h *ListPatternsHandler) handle(ctx context.Context, input *ListPatternsInput) (*ListPatternsOutput, error) {
	ownerID, err := uuid.FromString(input.OwnerID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid ownerID", err)
	}

	var status *service.Status
	if input.Status != "" {
		parsed := service.Status(input.Status)
		switch parsed {
		case service.StatusActive, service.StatusPaused, service.StatusCancelled:
			status = &parsed
		default:
			return nil, huma.NewError(http.StatusBadRequest, "invalid status")
		}
	}

	patterns, err := h.PatternService.ListPatterns(ctx, ownerID, status)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list patterns", err)
	}

	return &ListPatternsOutput{Body: ListPatternsResponseBody{
		Patterns: patternsFromService(patterns),
	}}, nil
}
