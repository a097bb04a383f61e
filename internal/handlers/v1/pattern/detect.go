package pattern

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/recurrence-server/internal/detection"
	"github.com/carson-networks/recurrence-server/internal/operator/actions"
)

// DetectBody is the request body for a detection run.
type DetectBody struct {
	OwnerID string `json:"ownerID" required:"true" doc:"Owner UUID"`
}

// DetectInput is the Huma input for a detection run.
type DetectInput struct {
	Kind       string `path:"kind" doc:"Detection kind: subscription, bill, or recurring"`
	Background bool   `query:"background" doc:"Run the scan in the background and return immediately"`
	Body       DetectBody
}

// DetectResponseBody is the response body for a detection run.
type DetectResponseBody struct {
	DetectedCount int       `json:"detectedCount" doc:"Groups that classified this run"`
	SavedCount    int       `json:"savedCount" doc:"Patterns newly persisted this run"`
	Patterns      []Pattern `json:"patterns" doc:"Classified patterns, saved or matched"`
	Message       string    `json:"message,omitempty" doc:"Set when no patterns were detected"`
}

// DetectOutput is the Huma output for a detection run.
type DetectOutput struct {
	Status int
	Body   DetectResponseBody
}

// actionProcessor is the interface for running actions through the worker
// queue, awaited or detached.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
	ProcessDetached(ctx context.Context, action actions.IAction)
}

// DetectHandler handles POST /v1/detect/{kind}. Scans are serialized through
// the operator's worker queue in both modes; the foreground mode awaits the
// queued action and returns its result.
type DetectHandler struct {
	Operator actionProcessor
}

// NewDetectHandler creates a new DetectHandler.
func NewDetectHandler(op actionProcessor) *DetectHandler {
	return &DetectHandler{Operator: op}
}

// Register registers the detect endpoint with the Huma API.
func (h *DetectHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "detect-patterns",
		Method:      http.MethodPost,
		Path:        "/v1/detect/{kind}",
		Summary:     "Detect recurring patterns",
		Description: "Scans the owner's transaction history for recurring patterns of one kind and upserts them.",
		Tags:        []string{"Patterns"},
	}, h.handle)
}

func (h *DetectHandler) handle(ctx context.Context, input *DetectInput) (*DetectOutput, error) {
	ownerID, err := uuid.FromString(input.Body.OwnerID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid ownerID", err)
	}
	kind := detection.Kind(input.Kind)
	if !kind.Valid() {
		return nil, huma.NewError(http.StatusBadRequest, "invalid kind")
	}

	action := &actions.DetectPatterns{OwnerID: ownerID, Kind: kind}

	if input.Background {
		h.Operator.ProcessDetached(ctx, action)
		return &DetectOutput{
			Status: http.StatusAccepted,
			Body:   DetectResponseBody{Message: "detection scheduled"},
		}, nil
	}

	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "detection failed", err)
	}
	result := action.Result

	body := DetectResponseBody{
		DetectedCount: result.DetectedCount,
		SavedCount:    result.SavedCount,
		Patterns:      patternsFromService(result.Patterns),
	}
	if result.DetectedCount == 0 {
		body.Message = "no recurring patterns detected"
	}

	return &DetectOutput{Status: http.StatusOK, Body: body}, nil
}
