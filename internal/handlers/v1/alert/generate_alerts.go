package alert

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/recurrence-server/internal/service"
)

// GenerateAlertsBody is the request body for an alert-generation run.
type GenerateAlertsBody struct {
	OwnerID string `json:"ownerID" required:"true" doc:"Owner UUID"`
}

// GenerateAlertsInput is the Huma input for an alert-generation run.
type GenerateAlertsInput struct {
	Body GenerateAlertsBody
}

// GenerateAlertsResponseBody is the response body for an alert-generation run.
type GenerateAlertsResponseBody struct {
	Generated int `json:"generated" doc:"Alert-worthy conditions found this run"`
	Saved     int `json:"saved" doc:"Alerts newly persisted after dedup"`
}

// GenerateAlertsOutput is the Huma output for an alert-generation run.
type GenerateAlertsOutput struct {
	Body GenerateAlertsResponseBody
}

// alertGenerator is the interface for running alert generation.
type alertGenerator interface {
	GenerateAlerts(ctx context.Context, ownerID uuid.UUID) (*service.AlertRunResult, error)
}

// GenerateAlertsHandler handles POST /v1/alerts/generate.
type GenerateAlertsHandler struct {
	AlertService alertGenerator
}

// NewGenerateAlertsHandler creates a new GenerateAlertsHandler.
func NewGenerateAlertsHandler(svc alertGenerator) *GenerateAlertsHandler {
	return &GenerateAlertsHandler{AlertService: svc}
}

// Register registers the generate alerts endpoint with the Huma API.
func (h *GenerateAlertsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "generate-alerts",
		Method:      http.MethodPost,
		Path:        "/v1/alerts/generate",
		Summary:     "Generate alerts",
		Description: "Evaluates renewal and unusual-spend conditions for the owner and persists new alerts.",
		Tags:        []string{"Alerts"},
	}, h.handle)
}

func (h *GenerateAlertsHandler) handle(ctx context.Context, input *GenerateAlertsInput) (*GenerateAlertsOutput, error) {
	ownerID, err := uuid.FromString(input.Body.OwnerID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid ownerID", err)
	}

	result, err := h.AlertService.GenerateAlerts(ctx, ownerID)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "alert generation failed", err)
	}

	return &GenerateAlertsOutput{Body: GenerateAlertsResponseBody{
		Generated: result.Generated,
		Saved:     result.Saved,
	}}, nil
}
