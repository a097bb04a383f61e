package alert

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/recurrence-server/internal/service"
)

// ListAlertsInput is the Huma input for listing alerts.
type ListAlertsInput struct {
	OwnerID string `query:"ownerID" required:"true" doc:"Owner UUID"`
	Unread  bool   `query:"unread" doc:"Only return unread alerts"`
}

// ListAlertsResponseBody is the response body for listing alerts.
type ListAlertsResponseBody struct {
	Alerts []Alert `json:"alerts" doc:"Owner's alerts, newest first"`
}

// ListAlertsOutput is the Huma output for listing alerts.
type ListAlertsOutput struct {
	Body ListAlertsResponseBody
}

// alertLister is the interface for listing alerts.
type alertLister interface {
	ListAlerts(ctx context.Context, ownerID uuid.UUID, unreadOnly bool) ([]service.Alert, error)
}

// ListAlertsHandler handles GET /v1/alerts.
type ListAlertsHandler struct {
	AlertService alertLister
}

// NewListAlertsHandler creates a new ListAlertsHandler.
func NewListAlertsHandler(svc alertLister) *ListAlertsHandler {
	return &ListAlertsHandler{AlertService: svc}
}

// Register registers the list alerts endpoint with the Huma API.
func (h *ListAlertsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-alerts",
		Method:      http.MethodGet,
		Path:        "/v1/alerts",
		Summary:     "List alerts",
		Description: "Returns the owner's alerts sorted by creation time descending.",
		Tags:        []string{"Alerts"},
	}, h.handle)
}

func (h *ListAlertsHandler) handle(ctx context.Context, input *ListAlertsInput) (*ListAlertsOutput, error) {
	ownerID, err := uuid.FromString(input.OwnerID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid ownerID", err)
	}

	alerts, err := h.AlertService.ListAlerts(ctx, ownerID, input.Unread)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list alerts", err)
	}

	converted := make([]Alert, len(alerts))
	for i, a := range alerts {
		converted[i] = alertFromService(a)
	}

	return &ListAlertsOutput{Body: ListAlertsResponseBody{Alerts: converted}}, nil
}
