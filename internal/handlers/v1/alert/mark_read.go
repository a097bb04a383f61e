package alert

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/recurrence-server/internal/service"
)

// MarkReadBody is the request body for marking an alert read.
type MarkReadBody struct {
	OwnerID string `json:"ownerID" required:"true" doc:"Owner UUID"`
}

// MarkReadInput is the Huma input for marking an alert read.
type MarkReadInput struct {
	ID   string `path:"id" doc:"Alert UUID"`
	Body MarkReadBody
}

// MarkReadOutput is the Huma output for marking an alert read.
type MarkReadOutput struct {
	Status int `json:"status" doc:"HTTP status"`
}

// alertReader is the interface for the read transition.
type alertReader interface {
	MarkRead(ctx context.Context, ownerID, id uuid.UUID) error
}

// MarkReadHandler handles POST /v1/alert/{id}/read.
type MarkReadHandler struct {
	AlertService alertReader
}

// NewMarkReadHandler creates a new MarkReadHandler.
func NewMarkReadHandler(svc alertReader) *MarkReadHandler {
	return &MarkReadHandler{AlertService: svc}
}

// Register registers the mark read endpoint with the Huma API.
func (h *MarkReadHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "mark-alert-read",
		Method:      http.MethodPost,
		Path:        "/v1/alert/{id}/read",
		Summary:     "Mark alert read",
		Description: "Marks a single alert as read. No other alert field is mutable.",
		Tags:        []string{"Alerts"},
	}, h.handle)
}

func (h *MarkReadHandler) handle(ctx context.Context, input *MarkReadInput) (*MarkReadOutput, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}
	ownerID, err := uuid.FromString(input.Body.OwnerID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid ownerID", err)
	}

	err = h.AlertService.MarkRead(ctx, ownerID, id)
	if errors.Is(err, service.ErrAlertNotFound) {
		return nil, huma.NewError(http.StatusNotFound, "alert not found")
	}
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to mark alert read", err)
	}

	return &MarkReadOutput{Status: http.StatusOK}, nil
}
