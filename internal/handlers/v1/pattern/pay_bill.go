package pattern

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/recurrence-server/internal/service"
)

// PayBillBody is the request body for paying a bill.
type PayBillBody struct {
	OwnerID string `json:"ownerID" required:"true" doc:"Owner UUID"`
}

// PayBillInput is the Huma input for paying a bill.
type PayBillInput struct {
	ID   string `path:"id" doc:"Bill pattern UUID"`
	Body PayBillBody
}

// PayBillResponseBody is the response body for paying a bill.
type PayBillResponseBody struct {
	Paid bool     `json:"paid" doc:"Always true on success"`
	Next *Pattern `json:"next,omitempty" doc:"Spawned next occurrence, absent for one-shot bills"`
}

// PayBillOutput is the Huma output for paying a bill.
type PayBillOutput struct {
	Body PayBillResponseBody
}

// billPayer is the interface for the bill payment transition.
type billPayer interface {
	PayBill(ctx context.Context, ownerID, id uuid.UUID) (*service.Pattern, error)
}

// PayBillHandler handles POST /v1/pattern/{id}/pay.
type PayBillHandler struct {
	PatternService billPayer
}

// NewPayBillHandler creates a new PayBillHandler.
func NewPayBillHandler(svc billPayer) *PayBillHandler {
	return &PayBillHandler{PatternService: svc}
}

// Register registers the pay bill endpoint with the Huma API.
func (h *PayBillHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "pay-bill",
		Method:      http.MethodPost,
		Path:        "/v1/pattern/{id}/pay",
		Summary:     "Pay bill",
		Description: "Marks a bill occurrence paid and spawns the next unpaid occurrence one period out.",
		Tags:        []string{"Patterns"},
	}, h.handle)
}

func (h *PayBillHandler) handle(ctx context.Context, input *PayBillInput) (*PayBillOutput, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}
	ownerID, err := uuid.FromString(input.Body.OwnerID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid ownerID", err)
	}

	spawned, err := h.PatternService.PayBill(ctx, ownerID, id)
	switch {
	case errors.Is(err, service.ErrPatternNotFound):
		return nil, huma.NewError(http.StatusNotFound, "pattern not found")
	case errors.Is(err, service.ErrNotABill):
		return nil, huma.NewError(http.StatusBadRequest, "pattern is not a bill")
	case errors.Is(err, service.ErrBillAlreadyPaid):
		return nil, huma.NewError(http.StatusConflict, "bill is already paid")
	case err != nil:
		return nil, huma.NewError(http.StatusInternalServerError, "failed to pay bill", err)
	}

	body := PayBillResponseBody{Paid: true}
	if spawned != nil {
		next := patternFromService(*spawned)
		body.Next = &next
	}

	return &PayBillOutput{Body: body}, nil
}
