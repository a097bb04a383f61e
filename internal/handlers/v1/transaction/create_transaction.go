package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/recurrence-server/internal/operator/actions"
	"github.com/carson-networks/recurrence-server/internal/service"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	OwnerID         string `json:"ownerID" required:"true" doc:"Owner UUID"`
	Amount          string `json:"amount" required:"true" doc:"Signed decimal amount, negative for outflows"`
	Currency        string `json:"currency" required:"true" doc:"ISO currency code"`
	Merchant        string `json:"merchant,omitempty" doc:"Optional merchant label"`
	RawDescription  string `json:"rawDescription" required:"true" doc:"Free-text description"`
	Category        string `json:"category,omitempty" doc:"Optional category label"`
	TransactionDate string `json:"transactionDate,omitempty" doc:"RFC3339 transaction date, defaults to now"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionResponse is the response body for creating a transaction.
type CreateTransactionResponse struct {
	ID string `json:"id" doc:"Created transaction UUID"`
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   CreateTransactionResponse
}

// transactionCreator is the interface for creating transactions.
type transactionCreator interface {
	CreateTransaction(ctx context.Context, txn service.Transaction) (uuid.UUID, error)
}

// detachedProcessor is the interface for enqueueing fire-and-forget work.
type detachedProcessor interface {
	ProcessDetached(ctx context.Context, action actions.IAction)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
	Operator           detachedProcessor
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator, op detachedProcessor) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc, Operator: op}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Writes a new ledger transaction and triggers alert generation in the background.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateTransactionInput parses and validates the API input.
func parseCreateTransactionInput(input *CreateTransactionInput) (service.Transaction, error) {
	ownerID, err := uuid.FromString(input.Body.OwnerID)
	if err != nil {
		return service.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid ownerID", err)
	}
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return service.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	var transactionDate time.Time
	if input.Body.TransactionDate != "" {
		transactionDate, err = time.Parse(time.RFC3339, input.Body.TransactionDate)
		if err != nil {
			return service.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid transactionDate", err)
		}
	}

	return service.Transaction{
		OwnerID:         ownerID,
		Amount:          amount,
		Currency:        input.Body.Currency,
		Merchant:        input.Body.Merchant,
		RawDescription:  input.Body.RawDescription,
		Category:        input.Body.Category,
		TransactionDate: transactionDate,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	txn, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	id, err := h.TransactionService.CreateTransaction(ctx, txn)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to create transaction", err)
	}

	// The write succeeded; alert generation happens in the background and
	// its outcome never affects this response.
	h.Operator.ProcessDetached(ctx, &actions.GenerateAlerts{OwnerID: txn.OwnerID})

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   CreateTransactionResponse{ID: id.String()},
	}, nil
}
