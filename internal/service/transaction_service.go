package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/recurrence-server/internal/storage"
	"github.com/carson-networks/recurrence-server/internal/storage/transaction"
)

// TransactionService handles the ledger write surface that feeds the engine.
type TransactionService struct {
	storage *storage.Storage
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage) *TransactionService {
	return &TransactionService{storage: store}
}

// CreateTransaction writes a new ledger row and returns its ID.
func (s *TransactionService) CreateTransaction(ctx context.Context, txn Transaction) (uuid.UUID, error) {
	create := &transaction.TransactionCreate{
		OwnerID:         txn.OwnerID,
		Amount:          txn.Amount,
		Currency:        txn.Currency,
		RawDescription:  txn.RawDescription,
		TransactionDate: txn.TransactionDate,
	}
	if txn.Merchant != "" {
		create.Merchant = &txn.Merchant
	}
	if txn.Category != "" {
		create.Category = &txn.Category
	}

	return s.storage.Transactions.Insert(ctx, create)
}
