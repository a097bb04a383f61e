package transaction

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Transaction represents a ledger row as the engine reads it.
// Merchant and Category are nullable in the ledger schema.
type Transaction struct {
	ID              uuid.UUID       `db:"id"`
	OwnerID         uuid.UUID       `db:"owner_id"`
	Amount          decimal.Decimal `db:"amount"`
	Currency        string          `db:"currency"`
	Merchant        *string         `db:"merchant"`
	RawDescription  string          `db:"raw_description"`
	Category        *string         `db:"category"`
	TransactionDate time.Time       `db:"transaction_date"`
	CreatedAt       time.Time       `db:"created_at"`
}

// TransactionCreate is the input for writing a new ledger row.
type TransactionCreate struct {
	OwnerID         uuid.UUID
	Amount          decimal.Decimal
	Currency        string
	Merchant        *string
	RawDescription  string
	Category        *string
	TransactionDate time.Time // defaults to now if zero
}

// TransactionFilter narrows a per-owner listing.
type TransactionFilter struct {
	OwnerID uuid.UUID
	Since   *time.Time
}

// ITransactionTable defines the interface for transaction storage operations.
// This abstraction allows swapping the implementation (e.g. Bob) without changing callers.
//
//go:generate mockery --name ITransactionTable --output mock_ITransactionTable.go
type ITransactionTable interface {
	ListByOwner(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
	Insert(ctx context.Context, create *TransactionCreate) (uuid.UUID, error)
}
