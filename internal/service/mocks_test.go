package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/recurrence-server/internal/storage/alert"
	"github.com/carson-networks/recurrence-server/internal/storage/pattern"
	"github.com/carson-networks/recurrence-server/internal/storage/transaction"
)

// mockTransactionTable is a mock for transaction.ITransactionTable.
type mockTransactionTable struct {
	mock.Mock
}

func (m *mockTransactionTable) ListByOwner(ctx context.Context, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *mockTransactionTable) Insert(ctx context.Context, create *transaction.TransactionCreate) (uuid.UUID, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return uuid.Nil, args.Error(1)
	}
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// mockPatternTable is a mock for pattern.IPatternTable.
type mockPatternTable struct {
	mock.Mock
}

func (m *mockPatternTable) FindByID(ctx context.Context, id uuid.UUID) (*pattern.Pattern, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pattern.Pattern), args.Error(1)
}

func (m *mockPatternTable) List(ctx context.Context, filter *pattern.PatternFilter) ([]*pattern.Pattern, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pattern.Pattern), args.Error(1)
}

func (m *mockPatternTable) Insert(ctx context.Context, create *pattern.PatternCreate) (uuid.UUID, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return uuid.Nil, args.Error(1)
	}
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockPatternTable) Update(ctx context.Context, id uuid.UUID, update *pattern.PatternUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

// mockAlertTable is a mock for alert.IAlertTable.
type mockAlertTable struct {
	mock.Mock
}

func (m *mockAlertTable) List(ctx context.Context, filter *alert.AlertFilter) ([]*alert.Alert, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*alert.Alert), args.Error(1)
}

func (m *mockAlertTable) Insert(ctx context.Context, create *alert.AlertCreate) (uuid.UUID, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return uuid.Nil, args.Error(1)
	}
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockAlertTable) MarkRead(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *mockAlertTable) RenewalExists(ctx context.Context, ownerID, patternID uuid.UUID, occurrence time.Time) (bool, error) {
	args := m.Called(ctx, ownerID, patternID, occurrence)
	return args.Bool(0), args.Error(1)
}

func (m *mockAlertTable) TransactionFlagged(ctx context.Context, ownerID, transactionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, transactionID)
	return args.Bool(0), args.Error(1)
}
