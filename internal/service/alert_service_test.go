package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/recurrence-server/internal/config"
	"github.com/carson-networks/recurrence-server/internal/storage"
	"github.com/carson-networks/recurrence-server/internal/storage/alert"
	"github.com/carson-networks/recurrence-server/internal/storage/pattern"
	"github.com/carson-networks/recurrence-server/internal/storage/transaction"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestAlertService(t *testing.T) (*AlertService, *mockTransactionTable, *mockPatternTable, *mockAlertTable) {
	t.Helper()
	mockTransactions := new(mockTransactionTable)
	mockPatterns := new(mockPatternTable)
	mockAlerts := new(mockAlertTable)
	store := &storage.Storage{
		Transactions: mockTransactions,
		Patterns:     mockPatterns,
		Alerts:       mockAlerts,
	}
	svc := NewAlertService(store, &config.Config{
		RenewalLookaheadDays:   30,
		UnusualSpendMultiplier: 2.0,
		BaselineWindowDays:     90,
	})
	svc.now = func() time.Time { return testNow }
	return svc, mockTransactions, mockPatterns, mockAlerts
}

func activeSubscription(ownerID uuid.UUID, name string, due time.Time) *pattern.Pattern {
	return &pattern.Pattern{
		ID:                   uuid.Must(uuid.NewV4()),
		OwnerID:              ownerID,
		Kind:                 "subscription",
		DisplayName:          name,
		RepresentativeAmount: decimal.RequireFromString("-15.49"),
		Currency:             "USD",
		Frequency:            "monthly",
		NextOccurrence:       due,
		Status:               pattern.StatusActive,
	}
}

func TestGenerateAlerts_RenewalWithinLookahead(t *testing.T) {
	svc, mockTransactions, mockPatterns, mockAlerts := newTestAlertService(t)

	ownerID := uuid.Must(uuid.NewV4())
	due := testNow.AddDate(0, 0, 2)
	sub := activeSubscription(ownerID, "Netflix", due)

	mockPatterns.On("List", mock.Anything, mock.Anything).Return([]*pattern.Pattern{sub}, nil)
	mockAlerts.On("RenewalExists", mock.Anything, ownerID, sub.ID, due).Return(false, nil)
	mockAlerts.On("Insert", mock.Anything, mock.MatchedBy(func(c *alert.AlertCreate) bool {
		return c.Type == alert.TypeRenewal &&
			c.PatternID != nil && *c.PatternID == sub.ID &&
			c.PatternOccurrence != nil && c.PatternOccurrence.Equal(due) &&
			c.Message == "Netflix is due on Jun 3, 2025 (15.49 USD)"
	})).Return(uuid.Must(uuid.NewV4()), nil)
	mockTransactions.On("ListByOwner", mock.Anything, mock.Anything).Return([]*transaction.Transaction{}, nil)

	result, err := svc.GenerateAlerts(context.Background(), ownerID)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 1, result.Saved)
	mockAlerts.AssertExpectations(t)
}

func TestGenerateAlerts_RenewalSecondRunSavesZero(t *testing.T) {
	svc, mockTransactions, mockPatterns, mockAlerts := newTestAlertService(t)

	ownerID := uuid.Must(uuid.NewV4())
	due := testNow.AddDate(0, 0, 2)
	sub := activeSubscription(ownerID, "Netflix", due)

	mockPatterns.On("List", mock.Anything, mock.Anything).Return([]*pattern.Pattern{sub}, nil)
	mockAlerts.On("RenewalExists", mock.Anything, ownerID, sub.ID, due).Return(true, nil)
	mockTransactions.On("ListByOwner", mock.Anything, mock.Anything).Return([]*transaction.Transaction{}, nil)

	result, err := svc.GenerateAlerts(context.Background(), ownerID)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Generated, "the condition is still found")
	assert.Equal(t, 0, result.Saved, "but nothing new is persisted")
	mockAlerts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestGenerateAlerts_RenewalOutsideLookahead(t *testing.T) {
	svc, mockTransactions, mockPatterns, mockAlerts := newTestAlertService(t)

	ownerID := uuid.Must(uuid.NewV4())
	sub := activeSubscription(ownerID, "Netflix", testNow.AddDate(0, 0, 60))

	mockPatterns.On("List", mock.Anything, mock.Anything).Return([]*pattern.Pattern{sub}, nil)
	mockTransactions.On("ListByOwner", mock.Anything, mock.Anything).Return([]*transaction.Transaction{}, nil)

	result, err := svc.GenerateAlerts(context.Background(), ownerID)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Generated)
	assert.Equal(t, 0, result.Saved)
	mockAlerts.AssertNotCalled(t, "RenewalExists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateAlerts_RecurringPatternsNeverRenew(t *testing.T) {
	svc, mockTransactions, mockPatterns, mockAlerts := newTestAlertService(t)

	ownerID := uuid.Must(uuid.NewV4())
	recurring := activeSubscription(ownerID, "Gym", testNow.AddDate(0, 0, 2))
	recurring.Kind = "recurring"

	mockPatterns.On("List", mock.Anything, mock.Anything).Return([]*pattern.Pattern{recurring}, nil)
	mockTransactions.On("ListByOwner", mock.Anything, mock.Anything).Return([]*transaction.Transaction{}, nil)

	result, err := svc.GenerateAlerts(context.Background(), ownerID)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Generated)
	mockAlerts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestGenerateAlerts_UnusualSpendFlagged(t *testing.T) {
	svc, mockTransactions, mockPatterns, mockAlerts := newTestAlertService(t)

	ownerID := uuid.Must(uuid.NewV4())
	spike := ledgerRow(ownerID, "Grocer", "-200.00", testNow.AddDate(0, 0, -1))

	mockPatterns.On("List", mock.Anything, mock.Anything).Return([]*pattern.Pattern{}, nil)
	// Baseline for the spike is (50+50)/2 = 50; 200 exceeds 2x that.
	mockTransactions.On("ListByOwner", mock.Anything, mock.Anything).Return([]*transaction.Transaction{
		ledgerRow(ownerID, "Grocer", "-50.00", testNow.AddDate(0, 0, -20)),
		ledgerRow(ownerID, "Grocer", "-50.00", testNow.AddDate(0, 0, -10)),
		spike,
	}, nil)
	mockAlerts.On("TransactionFlagged", mock.Anything, ownerID, spike.ID).Return(false, nil)
	mockAlerts.On("Insert", mock.Anything, mock.MatchedBy(func(c *alert.AlertCreate) bool {
		return c.Type == alert.TypeUnusualSpend &&
			c.TransactionID != nil && *c.TransactionID == spike.ID
	})).Return(uuid.Must(uuid.NewV4()), nil)

	result, err := svc.GenerateAlerts(context.Background(), ownerID)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 1, result.Saved)
	mockAlerts.AssertExpectations(t)
}

func TestGenerateAlerts_UnusualSpendNotReflagged(t *testing.T) {
	svc, mockTransactions, mockPatterns, mockAlerts := newTestAlertService(t)

	ownerID := uuid.Must(uuid.NewV4())
	spike := ledgerRow(ownerID, "Grocer", "-200.00", testNow.AddDate(0, 0, -1))

	mockPatterns.On("List", mock.Anything, mock.Anything).Return([]*pattern.Pattern{}, nil)
	mockTransactions.On("ListByOwner", mock.Anything, mock.Anything).Return([]*transaction.Transaction{
		ledgerRow(ownerID, "Grocer", "-50.00", testNow.AddDate(0, 0, -20)),
		ledgerRow(ownerID, "Grocer", "-50.00", testNow.AddDate(0, 0, -10)),
		spike,
	}, nil)
	mockAlerts.On("TransactionFlagged", mock.Anything, ownerID, spike.ID).Return(true, nil)

	result, err := svc.GenerateAlerts(context.Background(), ownerID)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 0, result.Saved)
	mockAlerts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestGenerateAlerts_TooFewSamplesForBaseline(t *testing.T) {
	svc, mockTransactions, mockPatterns, mockAlerts := newTestAlertService(t)

	ownerID := uuid.Must(uuid.NewV4())
	mockPatterns.On("List", mock.Anything, mock.Anything).Return([]*pattern.Pattern{}, nil)
	mockTransactions.On("ListByOwner", mock.Anything, mock.Anything).Return([]*transaction.Transaction{
		ledgerRow(ownerID, "Grocer", "-50.00", testNow.AddDate(0, 0, -10)),
		ledgerRow(ownerID, "Grocer", "-200.00", testNow.AddDate(0, 0, -1)),
	}, nil)

	result, err := svc.GenerateAlerts(context.Background(), ownerID)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Generated)
	mockAlerts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestMarkRead_NotFound(t *testing.T) {
	svc, _, _, mockAlerts := newTestAlertService(t)

	ownerID := uuid.Must(uuid.NewV4())
	alertID := uuid.Must(uuid.NewV4())
	mockAlerts.On("MarkRead", mock.Anything, ownerID, alertID).Return(sql.ErrNoRows)

	err := svc.MarkRead(context.Background(), ownerID, alertID)

	assert.ErrorIs(t, err, ErrAlertNotFound)
}
