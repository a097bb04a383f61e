package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/recurrence-server/internal/detection"
	"github.com/carson-networks/recurrence-server/internal/storage"
	"github.com/carson-networks/recurrence-server/internal/storage/pattern"
	"github.com/carson-networks/recurrence-server/internal/storage/transaction"
)

func newTestDetectionService(t *testing.T) (*DetectionService, *mockTransactionTable, *mockPatternTable) {
	t.Helper()
	mockTransactions := new(mockTransactionTable)
	mockPatterns := new(mockPatternTable)
	store := &storage.Storage{Transactions: mockTransactions, Patterns: mockPatterns}
	return NewDetectionService(store), mockTransactions, mockPatterns
}

func ledgerRow(ownerID uuid.UUID, merchant, amount string, date time.Time) *transaction.Transaction {
	row := &transaction.Transaction{
		ID:              uuid.Must(uuid.NewV4()),
		OwnerID:         ownerID,
		Amount:          decimal.RequireFromString(amount),
		Currency:        "USD",
		RawDescription:  "card payment",
		TransactionDate: date,
	}
	if merchant != "" {
		row.Merchant = &merchant
	}
	return row
}

func TestDetect_SubscriptionInsertsNewPattern(t *testing.T) {
	svc, mockTransactions, mockPatterns := newTestDetectionService(t)

	ownerID := uuid.Must(uuid.NewV4())
	first := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // 30 days later
	patternID := uuid.Must(uuid.NewV4())

	mockTransactions.On("ListByOwner", mock.Anything, mock.Anything).Return([]*transaction.Transaction{
		ledgerRow(ownerID, "Netflix", "-15.49", first),
		ledgerRow(ownerID, "Netflix", "-15.49", second),
	}, nil)
	mockPatterns.On("List", mock.Anything, mock.Anything).Return([]*pattern.Pattern{}, nil)
	mockPatterns.On("Insert", mock.Anything, mock.MatchedBy(func(c *pattern.PatternCreate) bool {
		return c.OwnerID == ownerID &&
			c.Kind == "subscription" &&
			c.DisplayName == "Netflix" &&
			c.Frequency == "monthly" &&
			c.RepresentativeAmount.Equal(decimal.RequireFromString("-15.49")) &&
			c.AnchorDate.Equal(first) &&
			c.LastObserved.Equal(second) &&
			c.NextOccurrence.Equal(second.AddDate(0, 1, 0)) &&
			c.OccurrenceCount == 2
	})).Return(patternID, nil)

	result, err := svc.Detect(context.Background(), ownerID, detection.KindSubscription)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.DetectedCount)
	assert.Equal(t, 1, result.SavedCount)
	assert.Len(t, result.Patterns, 1)
	assert.Equal(t, patternID, result.Patterns[0].ID)
	assert.False(t, result.Patterns[0].CreatedAt.IsZero(), "inserted snapshot carries a creation time")
	mockPatterns.AssertExpectations(t)
}

func TestDetect_SubscriptionRerunUpdatesInsteadOfInserting(t *testing.T) {
	svc, mockTransactions, mockPatterns := newTestDetectionService(t)

	ownerID := uuid.Must(uuid.NewV4())
	existingID := uuid.Must(uuid.NewV4())
	first := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	mockTransactions.On("ListByOwner", mock.Anything, mock.Anything).Return([]*transaction.Transaction{
		ledgerRow(ownerID, "Netflix", "-15.49", first),
		ledgerRow(ownerID, "Netflix", "-15.49", second),
	}, nil)
	mockPatterns.On("List", mock.Anything, mock.Anything).Return([]*pattern.Pattern{
		{
			ID:          existingID,
			OwnerID:     ownerID,
			Kind:        "subscription",
			DisplayName: "Netflix",
			Frequency:   "monthly",
			Status:      pattern.StatusActive,
		},
	}, nil)
	mockPatterns.On("Update", mock.Anything, existingID, mock.Anything).Return(nil)

	result, err := svc.Detect(context.Background(), ownerID, detection.KindSubscription)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.DetectedCount, "same as the first run")
	assert.Equal(t, 0, result.SavedCount, "nothing new to save")
	mockPatterns.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	mockPatterns.AssertExpectations(t)
}

func TestDetect_RecurringRerunSkipsMatchingAmount(t *testing.T) {
	svc, mockTransactions, mockPatterns := newTestDetectionService(t)

	ownerID := uuid.Must(uuid.NewV4())
	first := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	mockTransactions.On("ListByOwner", mock.Anything, mock.Anything).Return([]*transaction.Transaction{
		ledgerRow(ownerID, "Gym", "-30.00", first),
		ledgerRow(ownerID, "Gym", "-30.00", first.AddDate(0, 0, 30)),
	}, nil)
	// Existing amount is within 10% of the new candidate's.
	mockPatterns.On("List", mock.Anything, mock.Anything).Return([]*pattern.Pattern{
		{
			ID:                   uuid.Must(uuid.NewV4()),
			OwnerID:              ownerID,
			Kind:                 "recurring",
			DisplayName:          "Gym",
			Frequency:            "monthly",
			RepresentativeAmount: decimal.RequireFromString("-31.50"),
			Status:               pattern.StatusActive,
		},
	}, nil)

	result, err := svc.Detect(context.Background(), ownerID, detection.KindRecurring)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.DetectedCount)
	assert.Equal(t, 0, result.SavedCount)
	mockPatterns.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	mockPatterns.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDetect_BillRerunSkipsNearbyDueDate(t *testing.T) {
	svc, mockTransactions, mockPatterns := newTestDetectionService(t)

	ownerID := uuid.Must(uuid.NewV4())
	first := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 30)

	mockTransactions.On("ListByOwner", mock.Anything, mock.Anything).Return([]*transaction.Transaction{
		ledgerRow(ownerID, "Acme Insurance", "-80.00", first),
		ledgerRow(ownerID, "Acme Insurance", "-80.00", second),
	}, nil)
	// An unpaid bill due 3 days from the new projection is the same bill.
	mockPatterns.On("List", mock.Anything, mock.Anything).Return([]*pattern.Pattern{
		{
			ID:             uuid.Must(uuid.NewV4()),
			OwnerID:        ownerID,
			Kind:           "bill",
			DisplayName:    "Acme Insurance",
			Frequency:      "monthly",
			NextOccurrence: second.AddDate(0, 1, 0).AddDate(0, 0, 3),
			Status:         pattern.StatusActive,
		},
	}, nil)

	result, err := svc.Detect(context.Background(), ownerID, detection.KindBill)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.DetectedCount)
	assert.Equal(t, 0, result.SavedCount)
	mockPatterns.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestDetect_AmountInstabilityCreatesNothing(t *testing.T) {
	svc, mockTransactions, mockPatterns := newTestDetectionService(t)

	ownerID := uuid.Must(uuid.NewV4())
	first := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	// Mean is 700; 1300 deviates well beyond the 10% recurring tolerance.
	mockTransactions.On("ListByOwner", mock.Anything, mock.Anything).Return([]*transaction.Transaction{
		ledgerRow(ownerID, "Vendor", "-100.00", first),
		ledgerRow(ownerID, "Vendor", "-1300.00", first.AddDate(0, 0, 31)),
	}, nil)
	mockPatterns.On("List", mock.Anything, mock.Anything).Return([]*pattern.Pattern{}, nil)

	result, err := svc.Detect(context.Background(), ownerID, detection.KindRecurring)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.DetectedCount)
	assert.Equal(t, 0, result.SavedCount)
	mockPatterns.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestDetect_NoTransactions(t *testing.T) {
	svc, mockTransactions, mockPatterns := newTestDetectionService(t)

	ownerID := uuid.Must(uuid.NewV4())
	mockTransactions.On("ListByOwner", mock.Anything, mock.Anything).Return([]*transaction.Transaction{}, nil)

	result, err := svc.Detect(context.Background(), ownerID, detection.KindSubscription)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.DetectedCount)
	assert.Equal(t, 0, result.SavedCount)
	assert.Empty(t, result.Patterns)
	mockPatterns.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestDetect_MalformedRowExcludedNotFatal(t *testing.T) {
	svc, mockTransactions, mockPatterns := newTestDetectionService(t)

	ownerID := uuid.Must(uuid.NewV4())
	first := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	bad := ledgerRow(ownerID, "Netflix", "-15.49", time.Time{})

	mockTransactions.On("ListByOwner", mock.Anything, mock.Anything).Return([]*transaction.Transaction{
		bad,
		ledgerRow(ownerID, "Netflix", "-15.49", first),
		ledgerRow(ownerID, "Netflix", "-15.49", first.AddDate(0, 0, 30)),
	}, nil)
	mockPatterns.On("List", mock.Anything, mock.Anything).Return([]*pattern.Pattern{}, nil)
	mockPatterns.On("Insert", mock.Anything, mock.MatchedBy(func(c *pattern.PatternCreate) bool {
		return c.OccurrenceCount == 2
	})).Return(uuid.Must(uuid.NewV4()), nil)

	result, err := svc.Detect(context.Background(), ownerID, detection.KindSubscription)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.DetectedCount)
	mockPatterns.AssertExpectations(t)
}
