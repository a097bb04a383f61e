package service

import (
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/recurrence-server/internal/detection"
	"github.com/carson-networks/recurrence-server/internal/storage/alert"
	"github.com/carson-networks/recurrence-server/internal/storage/pattern"
	"github.com/carson-networks/recurrence-server/internal/storage/transaction"
)

var (
	ErrPatternNotFound = errors.New("pattern not found")
	ErrAlertNotFound   = errors.New("alert not found")
	ErrNotABill        = errors.New("pattern is not a bill")
	ErrBillAlreadyPaid = errors.New("bill is already paid")
)

// Status is the lifecycle state of a persisted pattern.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

// Pattern represents a recurring pattern in the service layer.
type Pattern struct {
	ID                   uuid.UUID
	OwnerID              uuid.UUID
	Kind                 detection.Kind
	IdentityKey          string
	DisplayName          string
	Category             string
	RepresentativeAmount decimal.Decimal
	Currency             string
	Frequency            detection.Frequency
	AnchorDate           time.Time
	LastObserved         time.Time
	NextOccurrence       time.Time
	OccurrenceCount      int
	Status               Status
	Paid                 bool
	CreatedAt            time.Time
}

// DetectionResult summarizes one detection run. DetectedCount is the number
// of groups that classified this run; SavedCount only the rows actually
// inserted after the existing-match checks. Re-running on unchanged input
// yields the same DetectedCount and a SavedCount of zero.
type DetectionResult struct {
	DetectedCount int
	SavedCount    int
	Patterns      []Pattern
}

// Alert represents a user-facing alert in the service layer.
type Alert struct {
	ID            uuid.UUID
	Type          string
	Message       string
	IsRead        bool
	PatternID     *uuid.UUID
	TransactionID *uuid.UUID
	CreatedAt     time.Time
}

// AlertRunResult summarizes one alert-generation run. Generated counts every
// alert-worthy condition found; Saved only the alerts persisted after dedup.
type AlertRunResult struct {
	Generated int
	Saved     int
}

// Transaction represents a ledger row in the service layer.
type Transaction struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	Amount          decimal.Decimal
	Currency        string
	Merchant        string
	RawDescription  string
	Category        string
	TransactionDate time.Time
}

func patternFromStorage(row *pattern.Pattern) Pattern {
	return Pattern{
		ID:                   row.ID,
		OwnerID:              row.OwnerID,
		Kind:                 detection.Kind(row.Kind),
		IdentityKey:          row.IdentityKey,
		DisplayName:          row.DisplayName,
		Category:             row.Category,
		RepresentativeAmount: row.RepresentativeAmount,
		Currency:             row.Currency,
		Frequency:            detection.Frequency(row.Frequency),
		AnchorDate:           row.AnchorDate,
		LastObserved:         row.LastObserved,
		NextOccurrence:       row.NextOccurrence,
		OccurrenceCount:      row.OccurrenceCount,
		Status:               Status(row.Status),
		Paid:                 row.Paid,
		CreatedAt:            row.CreatedAt,
	}
}

func alertFromStorage(row *alert.Alert) Alert {
	return Alert{
		ID:            row.ID,
		Type:          row.Type,
		Message:       row.Message,
		IsRead:        row.IsRead,
		PatternID:     row.PatternID,
		TransactionID: row.TransactionID,
		CreatedAt:     row.CreatedAt,
	}
}

// engineTransactions converts ledger rows into the engine's record shape,
// excluding malformed rows so a single bad transaction never aborts a run.
func engineTransactions(rows []*transaction.Transaction) []detection.Transaction {
	converted := make([]detection.Transaction, 0, len(rows))
	for _, row := range rows {
		if row.TransactionDate.IsZero() {
			continue
		}
		txn := detection.Transaction{
			ID:             row.ID,
			Date:           row.TransactionDate,
			Amount:         row.Amount,
			Currency:       row.Currency,
			RawDescription: row.RawDescription,
		}
		if row.Merchant != nil {
			txn.Merchant = *row.Merchant
		}
		if row.Category != nil {
			txn.Category = *row.Category
		}
		converted = append(converted, txn)
	}
	return converted
}

// amountWithin reports whether a's magnitude is within the given fraction
// of b's magnitude.
func amountWithin(a, b decimal.Decimal, fraction float64) bool {
	bAbs := b.Abs()
	if bAbs.IsZero() {
		return a.Abs().IsZero()
	}
	return a.Abs().Sub(bAbs).Abs().LessThanOrEqual(bAbs.Mul(decimal.NewFromFloat(fraction)))
}
