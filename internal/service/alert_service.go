package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/recurrence-server/internal/config"
	"github.com/carson-networks/recurrence-server/internal/detection"
	"github.com/carson-networks/recurrence-server/internal/storage"
	"github.com/carson-networks/recurrence-server/internal/storage/alert"
	"github.com/carson-networks/recurrence-server/internal/storage/pattern"
	"github.com/carson-networks/recurrence-server/internal/storage/transaction"
)

// minBaselineSamples is how many other expenses a merchant needs in the
// trailing window before one of its expenses can be judged unusual.
const minBaselineSamples = 2

// AlertService evaluates the pattern store and recent transaction history
// into renewal and unusual-spend alerts. Alert writes follow the same
// read-then-write dedup contract as the pattern store: no lock, races
// tolerated, re-running is the recovery mechanism.
type AlertService struct {
	storage            *storage.Storage
	lookaheadDays      int
	multiplier         decimal.Decimal
	baselineWindowDays int

	now func() time.Time
}

// NewAlertService creates a new AlertService tuned from config.
func NewAlertService(store *storage.Storage, env *config.Config) *AlertService {
	return &AlertService{
		storage:            store,
		lookaheadDays:      env.RenewalLookaheadDays,
		multiplier:         decimal.NewFromFloat(env.UnusualSpendMultiplier),
		baselineWindowDays: env.BaselineWindowDays,
		now:                time.Now,
	}
}

// GenerateAlerts runs both evaluators for one owner. Generated counts every
// alert-worthy condition found this run; Saved only the alerts persisted
// after the dedup checks, so an unchanged re-run saves zero.
func (s *AlertService) GenerateAlerts(ctx context.Context, ownerID uuid.UUID) (*AlertRunResult, error) {
	result := &AlertRunResult{}

	if err := s.evaluateRenewals(ctx, ownerID, result); err != nil {
		return nil, err
	}
	if err := s.evaluateUnusualSpend(ctx, ownerID, result); err != nil {
		return nil, err
	}

	return result, nil
}

// evaluateRenewals emits one renewal alert per active subscription or bill
// whose next occurrence falls inside the lookahead window, keyed on the
// (pattern, nextOccurrence) pair so a later occurrence alerts again but the
// same one never does.
func (s *AlertService) evaluateRenewals(ctx context.Context, ownerID uuid.UUID, result *AlertRunResult) error {
	now := s.now()
	until := now.AddDate(0, 0, s.lookaheadDays)

	statusActive := pattern.StatusActive
	rows, err := s.storage.Patterns.List(ctx, &pattern.PatternFilter{
		OwnerID: ownerID,
		Status:  &statusActive,
	})
	if err != nil {
		return err
	}

	for _, row := range rows {
		if row.Kind != string(detection.KindSubscription) && row.Kind != string(detection.KindBill) {
			continue
		}
		if row.Kind == string(detection.KindBill) && row.Paid {
			continue
		}
		due := row.NextOccurrence
		if due.Before(now) || due.After(until) {
			continue
		}

		result.Generated++

		exists, err := s.storage.Alerts.RenewalExists(ctx, ownerID, row.ID, due)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		_, err = s.storage.Alerts.Insert(ctx, &alert.AlertCreate{
			OwnerID:           ownerID,
			Type:              alert.TypeRenewal,
			Message:           renewalMessage(row),
			PatternID:         &row.ID,
			PatternOccurrence: &due,
		})
		if err != nil {
			return err
		}
		result.Saved++
	}

	return nil
}

// evaluateUnusualSpend flags expenses whose magnitude exceeds the trailing
// per-merchant baseline by the configured multiplier. The baseline for each
// candidate is the mean of the merchant's other expenses in the window.
func (s *AlertService) evaluateUnusualSpend(ctx context.Context, ownerID uuid.UUID, result *AlertRunResult) error {
	since := s.now().AddDate(0, 0, -s.baselineWindowDays)
	rows, err := s.storage.Transactions.ListByOwner(ctx, &transaction.TransactionFilter{
		OwnerID: ownerID,
		Since:   &since,
	})
	if err != nil {
		return err
	}

	expenses := engineTransactions(rows)
	byMerchant := make(map[string][]detection.Transaction)
	var merchantOrder []string
	for _, txn := range expenses {
		if !txn.Amount.IsNegative() {
			continue
		}
		label := detection.IdentityLabel(txn)
		if label == "" {
			continue
		}
		if _, seen := byMerchant[label]; !seen {
			merchantOrder = append(merchantOrder, label)
		}
		byMerchant[label] = append(byMerchant[label], txn)
	}

	for _, label := range merchantOrder {
		group := byMerchant[label]
		if len(group) < minBaselineSamples+1 {
			continue
		}

		total := decimal.Zero
		for _, txn := range group {
			total = total.Add(txn.Amount.Abs())
		}
		others := decimal.NewFromInt(int64(len(group) - 1))

		for _, txn := range group {
			magnitude := txn.Amount.Abs()
			baseline := total.Sub(magnitude).Div(others)
			if baseline.IsZero() {
				continue
			}
			if magnitude.LessThan(baseline.Mul(s.multiplier)) {
				continue
			}

			result.Generated++

			flagged, err := s.storage.Alerts.TransactionFlagged(ctx, ownerID, txn.ID)
			if err != nil {
				return err
			}
			if flagged {
				continue
			}

			txnID := txn.ID
			_, err = s.storage.Alerts.Insert(ctx, &alert.AlertCreate{
				OwnerID:       ownerID,
				Type:          alert.TypeUnusualSpend,
				Message:       unusualSpendMessage(txn, baseline),
				TransactionID: &txnID,
			})
			if err != nil {
				return err
			}
			result.Saved++
		}
	}

	return nil
}

// ListAlerts returns an owner's alerts, newest first.
func (s *AlertService) ListAlerts(ctx context.Context, ownerID uuid.UUID, unreadOnly bool) ([]Alert, error) {
	rows, err := s.storage.Alerts.List(ctx, &alert.AlertFilter{
		OwnerID:    ownerID,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		return nil, err
	}

	converted := make([]Alert, len(rows))
	for i, row := range rows {
		converted[i] = alertFromStorage(row)
	}
	return converted, nil
}

// MarkRead flips an alert to read. isRead is the only field a consumer may
// mutate, and the transition is one-way.
func (s *AlertService) MarkRead(ctx context.Context, ownerID, id uuid.UUID) error {
	err := s.storage.Alerts.MarkRead(ctx, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAlertNotFound
	}
	return err
}

func renewalMessage(row *pattern.Pattern) string {
	return fmt.Sprintf("%s is due on %s (%s %s)",
		row.DisplayName,
		row.NextOccurrence.Format("Jan 2, 2006"),
		row.RepresentativeAmount.Abs(),
		row.Currency,
	)
}

func unusualSpendMessage(txn detection.Transaction, baseline decimal.Decimal) string {
	name := txn.Merchant
	if name == "" {
		name = txn.RawDescription
	}
	return fmt.Sprintf("Unusually large expense at %s: %s %s (typically around %s)",
		name,
		txn.Amount.Abs(),
		txn.Currency,
		baseline.Round(2),
	)
}
