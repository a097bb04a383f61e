package service

import (
	"context"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/recurrence-server/internal/detection"
	"github.com/carson-networks/recurrence-server/internal/storage"
	"github.com/carson-networks/recurrence-server/internal/storage/pattern"
	"github.com/carson-networks/recurrence-server/internal/storage/transaction"
)

// recurringAmountMatchFraction is how close an existing generic-recurring
// pattern's amount must be to a new candidate's before the candidate is
// treated as a re-detection rather than a new pattern.
const recurringAmountMatchFraction = 0.10

// billDueMatchWindow is how far apart two projected due dates may lie while
// still referring to the same bill occurrence.
const billDueMatchWindow = 7 * 24 * time.Hour

// DetectionService runs the grouping, classification, projection, and
// reconciliation pipeline for one owner and kind. Each run is a synchronous
// batch over an in-memory snapshot of the owner's transactions; there is no
// coordination between runs, and the existing-match checks below are
// read-then-write with no lock, which two racing runs can both pass. The
// next run reconciles any duplicate that slips through.
type DetectionService struct {
	storage *storage.Storage
}

// NewDetectionService creates a new DetectionService.
func NewDetectionService(store *storage.Storage) *DetectionService {
	return &DetectionService{storage: store}
}

// Detect scans the owner's full transaction history for recurring patterns
// of the given kind and upserts them into the pattern store.
func (s *DetectionService) Detect(ctx context.Context, ownerID uuid.UUID, kind detection.Kind) (*DetectionResult, error) {
	rows, err := s.storage.Transactions.ListByOwner(ctx, &transaction.TransactionFilter{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}

	groups := detection.GroupTransactions(engineTransactions(rows), kind)
	if len(groups) == 0 {
		return &DetectionResult{}, nil
	}

	kindValue := string(kind)
	statusActive := pattern.StatusActive
	existing, err := s.storage.Patterns.List(ctx, &pattern.PatternFilter{
		OwnerID: ownerID,
		Kind:    &kindValue,
		Status:  &statusActive,
	})
	if err != nil {
		return nil, err
	}

	result := &DetectionResult{}
	for _, group := range groups {
		classification, ok := detection.Classify(group, kind)
		if !ok {
			continue
		}
		projection := detection.Project(group, classification)
		result.DetectedCount++

		create := buildPatternCreate(ownerID, kind, group, classification, projection)
		row, saved, err := s.reconcile(ctx, kind, create, existing)
		if err != nil {
			return nil, err
		}
		if saved {
			result.SavedCount++
			// Visible to later groups in this run so duplicates within a
			// single scan collapse too.
			existing = append(existing, row)
		}
		result.Patterns = append(result.Patterns, patternFromStorage(row))
	}

	return result, nil
}

// reconcile applies the kind-specific upsert rule: create a new active
// pattern or fold the candidate into an existing one, never both.
func (s *DetectionService) reconcile(
	ctx context.Context,
	kind detection.Kind,
	create *pattern.PatternCreate,
	existing []*pattern.Pattern,
) (*pattern.Pattern, bool, error) {
	switch kind {
	case detection.KindSubscription:
		// Keyed strictly on merchant: unconditional overwrite of the
		// observed fields, creation timestamp preserved.
		if match := findByName(existing, create.DisplayName); match != nil {
			update := &pattern.PatternUpdate{
				RepresentativeAmount: omit.From(create.RepresentativeAmount),
				Frequency:            omit.From(create.Frequency),
				LastObserved:         omit.From(create.LastObserved),
				NextOccurrence:       omit.From(create.NextOccurrence),
				OccurrenceCount:      omit.From(create.OccurrenceCount),
			}
			if err := s.storage.Patterns.Update(ctx, match.ID, update); err != nil {
				return nil, false, err
			}
			return updatedPattern(match, create), false, nil
		}

	case detection.KindRecurring:
		// Same name and frequency within ±10% of the amount means this is a
		// re-detection; skip the insert entirely.
		for _, candidate := range existing {
			if sameName(candidate.DisplayName, create.DisplayName) &&
				candidate.Frequency == create.Frequency &&
				amountWithin(candidate.RepresentativeAmount, create.RepresentativeAmount, recurringAmountMatchFraction) {
				return candidate, false, nil
			}
		}

	case detection.KindBill:
		// An unpaid bill with the same display name due within a week of
		// the new projection is the same bill.
		for _, candidate := range existing {
			if candidate.Paid || !sameName(candidate.DisplayName, create.DisplayName) {
				continue
			}
			gap := candidate.NextOccurrence.Sub(create.NextOccurrence)
			if gap < 0 {
				gap = -gap
			}
			if gap <= billDueMatchWindow {
				return candidate, false, nil
			}
		}
	}

	id, err := s.storage.Patterns.Insert(ctx, create)
	if err != nil {
		return nil, false, err
	}
	return insertedPattern(id, create), true, nil
}

func buildPatternCreate(
	ownerID uuid.UUID,
	kind detection.Kind,
	group detection.Group,
	classification detection.Classification,
	projection detection.Projection,
) *pattern.PatternCreate {
	amount := projection.RepresentativeAmount
	if kind != detection.KindRecurring || !classification.Income {
		amount = amount.Neg()
	}

	return &pattern.PatternCreate{
		OwnerID:              ownerID,
		Kind:                 string(kind),
		IdentityKey:          group.Key,
		DisplayName:          group.DisplayName,
		Category:             classification.Category,
		RepresentativeAmount: amount,
		Currency:             group.Transactions[0].Currency,
		Frequency:            string(classification.Frequency),
		AnchorDate:           projection.AnchorDate,
		LastObserved:         projection.LastObserved,
		NextOccurrence:       projection.NextOccurrence,
		OccurrenceCount:      projection.OccurrenceCount,
	}
}

func findByName(rows []*pattern.Pattern, name string) *pattern.Pattern {
	for _, row := range rows {
		if sameName(row.DisplayName, name) {
			return row
		}
	}
	return nil
}

func sameName(a, b string) bool {
	return detection.NormalizeLabel(a) == detection.NormalizeLabel(b)
}

// insertedPattern is the in-memory snapshot of a row just written; CreatedAt
// approximates the database's now() default.
func insertedPattern(id uuid.UUID, create *pattern.PatternCreate) *pattern.Pattern {
	return &pattern.Pattern{
		ID:                   id,
		OwnerID:              create.OwnerID,
		Kind:                 create.Kind,
		IdentityKey:          create.IdentityKey,
		DisplayName:          create.DisplayName,
		Category:             create.Category,
		RepresentativeAmount: create.RepresentativeAmount,
		Currency:             create.Currency,
		Frequency:            create.Frequency,
		AnchorDate:           create.AnchorDate,
		LastObserved:         create.LastObserved,
		NextOccurrence:       create.NextOccurrence,
		OccurrenceCount:      create.OccurrenceCount,
		Status:               pattern.StatusActive,
		CreatedAt:            time.Now(),
	}
}

func updatedPattern(match *pattern.Pattern, create *pattern.PatternCreate) *pattern.Pattern {
	updated := *match
	updated.RepresentativeAmount = create.RepresentativeAmount
	updated.Frequency = create.Frequency
	updated.LastObserved = create.LastObserved
	updated.NextOccurrence = create.NextOccurrence
	updated.OccurrenceCount = create.OccurrenceCount
	return &updated
}
