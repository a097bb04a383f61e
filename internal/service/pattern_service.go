package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/recurrence-server/internal/detection"
	"github.com/carson-networks/recurrence-server/internal/storage"
	"github.com/carson-networks/recurrence-server/internal/storage/pattern"
)

// PatternService exposes the persisted pattern store to read surfaces and
// owns the bill-payment transition.
type PatternService struct {
	storage *storage.Storage

	now func() time.Time
}

// NewPatternService creates a new PatternService.
func NewPatternService(store *storage.Storage) *PatternService {
	return &PatternService{storage: store, now: time.Now}
}

// ListPatterns returns an owner's patterns, optionally narrowed by status.
func (s *PatternService) ListPatterns(ctx context.Context, ownerID uuid.UUID, status *Status) ([]Pattern, error) {
	filter := &pattern.PatternFilter{OwnerID: ownerID}
	if status != nil {
		statusValue := string(*status)
		filter.Status = &statusValue
	}

	rows, err := s.storage.Patterns.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return patternsFromStorage(rows), nil
}

// Upcoming returns active patterns due within the rolling window, for the
// "due soon" widgets. Paid bills are excluded; their next occurrence row
// already exists separately.
func (s *PatternService) Upcoming(ctx context.Context, ownerID uuid.UUID, withinDays int) ([]Pattern, error) {
	from := s.now()
	until := from.AddDate(0, 0, withinDays)

	statusActive := pattern.StatusActive
	rows, err := s.storage.Patterns.List(ctx, &pattern.PatternFilter{
		OwnerID:       ownerID,
		Status:        &statusActive,
		NextOnOrAfter: &from,
		NextBefore:    &until,
	})
	if err != nil {
		return nil, err
	}

	filtered := rows[:0]
	for _, row := range rows {
		if row.Kind == string(detection.KindBill) && row.Paid {
			continue
		}
		filtered = append(filtered, row)
	}

	return patternsFromStorage(filtered), nil
}

// PayBill marks a bill pattern paid and spawns its next occurrence as a new
// unpaid record one canonical period out, the same projection rule the
// detection pipeline uses. One-shot bills (frequency none) are only marked
// paid; nothing is spawned and nil is returned.
func (s *PatternService) PayBill(ctx context.Context, ownerID, id uuid.UUID) (*Pattern, error) {
	row, err := s.storage.Patterns.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPatternNotFound
	}
	if err != nil {
		return nil, err
	}
	if row.OwnerID != ownerID {
		return nil, ErrPatternNotFound
	}
	if row.Kind != string(detection.KindBill) {
		return nil, ErrNotABill
	}
	if row.Paid {
		return nil, ErrBillAlreadyPaid
	}

	update := &pattern.PatternUpdate{Paid: omit.From(true)}
	if err := s.storage.Patterns.Update(ctx, id, update); err != nil {
		return nil, err
	}

	frequency := detection.Frequency(row.Frequency)
	if frequency == detection.FrequencyNone {
		return nil, nil
	}

	create := &pattern.PatternCreate{
		OwnerID:              row.OwnerID,
		Kind:                 row.Kind,
		IdentityKey:          row.IdentityKey,
		DisplayName:          row.DisplayName,
		Category:             row.Category,
		RepresentativeAmount: row.RepresentativeAmount,
		Currency:             row.Currency,
		Frequency:            row.Frequency,
		AnchorDate:           row.AnchorDate,
		LastObserved:         row.NextOccurrence,
		NextOccurrence:       detection.NextAfter(row.NextOccurrence, frequency),
		OccurrenceCount:      row.OccurrenceCount,
	}
	spawnedID, err := s.storage.Patterns.Insert(ctx, create)
	if err != nil {
		return nil, err
	}

	spawned := patternFromStorage(insertedPattern(spawnedID, create))
	return &spawned, nil
}

func patternsFromStorage(rows []*pattern.Pattern) []Pattern {
	converted := make([]Pattern, len(rows))
	for i, row := range rows {
		converted[i] = patternFromStorage(row)
	}
	return converted
}
