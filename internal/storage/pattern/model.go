package pattern

import (
	"context"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCancelled = "cancelled"
)

// Pattern represents a persisted recurring pattern record.
type Pattern struct {
	ID                   uuid.UUID       `db:"id"`
	OwnerID              uuid.UUID       `db:"owner_id"`
	Kind                 string          `db:"kind"`
	IdentityKey          string          `db:"identity_key"`
	DisplayName          string          `db:"display_name"`
	Category             string          `db:"category"`
	RepresentativeAmount decimal.Decimal `db:"representative_amount"`
	Currency             string          `db:"currency"`
	Frequency            string          `db:"frequency"`
	AnchorDate           time.Time       `db:"anchor_date"`
	LastObserved         time.Time       `db:"last_observed"`
	NextOccurrence       time.Time       `db:"next_occurrence"`
	OccurrenceCount      int             `db:"occurrence_count"`
	Status               string          `db:"status"`
	Paid                 bool            `db:"paid"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
}

// PatternCreate is the input for inserting a new pattern.
type PatternCreate struct {
	OwnerID              uuid.UUID
	Kind                 string
	IdentityKey          string
	DisplayName          string
	Category             string
	RepresentativeAmount decimal.Decimal
	Currency             string
	Frequency            string
	AnchorDate           time.Time
	LastObserved         time.Time
	NextOccurrence       time.Time
	OccurrenceCount      int
}

// PatternUpdate carries the mutable fields of an existing pattern; unset
// fields are left untouched.
type PatternUpdate struct {
	RepresentativeAmount omit.Val[decimal.Decimal]
	Frequency            omit.Val[string]
	LastObserved         omit.Val[time.Time]
	NextOccurrence       omit.Val[time.Time]
	OccurrenceCount      omit.Val[int]
	Status               omit.Val[string]
	Paid                 omit.Val[bool]
}

// PatternFilter specifies filters for listing patterns.
type PatternFilter struct {
	OwnerID       uuid.UUID
	Kind          *string
	Status        *string
	NextOnOrAfter *time.Time
	NextBefore    *time.Time
}

// IPatternTable defines the interface for pattern storage operations.
// This abstraction allows swapping the implementation (e.g. Bob) without changing callers.
//
//go:generate mockery --name IPatternTable --output mock_IPatternTable.go
type IPatternTable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Pattern, error)
	List(ctx context.Context, filter *PatternFilter) ([]*Pattern, error)
	Insert(ctx context.Context, create *PatternCreate) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, update *PatternUpdate) error
}
