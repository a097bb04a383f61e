package alert

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

const (
	TypeRenewal      = "renewal"
	TypeUnusualSpend = "unusual_spend"
)

// Alert represents a persisted user-facing alert. The message is composed
// when the alert is emitted and never regenerated. PatternID/TransactionID
// are lookup back-references, not ownership. PatternOccurrence is the
// projected occurrence a renewal alert was emitted for; together with
// PatternID it forms the renewal dedup key.
type Alert struct {
	ID                uuid.UUID  `db:"id"`
	OwnerID           uuid.UUID  `db:"owner_id"`
	Type              string     `db:"alert_type"`
	Message           string     `db:"message"`
	IsRead            bool       `db:"is_read"`
	PatternID         *uuid.UUID `db:"pattern_id"`
	TransactionID     *uuid.UUID `db:"transaction_id"`
	PatternOccurrence *time.Time `db:"pattern_occurrence"`
	CreatedAt         time.Time  `db:"created_at"`
}

// AlertCreate is the input for inserting a new unread alert.
type AlertCreate struct {
	OwnerID           uuid.UUID
	Type              string
	Message           string
	PatternID         *uuid.UUID
	TransactionID     *uuid.UUID
	PatternOccurrence *time.Time
}

// AlertFilter specifies filters for listing alerts.
type AlertFilter struct {
	OwnerID    uuid.UUID
	UnreadOnly bool
}

// IAlertTable defines the interface for alert storage operations.
// This abstraction allows swapping the implementation (e.g. Bob) without changing callers.
//
//go:generate mockery --name IAlertTable --output mock_IAlertTable.go
type IAlertTable interface {
	List(ctx context.Context, filter *AlertFilter) ([]*Alert, error)
	Insert(ctx context.Context, create *AlertCreate) (uuid.UUID, error)
	MarkRead(ctx context.Context, ownerID, id uuid.UUID) error
	RenewalExists(ctx context.Context, ownerID, patternID uuid.UUID, occurrence time.Time) (bool, error)
	TransactionFlagged(ctx context.Context, ownerID, transactionID uuid.UUID) (bool, error)
}
