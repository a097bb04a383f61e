package alert

import (
	"time"

	"github.com/carson-networks/recurrence-server/internal/service"
)

// Alert is the API response model for an alert.
// It is used only for responses, not for request bodies.
type Alert struct {
	ID            string `json:"id" doc:"Alert UUID"`
	Type          string `json:"type" doc:"Alert type: renewal or unusual_spend"`
	Message       string `json:"message" doc:"Human-readable message composed at emit time"`
	IsRead        bool   `json:"isRead" doc:"Whether the consumer marked the alert read"`
	PatternID     string `json:"patternID,omitempty" doc:"Back-reference to the pattern, renewal alerts only"`
	TransactionID string `json:"transactionID,omitempty" doc:"Back-reference to the transaction, unusual-spend alerts only"`
	CreatedAt     string `json:"createdAt" doc:"RFC3339 creation time"`
}

func alertFromService(a service.Alert) Alert {
	converted := Alert{
		ID:        a.ID.String(),
		Type:      a.Type,
		Message:   a.Message,
		IsRead:    a.IsRead,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if a.PatternID != nil {
		converted.PatternID = a.PatternID.String()
	}
	if a.TransactionID != nil {
		converted.TransactionID = a.TransactionID.String()
	}
	return converted
}
