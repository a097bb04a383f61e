package pattern

import (
	"time"

	"github.com/carson-networks/recurrence-server/internal/service"
)

// Pattern is the API response model for a recurring pattern.
// It is used only for responses, not for request bodies.
type Pattern struct {
	ID                   string `json:"id" doc:"Pattern UUID"`
	Kind                 string `json:"kind" doc:"Pattern kind: subscription, bill, or recurring"`
	DisplayName          string `json:"displayName" doc:"Merchant or derived display label"`
	Category             string `json:"category,omitempty" doc:"Kind-specific display category"`
	RepresentativeAmount string `json:"representativeAmount" doc:"Signed decimal amount, negative for outflows"`
	Currency             string `json:"currency" doc:"Currency of the matched transactions"`
	Frequency            string `json:"frequency" doc:"Billing cadence: daily, weekly, monthly, yearly, or none"`
	AnchorDate           string `json:"anchorDate" doc:"RFC3339 date of the first matched occurrence"`
	LastObserved         string `json:"lastObserved" doc:"RFC3339 date of the last matched occurrence"`
	NextOccurrence       string `json:"nextOccurrence" doc:"RFC3339 projected next occurrence"`
	OccurrenceCount      int    `json:"occurrenceCount" doc:"Number of matched transactions"`
	Status               string `json:"status" doc:"Lifecycle status: active, paused, or cancelled"`
	Paid                 bool   `json:"paid" doc:"Bills only: whether this occurrence is paid"`
}

func patternFromService(p service.Pattern) Pattern {
	return Pattern{
		ID:                   p.ID.String(),
		Kind:                 string(p.Kind),
		DisplayName:          p.DisplayName,
		Category:             p.Category,
		RepresentativeAmount: p.RepresentativeAmount.String(),
		Currency:             p.Currency,
		Frequency:            string(p.Frequency),
		AnchorDate:           p.AnchorDate.Format(time.RFC3339),
		LastObserved:         p.LastObserved.Format(time.RFC3339),
		NextOccurrence:       p.NextOccurrence.Format(time.RFC3339),
		OccurrenceCount:      p.OccurrenceCount,
		Status:               string(p.Status),
		Paid:                 p.Paid,
	}
}

func patternsFromService(patterns []service.Pattern) []Pattern {
	converted := make([]Pattern, len(patterns))
	for i, p := range patterns {
		converted[i] = patternFromService(p)
	}
	return converted
}
