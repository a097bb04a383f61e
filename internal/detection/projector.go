package detection

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Projection carries the derived fields of a classified group that the
// pattern store persists.
type Projection struct {
	RepresentativeAmount decimal.Decimal // magnitude; sign reattached at persistence
	AnchorDate           time.Time
	LastObserved         time.Time
	NextOccurrence       time.Time
	OccurrenceCount      int
}

// Project computes the representative amount and occurrence dates for a
// classified group. The group is already date-ascending, so anchor and last
// observed are the first and last members.
func Project(group Group, classification Classification) Projection {
	first := group.Transactions[0]
	last := group.Transactions[len(group.Transactions)-1]

	next := NextAfter(last.Date, classification.Frequency)
	if classification.Frequency == FrequencyNone {
		// One-shot bill reminder: project from the observed spacing.
		next = last.Date.AddDate(0, 0, int(math.Round(classification.MeanInterval)))
	}

	return Projection{
		RepresentativeAmount: MeanAbsoluteAmount(group.Transactions),
		AnchorDate:           first.Date,
		LastObserved:         last.Date,
		NextOccurrence:       next,
		OccurrenceCount:      len(group.Transactions),
	}
}
