package detection

import "time"

// Kind selects which class of recurring pattern a detection run looks for.
type Kind string

const (
	KindSubscription Kind = "subscription"
	KindBill         Kind = "bill"
	KindRecurring    Kind = "recurring"
)

func (k Kind) Valid() bool {
	switch k {
	case KindSubscription, KindBill, KindRecurring:
		return true
	}
	return false
}

// amountTolerance is the maximum relative deviation of a member's absolute
// amount from the group mean before the group is rejected as unstable.
// Subscriptions are flat-priced; bills (taxes, variable utilities) drift more.
func (k Kind) amountTolerance() float64 {
	switch k {
	case KindSubscription:
		return 0.05
	case KindBill:
		return 0.15
	default:
		return 0.10
	}
}

// Frequency is the canonical billing cadence of a classified pattern.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"

	// FrequencyNone marks a bill that matched no cadence window and is kept
	// as a one-shot reminder rather than a repeating pattern.
	FrequencyNone Frequency = "none"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly, FrequencyNone:
		return true
	}
	return false
}

// NextAfter advances a date by one canonical period of the frequency.
// Month and year arithmetic follow time.AddDate rollover (Jan 31 + 1 month
// lands in early March); callers rely on this being deterministic.
func NextAfter(t time.Time, f Frequency) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return t.AddDate(0, 1, 0)
	case FrequencyYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t
	}
}
