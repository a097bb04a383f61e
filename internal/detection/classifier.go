package detection

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Classification is the outcome of validating a candidate group.
type Classification struct {
	Frequency    Frequency
	MeanInterval float64 // days between consecutive observations
	Category     string  // kind-specific display category
	Income       bool    // recurring kind only: inflow pattern
}

// frequencyWindow maps a mean-interval range (in days) to a canonical
// frequency. Intervals outside every window classify nothing; bills get a
// non-recurring fallback instead (see Classify).
type frequencyWindow struct {
	min, max  float64
	frequency Frequency
}

var frequencyWindows = []frequencyWindow{
	{0.8, 1.5, FrequencyDaily},
	{6, 8, FrequencyWeekly},
	{25, 35, FrequencyMonthly},
	{360, 370, FrequencyYearly},
}

// billKeyword drives both the bill grouping predicate and the display
// category inferred for a classified bill. Order matters: the first keyword
// found in the identity label wins.
type billKeyword struct {
	keyword  string
	category string
}

var billKeywords = []billKeyword{
	{"rent", "Rent"},
	{"mortgage", "Rent"},
	{"insurance", "Insurance"},
	{"loan", "Loan Payment"},
	{"credit", "Credit Card"},
	{"utility", "Utilities"},
	{"electric", "Utilities"},
	{"water", "Utilities"},
	{"internet", "Utilities"},
	{"tax", "Taxes"},
}

const defaultBillCategory = "Bills"

func matchesBillKeyword(label string) bool {
	label = strings.ToLower(label)
	for _, entry := range billKeywords {
		if strings.Contains(label, entry.keyword) {
			return true
		}
	}
	return false
}

func billCategory(label string) string {
	label = strings.ToLower(label)
	for _, entry := range billKeywords {
		if strings.Contains(label, entry.keyword) {
			return entry.category
		}
	}
	return defaultBillCategory
}

// Classify validates a candidate group's amount stability and temporal
// regularity, returning false when the group establishes no pattern.
// Two observations (one interval sample) are accepted as sufficient
// evidence; recall is preferred over precision at that size.
func Classify(group Group, kind Kind) (Classification, bool) {
	if len(group.Transactions) < 2 {
		return Classification{}, false
	}

	mean := MeanAbsoluteAmount(group.Transactions)
	if !amountsStable(group.Transactions, mean, kind.amountTolerance()) {
		return Classification{}, false
	}

	meanInterval := meanIntervalDays(group.Transactions)
	frequency, ok := classifyInterval(meanInterval)
	if !ok {
		if kind != KindBill {
			return Classification{}, false
		}
		// An abnormally spaced bill is still worth a one-shot reminder.
		frequency = FrequencyNone
	}

	classification := Classification{
		Frequency:    frequency,
		MeanInterval: meanInterval,
	}

	switch kind {
	case KindBill:
		classification.Category = billCategory(group.Key)
	case KindRecurring:
		classification.Income = !group.Transactions[0].Amount.IsNegative()
		if classification.Income {
			classification.Category = "Income"
		} else {
			classification.Category = "Expense"
		}
	}

	return classification, true
}

// MeanAbsoluteAmount is the average magnitude across a group's transactions.
func MeanAbsoluteAmount(txns []Transaction) decimal.Decimal {
	amounts := make([]decimal.Decimal, len(txns))
	for i, txn := range txns {
		amounts[i] = txn.Amount.Abs()
	}
	return decimal.Avg(amounts[0], amounts[1:]...)
}

func amountsStable(txns []Transaction, mean decimal.Decimal, tolerance float64) bool {
	if mean.IsZero() {
		return false
	}
	allowed := mean.Mul(decimal.NewFromFloat(tolerance))
	for _, txn := range txns {
		if txn.Amount.Abs().Sub(mean).Abs().GreaterThan(allowed) {
			return false
		}
	}
	return true
}

func meanIntervalDays(txns []Transaction) float64 {
	var total float64
	for i := 1; i < len(txns); i++ {
		total += txns[i].Date.Sub(txns[i-1].Date).Hours() / 24
	}
	return total / float64(len(txns)-1)
}

func classifyInterval(meanInterval float64) (Frequency, bool) {
	for _, window := range frequencyWindows {
		if meanInterval >= window.min && meanInterval <= window.max {
			return window.frequency, true
		}
	}
	return "", false
}
