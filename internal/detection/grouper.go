package detection

import (
	"sort"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Transaction is the engine's view of a ledger row. Merchant and Category
// are optional; empty means absent. Validation happens here at the grouping
// boundary, never downstream.
type Transaction struct {
	ID             uuid.UUID
	Date           time.Time
	Amount         decimal.Decimal
	Currency       string
	Merchant       string
	RawDescription string
	Category       string
}

// Group is a candidate pattern: transactions sharing one identity key,
// ordered ascending by date.
type Group struct {
	Key          string
	DisplayName  string
	Transactions []Transaction
}

// descriptionPrefixLen bounds how much of a free-text description
// contributes to the identity key when no merchant label exists.
const descriptionPrefixLen = 24

var ten = decimal.NewFromInt(10)

// GroupTransactions partitions a transaction set into candidate groups for
// one detection kind. Transactions failing the kind predicate or carrying a
// zero date are skipped. Groups with fewer than two members are dropped; a
// single observation cannot establish a pattern.
func GroupTransactions(txns []Transaction, kind Kind) []Group {
	byKey := make(map[string]*Group)

	for _, txn := range txns {
		if txn.Date.IsZero() {
			continue
		}
		if !matchesKind(txn, kind) {
			continue
		}

		key := IdentityLabel(txn)
		if key == "" {
			continue
		}
		if kind == KindRecurring {
			// Coarse amount bucket keeps near-identical recurring charges
			// under slightly different wording together while splitting
			// genuinely distinct amounts.
			key += "|" + amountBucket(txn.Amount)
		}

		group, ok := byKey[key]
		if !ok {
			group = &Group{Key: key, DisplayName: displayName(txn)}
			byKey[key] = group
		}
		group.Transactions = append(group.Transactions, txn)
	}

	groups := make([]Group, 0, len(byKey))
	for _, group := range byKey {
		if len(group.Transactions) < 2 {
			continue
		}
		sort.SliceStable(group.Transactions, func(i, j int) bool {
			return group.Transactions[i].Date.Before(group.Transactions[j].Date)
		})
		groups = append(groups, *group)
	}

	// Map iteration order is random; detection runs must be reproducible.
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })

	return groups
}

func matchesKind(txn Transaction, kind Kind) bool {
	switch kind {
	case KindSubscription:
		return txn.Amount.IsNegative()
	case KindBill:
		return txn.Amount.IsNegative() && matchesBillKeyword(txn.Merchant+" "+txn.RawDescription)
	default:
		return true
	}
}

// IdentityLabel derives the grouping label for a transaction: the normalized
// merchant when present, otherwise a normalized prefix of the description.
func IdentityLabel(txn Transaction) string {
	if label := NormalizeLabel(txn.Merchant); label != "" {
		return label
	}
	return truncateRunes(NormalizeLabel(txn.RawDescription), descriptionPrefixLen)
}

// NormalizeLabel lowercases and collapses internal whitespace.
func NormalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}

// amountBucket rounds the amount magnitude to the nearest ten.
func amountBucket(amount decimal.Decimal) string {
	return amount.Abs().Div(ten).Round(0).Mul(ten).String()
}

func displayName(txn Transaction) string {
	if name := strings.TrimSpace(txn.Merchant); name != "" {
		return name
	}
	return truncateRunes(strings.TrimSpace(txn.RawDescription), descriptionPrefixLen)
}
