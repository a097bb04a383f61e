package transaction

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

var _ ITransactionTable = (*Table)(nil)

var columns = []any{
	"id", "owner_id", "amount", "currency", "merchant",
	"raw_description", "category", "transaction_date", "created_at",
}

type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

// ListByOwner returns an owner's transactions ordered ascending by date.
// Detection runs depend on this ordering being stable.
func (t *Table) ListByOwner(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From("transactions"),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(filter.OwnerID))),
		sm.OrderBy("transaction_date").Asc(),
		sm.OrderBy("id").Asc(),
	}
	if filter.Since != nil {
		queryMods = append(queryMods,
			sm.Where(psql.Quote("transaction_date").GTE(psql.Arg(*filter.Since))),
		)
	}

	return bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[*Transaction]())
}

// Insert creates a new ledger row and returns its generated ID.
func (t *Table) Insert(ctx context.Context, create *TransactionCreate) (uuid.UUID, error) {
	transactionDate := create.TransactionDate
	if transactionDate.IsZero() {
		transactionDate = time.Now()
	}

	query := psql.Insert(
		im.Into("transactions",
			"owner_id", "amount", "currency", "merchant",
			"raw_description", "category", "transaction_date",
		),
		im.Values(psql.Arg(
			create.OwnerID, create.Amount, create.Currency, create.Merchant,
			create.RawDescription, create.Category, transactionDate,
		)),
		im.Returning("id"),
	)

	id, err := bob.One(ctx, t.exec, query, scan.SingleColumnMapper[uuid.UUID])
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
