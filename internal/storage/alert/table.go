package alert

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

var _ IAlertTable = (*Table)(nil)

var columns = []any{
	"id", "owner_id", "alert_type", "message", "is_read",
	"pattern_id", "transaction_id", "pattern_occurrence", "created_at",
}

type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

// List returns an owner's alerts, newest first.
func (t *Table) List(ctx context.Context, filter *AlertFilter) ([]*Alert, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From("alerts"),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(filter.OwnerID))),
		sm.OrderBy("created_at").Desc(),
		sm.OrderBy("id").Desc(),
	}
	if filter.UnreadOnly {
		queryMods = append(queryMods, sm.Where(psql.Quote("is_read").EQ(psql.Arg(false))))
	}

	return bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[*Alert]())
}

// Insert creates a new unread alert and returns its generated ID.
func (t *Table) Insert(ctx context.Context, create *AlertCreate) (uuid.UUID, error) {
	query := psql.Insert(
		im.Into("alerts",
			"owner_id", "alert_type", "message",
			"pattern_id", "transaction_id", "pattern_occurrence",
		),
		im.Values(psql.Arg(
			create.OwnerID, create.Type, create.Message,
			create.PatternID, create.TransactionID, create.PatternOccurrence,
		)),
		im.Returning("id"),
	)

	id, err := bob.One(ctx, t.exec, query, scan.SingleColumnMapper[uuid.UUID])
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// MarkRead sets is_read on a single alert. Only the owner may flip it, and
// no other field is mutable through this table.
func (t *Table) MarkRead(ctx context.Context, ownerID, id uuid.UUID) error {
	query := psql.Update(
		um.Table("alerts"),
		um.SetCol("is_read").ToArg(true),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
	)

	result, err := bob.Exec(ctx, t.exec, query)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RenewalExists reports whether a renewal alert, read or unread, already
// references the (pattern, occurrence) pair.
func (t *Table) RenewalExists(ctx context.Context, ownerID, patternID uuid.UUID, occurrence time.Time) (bool, error) {
	query := psql.Select(
		sm.Columns("id"),
		sm.From("alerts"),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
		sm.Where(psql.Quote("alert_type").EQ(psql.Arg(TypeRenewal))),
		sm.Where(psql.Quote("pattern_id").EQ(psql.Arg(patternID))),
		sm.Where(psql.Quote("pattern_occurrence").EQ(psql.Arg(occurrence))),
		sm.Limit(1),
	)

	rows, err := bob.All(ctx, t.exec, query, scan.SingleColumnMapper[uuid.UUID])
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// TransactionFlagged reports whether an unusual-spend alert already
// references the transaction.
func (t *Table) TransactionFlagged(ctx context.Context, ownerID, transactionID uuid.UUID) (bool, error) {
	query := psql.Select(
		sm.Columns("id"),
		sm.From("alerts"),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
		sm.Where(psql.Quote("alert_type").EQ(psql.Arg(TypeUnusualSpend))),
		sm.Where(psql.Quote("transaction_id").EQ(psql.Arg(transactionID))),
		sm.Limit(1),
	)

	rows, err := bob.All(ctx, t.exec, query, scan.SingleColumnMapper[uuid.UUID])
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}
