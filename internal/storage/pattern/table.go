package pattern

import (
	"context"
	"database/sql"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

var _ IPatternTable = (*Table)(nil)

var columns = []any{
	"id", "owner_id", "kind", "identity_key", "display_name", "category",
	"representative_amount", "currency", "frequency", "anchor_date",
	"last_observed", "next_occurrence", "occurrence_count", "status", "paid",
	"created_at", "updated_at",
}

type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

// FindByID retrieves a pattern by primary key.
func (t *Table) FindByID(ctx context.Context, id uuid.UUID) (*Pattern, error) {
	query := psql.Select(
		sm.Columns(columns...),
		sm.From("recurring_patterns"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return bob.One(ctx, t.exec, query, scan.StructMapper[*Pattern]())
}

// List returns patterns matching the filter, ordered by next occurrence.
func (t *Table) List(ctx context.Context, filter *PatternFilter) ([]*Pattern, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From("recurring_patterns"),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(filter.OwnerID))),
		sm.OrderBy("next_occurrence").Asc(),
		sm.OrderBy("id").Asc(),
	}
	if filter.Kind != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("kind").EQ(psql.Arg(*filter.Kind))))
	}
	if filter.Status != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("status").EQ(psql.Arg(*filter.Status))))
	}
	if filter.NextOnOrAfter != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("next_occurrence").GTE(psql.Arg(*filter.NextOnOrAfter))))
	}
	if filter.NextBefore != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("next_occurrence").LT(psql.Arg(*filter.NextBefore))))
	}

	return bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[*Pattern]())
}

// Insert creates a new active, unpaid pattern and returns its generated ID.
func (t *Table) Insert(ctx context.Context, create *PatternCreate) (uuid.UUID, error) {
	query := psql.Insert(
		im.Into("recurring_patterns",
			"owner_id", "kind", "identity_key", "display_name", "category",
			"representative_amount", "currency", "frequency", "anchor_date",
			"last_observed", "next_occurrence", "occurrence_count", "status",
		),
		im.Values(psql.Arg(
			create.OwnerID, create.Kind, create.IdentityKey, create.DisplayName,
			create.Category, create.RepresentativeAmount, create.Currency,
			create.Frequency, create.AnchorDate, create.LastObserved,
			create.NextOccurrence, create.OccurrenceCount, StatusActive,
		)),
		im.Returning("id"),
	)

	id, err := bob.One(ctx, t.exec, query, scan.SingleColumnMapper[uuid.UUID])
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Update mutates the set fields of an existing pattern. created_at is never
// touched, preserving the original detection timestamp across upserts.
func (t *Table) Update(ctx context.Context, id uuid.UUID, update *PatternUpdate) error {
	queryMods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table("recurring_patterns"),
		um.SetCol("updated_at").To(psql.Raw("now()")),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if v, ok := update.RepresentativeAmount.Get(); ok {
		queryMods = append(queryMods, um.SetCol("representative_amount").ToArg(v))
	}
	if v, ok := update.Frequency.Get(); ok {
		queryMods = append(queryMods, um.SetCol("frequency").ToArg(v))
	}
	if v, ok := update.LastObserved.Get(); ok {
		queryMods = append(queryMods, um.SetCol("last_observed").ToArg(v))
	}
	if v, ok := update.NextOccurrence.Get(); ok {
		queryMods = append(queryMods, um.SetCol("next_occurrence").ToArg(v))
	}
	if v, ok := update.OccurrenceCount.Get(); ok {
		queryMods = append(queryMods, um.SetCol("occurrence_count").ToArg(v))
	}
	if v, ok := update.Status.Get(); ok {
		queryMods = append(queryMods, um.SetCol("status").ToArg(v))
	}
	if v, ok := update.Paid.Get(); ok {
		queryMods = append(queryMods, um.SetCol("paid").ToArg(v))
	}

	result, err := bob.Exec(ctx, t.exec, psql.Update(queryMods...))
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
