package storage

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/recurrence-server/internal/config"
	"github.com/carson-networks/recurrence-server/internal/storage/alert"
	"github.com/carson-networks/recurrence-server/internal/storage/pattern"
	"github.com/carson-networks/recurrence-server/internal/storage/transaction"
)

// Storage bundles the table gateways. The pattern and alert tables are
// mutated by read-then-write upsert sequences without transactional
// isolation; concurrent runs for one owner can race and are reconciled by
// the next run's existing-match lookup.
type Storage struct {
	DB           *sql.DB
	Transactions transaction.ITransactionTable
	Patterns     pattern.IPatternTable
	Alerts       alert.IAlertTable
}

func NewStorage(env *config.Config) *Storage {
	connStr := "postgres://" + env.PostgresUsername + ":" +
		env.PostgresPassword + "@" + env.PostgresAddress + ":" +
		env.PostgresPort + "/" + env.PostgresDB + "?sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}

	exec := bob.NewDB(db)

	return &Storage{
		DB:           db,
		Transactions: transaction.NewTable(exec),
		Patterns:     pattern.NewTable(exec),
		Alerts:       alert.NewTable(exec),
	}
}
