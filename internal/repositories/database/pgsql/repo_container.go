package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/kitaerp/glposting/internal/core/ports/repositories"
)

// Repositories bundles the Postgres-backed collaborators the engine consumes.
type Repositories struct {
	Accounts portsrepo.AccountReader
	Rates    portsrepo.RateProvider
}

// NewRepositories wires the read-side repositories over one pool.
func NewRepositories(dbPool *pgxpool.Pool) Repositories {
	return Repositories{
		Accounts: NewPgxAccountRepository(dbPool),
		Rates:    NewPgxExchangeRateRepository(dbPool),
	}
}
