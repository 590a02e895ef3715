package pgsql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kitaerp/glposting/internal/core/domain"
	portsrepo "github.com/kitaerp/glposting/internal/core/ports/repositories"
)

// PgxAccountRepository reads chart-of-accounts snapshots from Postgres.
type PgxAccountRepository struct {
	db Querier
}

// NewPgxAccountRepository creates a new snapshot reader over the given
// pool or transaction.
func NewPgxAccountRepository(db Querier) *PgxAccountRepository {
	return &PgxAccountRepository{db: db}
}

var _ portsrepo.AccountReader = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, code, name, account_type, currency_code, is_active, hierarchy_level, parent_account_id`

// GetAccountsInfo returns snapshots for the requested ids. Missing ids are
// absent from the map; the validation pipeline decides how to fail.
func (r *PgxAccountRepository) GetAccountsInfo(ctx context.Context, accountIDs []string) (map[string]domain.AccountSnapshot, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.AccountSnapshot{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE account_id = ANY($1);`, accountColumns)
	rows, err := r.db.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	snapshots := make(map[string]domain.AccountSnapshot, len(accountIDs))
	for rows.Next() {
		snapshot, err := scanAccountSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots[snapshot.AccountID] = snapshot
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}
	return snapshots, nil
}

// GetAllAccountsInfo returns every account in the chart, used to compute
// parent/child relationships for control-account checks.
func (r *PgxAccountRepository) GetAllAccountsInfo(ctx context.Context) ([]domain.AccountSnapshot, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts;`, accountColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all accounts: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.AccountSnapshot
	for rows.Next() {
		snapshot, err := scanAccountSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}
	return snapshots, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccountSnapshot(row rowScanner) (domain.AccountSnapshot, error) {
	var snapshot domain.AccountSnapshot
	var parentID sql.NullString

	err := row.Scan(
		&snapshot.AccountID,
		&snapshot.Code,
		&snapshot.Name,
		&snapshot.AccountType,
		&snapshot.CurrencyCode,
		&snapshot.IsActive,
		&snapshot.HierarchyLevel,
		&parentID,
	)
	if err != nil {
		return domain.AccountSnapshot{}, fmt.Errorf("failed to scan account row: %w", err)
	}
	if parentID.Valid {
		snapshot.ParentAccountID = &parentID.String
	}
	return snapshot, nil
}
