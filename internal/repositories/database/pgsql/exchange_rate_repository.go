package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kitaerp/glposting/internal/apperrors"
	portsrepo "github.com/kitaerp/glposting/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// PgxExchangeRateRepository reads effective exchange rates from Postgres.
type PgxExchangeRateRepository struct {
	db Querier
}

// NewPgxExchangeRateRepository creates a new rate reader.
func NewPgxExchangeRateRepository(db Querier) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{db: db}
}

var _ portsrepo.RateProvider = (*PgxExchangeRateRepository)(nil)

// FindRate returns the most recently effective rate for the currency pair,
// or apperrors.ErrNotFound when none is on record.
func (r *PgxExchangeRateRepository) FindRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (decimal.Decimal, error) {
	query := `
		SELECT rate
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND date_effective <= NOW()
		ORDER BY date_effective DESC
		LIMIT 1;
	`
	var rate decimal.Decimal
	err := r.db.QueryRow(ctx, query, fromCurrencyCode, toCurrencyCode).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to find exchange rate %s/%s: %w", fromCurrencyCode, toCurrencyCode, err)
	}
	return rate, nil
}
