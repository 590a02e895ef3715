package repositories

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateProvider supplies the effective exchange rate between two currencies.
// Rate acquisition from external markets is out of scope for the engine;
// implementations may read a table, a cache, or a remote service.
type RateProvider interface {
	// FindRate returns the effective rate converting from transaction
	// currency to base currency, or apperrors.ErrNotFound when no rate is
	// on record.
	FindRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (decimal.Decimal, error)
}
