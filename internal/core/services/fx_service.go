package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kitaerp/glposting/internal/apperrors"
	"github.com/kitaerp/glposting/internal/core/domain"
	portsrepo "github.com/kitaerp/glposting/internal/core/ports/repositories"
	portssvc "github.com/kitaerp/glposting/internal/core/ports/services"
	"github.com/kitaerp/glposting/internal/platform/logging"
	"github.com/shopspring/decimal"
)

// fxService decides whether a transaction needs a foreign-exchange rate and
// supplies the effective one. Rate acquisition is delegated to the optional
// RateProvider; without one the rate defaults to 1.
type fxService struct {
	rates portsrepo.RateProvider
}

// NewFxService creates the FX policy resolver. rates may be nil when no
// rate source is configured.
func NewFxService(rates portsrepo.RateProvider) portssvc.FxSvcFacade {
	return &fxService{rates: rates}
}

var _ portssvc.FxSvcFacade = (*fxService)(nil)

// ResolveFxPolicy normalises both currency codes and reports whether a rate
// is required. Codes that are not exactly three letters after trimming and
// uppercasing fail with INVALID_CURRENCY_CODE.
func (s *fxService) ResolveFxPolicy(ctx context.Context, baseCurrency, transactionCurrency string) (*domain.FxResolution, error) {
	base, err := normalizeCurrencyCode(baseCurrency)
	if err != nil {
		return nil, err
	}
	txn, err := normalizeCurrencyCode(transactionCurrency)
	if err != nil {
		return nil, err
	}

	resolution := &domain.FxResolution{
		RequiresFxRate:      base != txn,
		BaseCurrency:        base,
		TransactionCurrency: txn,
		ExchangeRate:        decimal.NewFromInt(1),
	}

	if resolution.RequiresFxRate && s.rates != nil {
		rate, err := s.rates.FindRate(ctx, txn, base)
		switch {
		case err == nil:
			resolution.ExchangeRate = rate
		case errors.Is(err, apperrors.ErrNotFound):
			// No rate on record; leave the default and let the caller
			// decide whether a placeholder rate is acceptable.
			logging.GetLoggerFromCtx(ctx).Warn("No exchange rate on record",
				slog.String("from", txn), slog.String("to", base))
		default:
			return nil, fmt.Errorf("failed to look up exchange rate %s/%s: %w", txn, base, err)
		}
	}
	return resolution, nil
}

// normalizeCurrencyCode trims, uppercases and shape-checks an ISO 4217 code.
func normalizeCurrencyCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if !isThreeLetters(normalized) {
		return "", apperrors.NewPostingError(apperrors.CodeInvalidCurrencyCode,
			fmt.Sprintf("currency code %q must be exactly 3 letters", code),
			map[string]any{"currencyCode": code})
	}
	return normalized, nil
}

func isThreeLetters(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
