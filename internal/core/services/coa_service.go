package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kitaerp/glposting/internal/apperrors"
	"github.com/kitaerp/glposting/internal/core/domain"
	portssvc "github.com/kitaerp/glposting/internal/core/ports/services"
	"github.com/kitaerp/glposting/internal/platform/logging"
)

// coaService validates chart-of-accounts rules for a posting pass. All
// checks operate on the immutable per-call snapshot map, so concurrent
// validations never observe interleaved mutation.
type coaService struct{}

// NewCoAService creates the chart-of-accounts validator.
func NewCoAService() portssvc.CoASvcFacade {
	return &coaService{}
}

var _ portssvc.CoASvcFacade = (*coaService)(nil)

// ValidateAccountsExist checks that every referenced id resolved to a
// snapshot and that each resolved account is active.
func ValidateAccountsExist(accountIDs []string, snapshots map[string]domain.AccountSnapshot) error {
	var missing []string
	for _, id := range accountIDs {
		if _, ok := snapshots[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewPostingError(apperrors.CodeAccountsNotFound,
			fmt.Sprintf("%d referenced account(s) do not exist", len(missing)),
			map[string]any{"missingAccountIDs": missing})
	}

	for _, id := range accountIDs {
		if acc := snapshots[id]; !acc.IsActive {
			return apperrors.NewPostingError(apperrors.CodeInactiveAccount,
				fmt.Sprintf("account %s (%s) is inactive", acc.Code, id),
				map[string]any{"accountID": id, "accountCode": acc.Code})
		}
	}
	return nil
}

// ValidateCurrencyConsistency checks that every referenced account carries
// the journal's currency. Conversion between currencies is the FX
// resolver's concern, not an account property.
func ValidateCurrencyConsistency(journalCurrency string, snapshots map[string]domain.AccountSnapshot, accountIDs []string) error {
	type mismatch struct {
		AccountID string `json:"accountID"`
		Currency  string `json:"currency"`
	}
	var mismatches []mismatch
	for _, id := range accountIDs {
		acc, ok := snapshots[id]
		if !ok {
			continue // existence is validated separately
		}
		if acc.CurrencyCode != journalCurrency {
			mismatches = append(mismatches, mismatch{AccountID: id, Currency: acc.CurrencyCode})
		}
	}
	if len(mismatches) > 0 {
		return apperrors.NewPostingError(apperrors.CodeCurrencyMismatch,
			fmt.Sprintf("%d account(s) do not match journal currency %s", len(mismatches), journalCurrency),
			map[string]any{"journalCurrency": journalCurrency, "mismatches": mismatches})
	}
	return nil
}

// ValidateControlAccounts enforces the leaf-only posting rule: no posting
// may target a hierarchy level 0 account or any account that is the parent
// of another. The parent index is built once per pass from allAccounts.
func ValidateControlAccounts(accountIDs []string, snapshots map[string]domain.AccountSnapshot, allAccounts []domain.AccountSnapshot) error {
	parents := make(map[string]struct{}, len(allAccounts))
	for _, acc := range allAccounts {
		if acc.ParentAccountID != nil && *acc.ParentAccountID != "" {
			parents[*acc.ParentAccountID] = struct{}{}
		}
	}

	for _, id := range accountIDs {
		acc, ok := snapshots[id]
		if !ok {
			continue
		}
		_, isParent := parents[id]
		if acc.IsControl() || isParent {
			return apperrors.NewPostingError(apperrors.CodeControlAccountViolation,
				fmt.Sprintf("account %s (%s) is a control account; postings must target leaf accounts", acc.Code, id),
				map[string]any{
					"accountID":      id,
					"accountCode":    acc.Code,
					"hierarchyLevel": acc.HierarchyLevel,
					"isParent":       isParent,
				})
		}
	}
	return nil
}

// NormalBalanceWarnings reports lines whose side opposes the account type's
// natural balance. Advisory only; a contra entry is legitimate, so this
// never blocks a posting.
func NormalBalanceWarnings(lines []domain.JournalLine, snapshots map[string]domain.AccountSnapshot) []domain.Warning {
	var warnings []domain.Warning
	for _, line := range lines {
		acc, ok := snapshots[line.AccountID]
		if !ok {
			continue
		}
		natural := acc.AccountType.NormalBalance()
		if line.Side() != natural {
			warnings = append(warnings, domain.Warning{
				Kind:      domain.WarningNormalBalance,
				AccountID: line.AccountID,
				Message: fmt.Sprintf("%s entry against %s account %s opposes its normal %s balance",
					line.Side(), acc.AccountType, acc.Code, natural),
			})
		}
	}
	return warnings
}

// ValidateChartOfAccounts runs the COA pipeline in fixed order: existence
// and active status, currency consistency, control-account rule, then
// normal-balance advisories.
func (s *coaService) ValidateChartOfAccounts(ctx context.Context, lines []domain.JournalLine, journalCurrency string, snapshots map[string]domain.AccountSnapshot, allAccounts []domain.AccountSnapshot) (*domain.COAValidation, error) {
	accountIDs := make([]string, 0, len(snapshots))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			accountIDs = append(accountIDs, line.AccountID)
		}
	}

	if err := ValidateAccountsExist(accountIDs, snapshots); err != nil {
		return nil, err
	}
	if err := ValidateCurrencyConsistency(journalCurrency, snapshots, accountIDs); err != nil {
		return nil, err
	}
	if err := ValidateControlAccounts(accountIDs, snapshots, allAccounts); err != nil {
		return nil, err
	}

	warnings := NormalBalanceWarnings(lines, snapshots)
	if len(warnings) > 0 {
		logging.GetLoggerFromCtx(ctx).Debug("Normal balance advisories raised",
			slog.Int("count", len(warnings)))
	}

	return &domain.COAValidation{
		Valid:          true,
		Warnings:       warnings,
		AccountDetails: snapshots,
	}, nil
}
