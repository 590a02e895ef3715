package services_test

import (
	"context"
	"testing"

	"github.com/kitaerp/glposting/internal/apperrors"
	"github.com/kitaerp/glposting/internal/core/domain"
	"github.com/kitaerp/glposting/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func leafAccount(id, currency string, accType domain.AccountType) domain.AccountSnapshot {
	return domain.AccountSnapshot{
		AccountID:       id,
		Code:            "C-" + id,
		Name:            "Account " + id,
		AccountType:     accType,
		CurrencyCode:    currency,
		IsActive:        true,
		HierarchyLevel:  2,
		ParentAccountID: strPtr("parent-1"),
	}
}

func TestValidateAccountsExist(t *testing.T) {
	snapshots := map[string]domain.AccountSnapshot{
		"acc-1": leafAccount("acc-1", "MYR", domain.Asset),
	}

	t.Run("missing ids are listed", func(t *testing.T) {
		err := services.ValidateAccountsExist([]string{"acc-1", "acc-2", "acc-3"}, snapshots)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeAccountsNotFound, apperrors.CodeOf(err))

		var pe *apperrors.PostingError
		require.ErrorAs(t, err, &pe)
		assert.ElementsMatch(t, []string{"acc-2", "acc-3"}, pe.Details["missingAccountIDs"])
	})

	t.Run("inactive account is rejected", func(t *testing.T) {
		inactive := leafAccount("acc-4", "MYR", domain.Asset)
		inactive.IsActive = false
		err := services.ValidateAccountsExist([]string{"acc-4"}, map[string]domain.AccountSnapshot{"acc-4": inactive})
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInactiveAccount, apperrors.CodeOf(err))
	})

	t.Run("all present and active", func(t *testing.T) {
		assert.NoError(t, services.ValidateAccountsExist([]string{"acc-1"}, snapshots))
	})
}

func TestValidateCurrencyConsistency(t *testing.T) {
	snapshots := map[string]domain.AccountSnapshot{
		"acc-myr": leafAccount("acc-myr", "MYR", domain.Asset),
		"acc-usd": leafAccount("acc-usd", "USD", domain.Asset),
	}

	t.Run("mismatching account currency fails", func(t *testing.T) {
		err := services.ValidateCurrencyConsistency("MYR", snapshots, []string{"acc-myr", "acc-usd"})
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeCurrencyMismatch, apperrors.CodeOf(err))

		var pe *apperrors.PostingError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "MYR", pe.Details["journalCurrency"])
	})

	t.Run("consistent currencies pass", func(t *testing.T) {
		assert.NoError(t, services.ValidateCurrencyConsistency("MYR", snapshots, []string{"acc-myr"}))
	})
}

func TestValidateControlAccounts(t *testing.T) {
	control := domain.AccountSnapshot{AccountID: "acc-root", Code: "1000", AccountType: domain.Asset, CurrencyCode: "MYR", IsActive: true, HierarchyLevel: 0}
	parent := domain.AccountSnapshot{AccountID: "acc-parent", Code: "1100", AccountType: domain.Asset, CurrencyCode: "MYR", IsActive: true, HierarchyLevel: 1, ParentAccountID: strPtr("acc-root")}
	leaf := domain.AccountSnapshot{AccountID: "acc-leaf", Code: "1110", AccountType: domain.Asset, CurrencyCode: "MYR", IsActive: true, HierarchyLevel: 2, ParentAccountID: strPtr("acc-parent")}
	all := []domain.AccountSnapshot{control, parent, leaf}

	snapshots := map[string]domain.AccountSnapshot{
		"acc-root":   control,
		"acc-parent": parent,
		"acc-leaf":   leaf,
	}

	t.Run("level-0 account is rejected", func(t *testing.T) {
		err := services.ValidateControlAccounts([]string{"acc-root"}, snapshots, all)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeControlAccountViolation, apperrors.CodeOf(err))
	})

	t.Run("parent account is rejected", func(t *testing.T) {
		err := services.ValidateControlAccounts([]string{"acc-parent"}, snapshots, all)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeControlAccountViolation, apperrors.CodeOf(err))
	})

	t.Run("leaf account passes", func(t *testing.T) {
		assert.NoError(t, services.ValidateControlAccounts([]string{"acc-leaf"}, snapshots, all))
	})
}

func TestNormalBalanceWarnings(t *testing.T) {
	snapshots := map[string]domain.AccountSnapshot{
		"acc-asset":   leafAccount("acc-asset", "MYR", domain.Asset),
		"acc-revenue": leafAccount("acc-revenue", "MYR", domain.Revenue),
	}

	t.Run("entries on the natural side raise nothing", func(t *testing.T) {
		lines := []domain.JournalLine{
			{AccountID: "acc-asset", Debit: decPtr("100")},
			{AccountID: "acc-revenue", Credit: decPtr("100")},
		}
		assert.Empty(t, services.NormalBalanceWarnings(lines, snapshots))
	})

	t.Run("entries opposing the natural side warn but do not block", func(t *testing.T) {
		lines := []domain.JournalLine{
			{AccountID: "acc-asset", Credit: decPtr("100")},
			{AccountID: "acc-revenue", Debit: decPtr("100")},
		}
		warnings := services.NormalBalanceWarnings(lines, snapshots)
		require.Len(t, warnings, 2)
		assert.Equal(t, domain.WarningNormalBalance, warnings[0].Kind)
		assert.Equal(t, "acc-asset", warnings[0].AccountID)
		assert.Equal(t, "acc-revenue", warnings[1].AccountID)
	})
}

func TestValidateChartOfAccounts_Pipeline(t *testing.T) {
	svc := services.NewCoAService()
	ctx := context.Background()

	asset := leafAccount("acc-asset", "MYR", domain.Asset)
	revenue := leafAccount("acc-revenue", "MYR", domain.Revenue)
	snapshots := map[string]domain.AccountSnapshot{
		"acc-asset":   asset,
		"acc-revenue": revenue,
	}
	all := []domain.AccountSnapshot{asset, revenue}

	lines := []domain.JournalLine{
		{AccountID: "acc-asset", Debit: decPtr("50")},
		{AccountID: "acc-revenue", Credit: decPtr("50")},
	}

	t.Run("valid journal", func(t *testing.T) {
		res, err := svc.ValidateChartOfAccounts(ctx, lines, "MYR", snapshots, all)
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Warnings)
		assert.Equal(t, snapshots, res.AccountDetails)
	})

	t.Run("existence failure comes before currency failure", func(t *testing.T) {
		mixed := []domain.JournalLine{
			{AccountID: "acc-missing", Debit: decPtr("50")},
			{AccountID: "acc-usd", Credit: decPtr("50")},
		}
		usd := leafAccount("acc-usd", "USD", domain.Revenue)
		_, err := svc.ValidateChartOfAccounts(ctx, mixed, "MYR",
			map[string]domain.AccountSnapshot{"acc-usd": usd},
			[]domain.AccountSnapshot{usd})
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeAccountsNotFound, apperrors.CodeOf(err))
	})
}
