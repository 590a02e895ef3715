package accounting

import (
	"fmt"

	"github.com/kitaerp/glposting/internal/apperrors"
	"github.com/kitaerp/glposting/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MaxJournalLines bounds the number of lines a single journal may carry.
const MaxJournalLines = 100

// DefaultBalanceTolerance absorbs cumulative rounding drift when comparing
// debit and credit totals. Exact equality is deliberately not required.
var DefaultBalanceTolerance = decimal.RequireFromString("0.01")

// ValidateJournalLines runs the structural checks on journal lines: the
// journal must carry between 1 and MaxJournalLines lines, and each line must
// carry exactly one positive side. Negative amounts are rejected here as
// well, so the engine stays safe for callers that bypass the DTO layer.
// Pure function, no I/O.
func ValidateJournalLines(lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return apperrors.NewPostingError(apperrors.CodeEmptyJournal,
			"journal must contain at least one line", nil)
	}
	if len(lines) > MaxJournalLines {
		return apperrors.NewPostingError(apperrors.CodeTooManyLines,
			fmt.Sprintf("journal contains %d lines, maximum is %d", len(lines), MaxJournalLines),
			map[string]any{"lineCount": len(lines), "maxLines": MaxJournalLines})
	}

	for i, line := range lines {
		debit := line.DebitAmount()
		credit := line.CreditAmount()

		if debit.IsNegative() || credit.IsNegative() {
			return apperrors.NewPostingError(apperrors.CodeInvalidLineAmounts,
				fmt.Sprintf("line %d has a negative amount", i+1),
				lineDetails(i, line, debit, credit))
		}
		hasDebit := debit.IsPositive()
		hasCredit := credit.IsPositive()
		if hasDebit == hasCredit {
			// Both sides set, or neither.
			return apperrors.NewPostingError(apperrors.CodeInvalidLineAmounts,
				fmt.Sprintf("line %d must carry exactly one of debit or credit", i+1),
				lineDetails(i, line, debit, credit))
		}
	}
	return nil
}

// ValidateBalanced enforces the double-entry identity: the absolute
// difference between total debits and total credits must not exceed the
// tolerance. A nonpositive tolerance falls back to DefaultBalanceTolerance.
// Returns the computed totals so callers can reuse them.
func ValidateBalanced(lines []domain.JournalLine, tolerance decimal.Decimal) (totalDebit, totalCredit decimal.Decimal, err error) {
	if !tolerance.IsPositive() {
		tolerance = DefaultBalanceTolerance
	}

	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.DebitAmount())
		totalCredit = totalCredit.Add(line.CreditAmount())
	}

	difference := totalDebit.Sub(totalCredit).Abs()
	if difference.GreaterThan(tolerance) {
		return totalDebit, totalCredit, apperrors.NewPostingError(apperrors.CodeUnbalancedJournal,
			fmt.Sprintf("journal does not balance: debits %s, credits %s", totalDebit, totalCredit),
			map[string]any{
				"totalDebit":  totalDebit.String(),
				"totalCredit": totalCredit.String(),
				"difference":  difference.String(),
			})
	}
	return totalDebit, totalCredit, nil
}

func lineDetails(index int, line domain.JournalLine, debit, credit decimal.Decimal) map[string]any {
	return map[string]any{
		"lineIndex": index,
		"accountID": line.AccountID,
		"debit":     debit.String(),
		"credit":    credit.String(),
	}
}
