package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is a single debit-or-credit entry against one account.
// Exactly one of Debit/Credit must be set and positive for the line to be
// structurally valid; nil means the side is absent.
type JournalLine struct {
	AccountID   string           `json:"accountID"`
	Debit       *decimal.Decimal `json:"debit,omitempty"`
	Credit      *decimal.Decimal `json:"credit,omitempty"`
	Description string           `json:"description,omitempty"`
	Reference   string           `json:"reference,omitempty"`
}

// DebitAmount returns the debit side, or zero when absent.
func (l JournalLine) DebitAmount() decimal.Decimal {
	if l.Debit == nil {
		return decimal.Zero
	}
	return *l.Debit
}

// CreditAmount returns the credit side, or zero when absent.
func (l JournalLine) CreditAmount() decimal.Decimal {
	if l.Credit == nil {
		return decimal.Zero
	}
	return *l.Credit
}

// Side reports which side the line carries. Only meaningful after the line
// has passed structural validation.
func (l JournalLine) Side() EntrySide {
	if l.DebitAmount().IsPositive() {
		return DebitSide
	}
	return CreditSide
}

// JournalPostingRequest is the caller-constructed, ephemeral input to the
// posting pipeline. The engine never persists it.
type JournalPostingRequest struct {
	JournalNumber string        `json:"journalNumber"`
	Description   string        `json:"description"`
	Date          time.Time     `json:"date"`
	CurrencyCode  string        `json:"currencyCode"`
	Lines         []JournalLine `json:"lines"`
	Actor         ActorContext  `json:"actor"`
}

// AccountIDs returns the distinct account ids referenced by the request,
// in first-seen order.
func (r JournalPostingRequest) AccountIDs() []string {
	seen := make(map[string]struct{}, len(r.Lines))
	ids := make([]string, 0, len(r.Lines))
	for _, line := range r.Lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			ids = append(ids, line.AccountID)
		}
	}
	return ids
}

// WarningKind categorises advisory findings that never block a posting.
type WarningKind string

const (
	WarningNormalBalance WarningKind = "NORMAL_BALANCE_MISMATCH"
)

// Warning is an advisory finding attached to a validated posting.
type Warning struct {
	Kind      WarningKind `json:"kind"`
	AccountID string      `json:"accountID"`
	Message   string      `json:"message"`
}

// PostingResult is the outcome of a successful validation pass. The caller
// owns persistence; the engine only vouches for the invariants.
type PostingResult struct {
	Validated        bool            `json:"validated"`
	TotalDebit       decimal.Decimal `json:"totalDebit"`
	TotalCredit      decimal.Decimal `json:"totalCredit"`
	RequiresApproval bool            `json:"requiresApproval"`
	ApproverRoles    []Role          `json:"approverRoles,omitempty"`
	Warnings         []Warning       `json:"warnings,omitempty"`
	Fx               *FxResolution   `json:"fx,omitempty"`
}

// FxResolution describes how a transaction currency relates to the ledger
// base currency. ExchangeRate defaults to 1 when no rate has been supplied;
// actual rate acquisition is delegated to an external collaborator.
type FxResolution struct {
	RequiresFxRate      bool            `json:"requiresFxRate"`
	BaseCurrency        string          `json:"baseCurrency"`
	TransactionCurrency string          `json:"transactionCurrency"`
	ExchangeRate        decimal.Decimal `json:"exchangeRate"`
}
