package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance returns the side an account of this type normally carries.
// ASSET and EXPENSE accounts normally carry a debit balance; LIABILITY,
// EQUITY and REVENUE accounts a credit balance.
func (t AccountType) NormalBalance() EntrySide {
	switch t {
	case Asset, Expense:
		return DebitSide
	default:
		return CreditSide
	}
}

// EntrySide identifies the debit or credit side of a journal line.
type EntrySide string

const (
	DebitSide  EntrySide = "DEBIT"
	CreditSide EntrySide = "CREDIT"
)

// AccountSnapshot is the read-only view of a chart-of-accounts entry used
// during validation. Snapshots are loaded once per posting pass and never
// mutated by the engine, so concurrent validations never contend on them.
type AccountSnapshot struct {
	AccountID       string      `json:"accountID"`
	Code            string      `json:"code"`
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	CurrencyCode    string      `json:"currencyCode"`
	IsActive        bool        `json:"isActive"`
	HierarchyLevel  int         `json:"hierarchyLevel"`            // 0 = top-level control account
	ParentAccountID *string     `json:"parentAccountID,omitempty"` // nil for root accounts
}

// IsControl reports whether the snapshot sits at the top of the hierarchy.
// Parenthood (being referenced as another account's parent) is determined
// by the chart-of-accounts validator against the full account set.
func (a AccountSnapshot) IsControl() bool {
	return a.HierarchyLevel == 0
}

// COAValidation is the outcome of the chart-of-accounts validation pipeline.
// AccountDetails carries the snapshots keyed by id so downstream stages can
// reuse them without a second fetch.
type COAValidation struct {
	Valid          bool                       `json:"valid"`
	Warnings       []Warning                  `json:"warnings,omitempty"`
	AccountDetails map[string]AccountSnapshot `json:"accountDetails,omitempty"`
}
