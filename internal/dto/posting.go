package dto

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kitaerp/glposting/internal/apperrors"
	"github.com/kitaerp/glposting/internal/core/domain"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// JournalLineRequest is one line of an external posting request.
type JournalLineRequest struct {
	AccountID   string           `json:"accountID" validate:"required"`
	Debit       *decimal.Decimal `json:"debit,omitempty"`
	Credit      *decimal.Decimal `json:"credit,omitempty"`
	Description string           `json:"description,omitempty"`
	Reference   string           `json:"reference,omitempty"`
}

// PostJournalRequest is the external JSON shape of a posting request.
// Structural accounting rules live in the engine; this layer only enforces
// schema-level shape, including amount nonnegativity.
type PostJournalRequest struct {
	JournalNumber string               `json:"journalNumber" validate:"required"`
	Description   string               `json:"description" validate:"required"`
	Date          time.Time            `json:"date" validate:"required"`
	CurrencyCode  string               `json:"currencyCode" validate:"required,len=3,alpha"`
	Lines         []JournalLineRequest `json:"lines" validate:"required,dive"`
	TenantID      string               `json:"tenantID" validate:"required"`
	CompanyID     string               `json:"companyID" validate:"required"`
	UserID        string               `json:"userID" validate:"required"`
	Role          string               `json:"role" validate:"required"`
}

// Validate applies the schema checks and returns apperrors.ErrValidation
// wrapped errors on failure.
func (r *PostJournalRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	for i, line := range r.Lines {
		if line.Debit != nil && line.Debit.IsNegative() {
			return fmt.Errorf("%w: line %d debit must not be negative", apperrors.ErrValidation, i+1)
		}
		if line.Credit != nil && line.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d credit must not be negative", apperrors.ErrValidation, i+1)
		}
	}
	return nil
}

// ToDomain maps the request into the engine's domain shape. The role string
// passes through ParseRole so an unknown role is rejected here rather than
// inside the SoD policy.
func (r *PostJournalRequest) ToDomain() (domain.JournalPostingRequest, error) {
	role, err := domain.ParseRole(r.Role)
	if err != nil {
		return domain.JournalPostingRequest{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	lines := make([]domain.JournalLine, len(r.Lines))
	for i, line := range r.Lines {
		lines[i] = domain.JournalLine{
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
			Reference:   line.Reference,
		}
	}
	return domain.JournalPostingRequest{
		JournalNumber: r.JournalNumber,
		Description:   r.Description,
		Date:          r.Date,
		CurrencyCode:  r.CurrencyCode,
		Lines:         lines,
		Actor: domain.ActorContext{
			TenantID:  r.TenantID,
			CompanyID: r.CompanyID,
			UserID:    r.UserID,
			Role:      role,
		},
	}, nil
}

// PostingResultResponse is the external JSON shape of a posting result.
type PostingResultResponse struct {
	Validated        bool                 `json:"validated"`
	TotalDebit       decimal.Decimal      `json:"totalDebit"`
	TotalCredit      decimal.Decimal      `json:"totalCredit"`
	RequiresApproval bool                 `json:"requiresApproval"`
	ApproverRoles    []string             `json:"approverRoles,omitempty"`
	Warnings         []domain.Warning     `json:"warnings,omitempty"`
	Fx               *domain.FxResolution `json:"fx,omitempty"`
}

// ToPostingResultResponse converts a domain.PostingResult to its DTO.
func ToPostingResultResponse(res *domain.PostingResult) PostingResultResponse {
	roles := make([]string, len(res.ApproverRoles))
	for i, r := range res.ApproverRoles {
		roles[i] = string(r)
	}
	return PostingResultResponse{
		Validated:        res.Validated,
		TotalDebit:       res.TotalDebit,
		TotalCredit:      res.TotalCredit,
		RequiresApproval: res.RequiresApproval,
		ApproverRoles:    roles,
		Warnings:         res.Warnings,
		Fx:               res.Fx,
	}
}

// PostingErrorResponse is the external JSON shape of a posting failure.
type PostingErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ToPostingErrorResponse converts a *apperrors.PostingError to its DTO.
func ToPostingErrorResponse(err *apperrors.PostingError) PostingErrorResponse {
	return PostingErrorResponse{
		Code:    string(err.Code),
		Message: err.Message,
		Details: err.Details,
	}
}
