package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kitaerp/glposting/internal/core/domain"
	portsrepo "github.com/kitaerp/glposting/internal/core/ports/repositories"
	portssvc "github.com/kitaerp/glposting/internal/core/ports/services"
	"github.com/kitaerp/glposting/internal/platform/logging"
	"github.com/kitaerp/glposting/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// postingService composes the validation stages into the fixed posting
// pipeline. It holds no mutable per-request state: every call fetches its
// own snapshot map, so concurrent postings never contend in memory.
type postingService struct {
	accounts     portsrepo.AccountReader
	sodSvc       portssvc.SoDSvcFacade
	coaSvc       portssvc.CoASvcFacade
	fxSvc        portssvc.FxSvcFacade
	baseCurrency string
	tolerance    decimal.Decimal
}

// PostingOption customises the posting service.
type PostingOption func(*postingService)

// WithBaseCurrency sets the ledger base currency used for FX resolution.
func WithBaseCurrency(code string) PostingOption {
	return func(s *postingService) { s.baseCurrency = code }
}

// WithBalanceTolerance overrides the default balance tolerance.
func WithBalanceTolerance(tolerance decimal.Decimal) PostingOption {
	return func(s *postingService) { s.tolerance = tolerance }
}

// NewPostingService creates the posting orchestrator.
func NewPostingService(accounts portsrepo.AccountReader, sodSvc portssvc.SoDSvcFacade, coaSvc portssvc.CoASvcFacade, fxSvc portssvc.FxSvcFacade, opts ...PostingOption) portssvc.PostingSvcFacade {
	s := &postingService{
		accounts:  accounts,
		sodSvc:    sodSvc,
		coaSvc:    coaSvc,
		fxSvc:     fxSvc,
		tolerance: accounting.DefaultBalanceTolerance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// PostJournal runs the fixed pipeline: SoD gate, structural line checks,
// balance check, snapshot fetch, chart-of-accounts checks, then FX
// resolution when the journal currency differs from the ledger base. Any
// failing gate halts immediately; nothing is written on any path, so the
// same input always yields the same outcome.
func (s *postingService) PostJournal(ctx context.Context, req domain.JournalPostingRequest) (*domain.PostingResult, error) {
	logger := logging.GetLoggerFromCtx(ctx).With(
		slog.String("journal_number", req.JournalNumber),
		slog.String("user_id", req.Actor.UserID),
	)

	decision, err := s.sodSvc.AuthorizePosting(ctx, req.Actor)
	if err != nil {
		return nil, err
	}

	if err := accounting.ValidateJournalLines(req.Lines); err != nil {
		return nil, err
	}

	totalDebit, totalCredit, err := accounting.ValidateBalanced(req.Lines, s.tolerance)
	if err != nil {
		return nil, err
	}

	// The snapshot fetch is the pipeline's only suspension point; every
	// stage after it is synchronous and side-effect-free.
	accountIDs := req.AccountIDs()
	snapshots, err := s.accounts.GetAccountsInfo(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account snapshots: %w", err)
	}
	allAccounts, err := s.accounts.GetAllAccountsInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart of accounts: %w", err)
	}

	coa, err := s.coaSvc.ValidateChartOfAccounts(ctx, req.Lines, req.CurrencyCode, snapshots, allAccounts)
	if err != nil {
		return nil, err
	}

	result := &domain.PostingResult{
		Validated:        true,
		TotalDebit:       totalDebit,
		TotalCredit:      totalCredit,
		RequiresApproval: decision.RequiresApproval,
		ApproverRoles:    decision.ApproverRoles,
		Warnings:         coa.Warnings,
	}

	if s.baseCurrency != "" {
		fx, err := s.fxSvc.ResolveFxPolicy(ctx, s.baseCurrency, req.CurrencyCode)
		if err != nil {
			return nil, err
		}
		if fx.RequiresFxRate {
			result.Fx = fx
		}
	}

	logger.Info("Journal validated",
		slog.String("total_debit", totalDebit.String()),
		slog.String("total_credit", totalCredit.String()),
		slog.Bool("requires_approval", result.RequiresApproval),
		slog.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}
