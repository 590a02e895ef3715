package services

import (
	"context"

	"github.com/kitaerp/glposting/internal/core/domain"
)

// PostingSvcFacade is the engine's main entry point. PostJournal runs the
// full validation pipeline and returns a PostingResult, or a typed
// *apperrors.PostingError on the first failing gate. It performs no
// persistence; the caller owns what happens to an accepted posting.
type PostingSvcFacade interface {
	PostJournal(ctx context.Context, req domain.JournalPostingRequest) (*domain.PostingResult, error)
}

// CoASvcFacade exposes the chart-of-accounts validation pipeline for reuse
// by adjacent posting flows (invoice and bill posting share these checks).
type CoASvcFacade interface {
	ValidateChartOfAccounts(ctx context.Context, lines []domain.JournalLine, journalCurrency string, snapshots map[string]domain.AccountSnapshot, allAccounts []domain.AccountSnapshot) (*domain.COAValidation, error)
}

// FxSvcFacade resolves whether a transaction needs a foreign-exchange rate
// and supplies the effective rate.
type FxSvcFacade interface {
	ResolveFxPolicy(ctx context.Context, baseCurrency, transactionCurrency string) (*domain.FxResolution, error)
}

// SoDSvcFacade decides whether the acting role may post and whether a
// second approver is additionally required.
type SoDSvcFacade interface {
	AuthorizePosting(ctx context.Context, actor domain.ActorContext) (*domain.SoDDecision, error)
}
