package services

import (
	portsrepo "github.com/kitaerp/glposting/internal/core/ports/repositories"
	portssvc "github.com/kitaerp/glposting/internal/core/ports/services"
	"github.com/kitaerp/glposting/internal/platform/config"
	"github.com/shopspring/decimal"
)

// Container bundles the engine's service facades for callers that want the
// whole pipeline wired at once.
type Container struct {
	Posting portssvc.PostingSvcFacade
	CoA     portssvc.CoASvcFacade
	Fx      portssvc.FxSvcFacade
	SoD     portssvc.SoDSvcFacade
}

// NewContainer wires the posting engine from its collaborators. policy and
// rates may be nil; the built-in SoD table and a fixed 1.0 rate apply.
func NewContainer(cfg *config.Config, accounts portsrepo.AccountReader, rates portsrepo.RateProvider, policy portssvc.AuthorizationPolicy) *Container {
	c := &Container{}
	c.SoD = NewSoDService(policy)
	c.CoA = NewCoAService()
	c.Fx = NewFxService(rates)

	opts := []PostingOption{WithBaseCurrency(cfg.BaseCurrency)}
	if cfg.BalanceTolerance != "" {
		if tol, err := decimal.NewFromString(cfg.BalanceTolerance); err == nil {
			opts = append(opts, WithBalanceTolerance(tol))
		}
	}
	c.Posting = NewPostingService(accounts, c.SoD, c.CoA, c.Fx, opts...)
	return c
}
