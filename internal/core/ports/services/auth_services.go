package services

import (
	"context"

	"github.com/kitaerp/glposting/internal/core/domain"
)

// AuthorizationPolicy is the external policy consulted for segregation-of-
// duties decisions, keyed by actor and action. The engine ships a
// table-driven default; deployments may substitute their own.
type AuthorizationPolicy interface {
	CheckSoDCompliance(ctx context.Context, actor domain.ActorContext, action string) (*domain.SoDDecision, error)
}
