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

// postingPermission is one row of the segregation-of-duties table for a
// given action. Allowed and RequiresApproval are independent: a role may
// post and still need a second approver.
type postingPermission struct {
	Allowed          bool
	RequiresApproval bool
	ApproverRoles    []domain.Role
	Reason           string
}

// journalPostPermissions is the closed permission table for journal posting.
// Preparer and approver duties stay separated: roles that prepare cannot
// finalise without approval, and the clerk role cannot post at all.
var journalPostPermissions = map[domain.Role]postingPermission{
	domain.RoleClerk: {
		Allowed: false,
		Reason:  "clerks may prepare journals but not post them",
	},
	domain.RoleAccountant: {
		Allowed:          true,
		RequiresApproval: true,
		ApproverRoles:    []domain.Role{domain.RoleManager, domain.RoleController},
	},
	domain.RoleManager: {
		Allowed:          true,
		RequiresApproval: true,
		ApproverRoles:    []domain.Role{domain.RoleManager, domain.RoleController},
	},
	domain.RoleController: {
		Allowed: true,
	},
	domain.RoleAdmin: {
		Allowed: true,
	},
}

// tablePolicy is the default AuthorizationPolicy: an in-memory lookup over
// the closed permission table. An unrecognised role never falls through to
// a default branch; it is rejected outright.
type tablePolicy struct{}

// NewTableAuthorizationPolicy returns the built-in table-driven policy.
func NewTableAuthorizationPolicy() portssvc.AuthorizationPolicy {
	return &tablePolicy{}
}

var _ portssvc.AuthorizationPolicy = (*tablePolicy)(nil)

func (p *tablePolicy) CheckSoDCompliance(ctx context.Context, actor domain.ActorContext, action string) (*domain.SoDDecision, error) {
	if action != domain.ActionPostJournal {
		return &domain.SoDDecision{Allowed: false, Reason: fmt.Sprintf("no policy defined for action %q", action)}, nil
	}
	role, err := domain.ParseRole(string(actor.Role))
	if err != nil {
		return &domain.SoDDecision{Allowed: false, Reason: err.Error()}, nil
	}
	perm, ok := journalPostPermissions[role]
	if !ok {
		return &domain.SoDDecision{Allowed: false, Reason: fmt.Sprintf("role %s has no journal posting permission", role)}, nil
	}
	return &domain.SoDDecision{
		Allowed:          perm.Allowed,
		RequiresApproval: perm.RequiresApproval,
		ApproverRoles:    perm.ApproverRoles,
		Reason:           perm.Reason,
	}, nil
}

// sodService gates journal posting on the configured authorization policy.
type sodService struct {
	policy portssvc.AuthorizationPolicy
}

// NewSoDService creates the segregation-of-duties authorizer. A nil policy
// falls back to the built-in table.
func NewSoDService(policy portssvc.AuthorizationPolicy) portssvc.SoDSvcFacade {
	if policy == nil {
		policy = NewTableAuthorizationPolicy()
	}
	return &sodService{policy: policy}
}

var _ portssvc.SoDSvcFacade = (*sodService)(nil)

// AuthorizePosting consults the policy for the journal:post action. A
// disallowed actor yields SOD_VIOLATION; an allowed actor may still carry
// a requires-approval flag, which is never a failure.
func (s *sodService) AuthorizePosting(ctx context.Context, actor domain.ActorContext) (*domain.SoDDecision, error) {
	logger := logging.GetLoggerFromCtx(ctx)

	decision, err := s.policy.CheckSoDCompliance(ctx, actor, domain.ActionPostJournal)
	if err != nil {
		return nil, fmt.Errorf("authorization policy check failed: %w", err)
	}

	if !decision.Allowed {
		logger.Warn("Posting rejected by SoD policy",
			slog.String("user_id", actor.UserID),
			slog.String("role", string(actor.Role)),
			slog.String("reason", decision.Reason),
		)
		return nil, apperrors.NewPostingError(apperrors.CodeSoDViolation,
			fmt.Sprintf("role %s is not permitted to post journals", actor.Role),
			map[string]any{
				"action":   domain.ActionPostJournal,
				"userRole": string(actor.Role),
				"reason":   decision.Reason,
			})
	}
	return decision, nil
}
