package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of actor roles the posting engine understands.
// Role strings arriving from outside must pass through ParseRole so an
// unrecognised role fails a shape check instead of silently falling through
// a default policy branch.
type Role string

const (
	RoleClerk      Role = "CLERK"
	RoleAccountant Role = "ACCOUNTANT"
	RoleManager    Role = "MANAGER"
	RoleController Role = "CONTROLLER"
	RoleAdmin      Role = "ADMIN"
)

// ParseRole normalises and validates a role string.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleClerk, RoleAccountant, RoleManager, RoleController, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// ActorContext identifies who is attempting an action and on whose behalf.
type ActorContext struct {
	TenantID  string `json:"tenantID"`
	CompanyID string `json:"companyID"`
	UserID    string `json:"userID"`
	Role      Role   `json:"role"`
}

// SoDDecision is the outcome of a segregation-of-duties check. A role may
// be permitted to post and still require a second approver; that surfaces
// here as a flag, never as a failure.
type SoDDecision struct {
	Allowed          bool   `json:"allowed"`
	RequiresApproval bool   `json:"requiresApproval"`
	ApproverRoles    []Role `json:"approverRoles,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// ActionPostJournal is the action key used for journal posting authorization.
const ActionPostJournal = "journal:post"
