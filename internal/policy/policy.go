// Package policy decides whether an authenticated caller may reach a route.
// Decisions are pure functions of the caller's record and the route's
// requirement; middleware loads the inputs and enforces the outcome.
package policy

import (
	"strings"

	"github.com/javajoker/gearguard-backend/internal/models"
)

// Reasons a request is denied.
const (
	ReasonUserMissing   = "user_missing"
	ReasonRoleMismatch  = "role_mismatch"
	ReasonOwnerMismatch = "owner_mismatch"
)

// Requirement describes what a route demands of its caller. A zero Role
// admits any registered user.
type Requirement struct {
	Role models.Role
}

func RequireRole(role models.Role) Requirement {
	return Requirement{Role: role}
}

type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Evaluate checks a caller against a requirement. A nil user is denied.
func Evaluate(user *models.User, req Requirement) Decision {
	if user == nil {
		return Deny(ReasonUserMissing)
	}
	if req.Role != "" && !user.Role.Matches(req.Role) {
		return Deny(ReasonRoleMismatch)
	}
	return Allow()
}

// AuthorizeOwner admits a caller acting on their own email.
func AuthorizeOwner(tokenEmail, targetEmail string) Decision {
	if tokenEmail == "" || !strings.EqualFold(strings.TrimSpace(tokenEmail), strings.TrimSpace(targetEmail)) {
		return Deny(ReasonOwnerMismatch)
	}
	return Allow()
}
