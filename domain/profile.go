package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of identity roles the dashboard branches on.
type Role int

const (
	RoleAdmin Role = iota + 1
	RoleOwner
	RoleTeamMember
)

// ParseRole maps the stored role value onto a Role. Unknown values are rejected
// rather than defaulted.
func ParseRole(value string) (Role, error) {
	switch value {
	case "admin":
		return RoleAdmin, nil
	case "saas_user":
		return RoleOwner, nil
	case "team_member":
		return RoleTeamMember, nil
	}
	return 0, fmt.Errorf("unknown role %q", value)
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleOwner:
		return "saas_user"
	case RoleTeamMember:
		return "team_member"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

func (r Role) MarshalText() ([]byte, error) {
	switch r {
	case RoleAdmin, RoleOwner, RoleTeamMember:
		return []byte(r.String()), nil
	}
	return nil, fmt.Errorf("invalid role %d", int(r))
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Plan is the subscription tier attached to a profile.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanStarter    Plan = "starter"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// Profile is the identity provider's profile row for an authenticated user.
type Profile struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name,omitempty"`
	Role             Role      `json:"role"`
	SubscriptionPlan Plan      `json:"subscription_plan"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
