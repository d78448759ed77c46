package domain

// Scope is the per-request business-scoping context. It is built once by the
// auth middleware and passed by value; use cases never mutate it.
type Scope struct {
	Identity string
	Profile  Profile
	Business *Business
}

// BusinessID returns the scoped business id, or "" when the identity has none.
func (s Scope) BusinessID() string {
	if s.Business == nil {
		return ""
	}
	return s.Business.ID
}

// RequireBusiness returns the business id or ErrBusinessRequired.
func (s Scope) RequireBusiness() (string, error) {
	if s.Business == nil || s.Business.ID == "" {
		return "", ErrBusinessRequired
	}
	return s.Business.ID, nil
}

// WithBusiness returns a copy of the scope bound to business.
func (s Scope) WithBusiness(business *Business) Scope {
	s.Business = business
	return s
}

// CanAccessTenant reports whether the role may use tenant-scoped tabs.
func (s Scope) CanAccessTenant() bool {
	switch s.Profile.Role {
	case RoleOwner, RoleTeamMember:
		return true
	case RoleAdmin:
		return false
	}
	return false
}

// CanCreateBusiness reports whether the role may run business setup.
func (s Scope) CanCreateBusiness() bool {
	switch s.Profile.Role {
	case RoleOwner:
		return true
	case RoleAdmin, RoleTeamMember:
		return false
	}
	return false
}

// CanManageBusiness reports whether the role may edit business settings.
func (s Scope) CanManageBusiness() bool {
	switch s.Profile.Role {
	case RoleOwner:
		return true
	case RoleAdmin, RoleTeamMember:
		return false
	}
	return false
}

// IsAdmin reports whether the identity has the platform admin role.
func (s Scope) IsAdmin() bool {
	switch s.Profile.Role {
	case RoleAdmin:
		return true
	case RoleOwner, RoleTeamMember:
		return false
	}
	return false
}
