package domain

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Business is the tenant record. Every other tenant row points at one.
type Business struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"owner_id"`
	Name             string    `json:"name"`
	Description      *string   `json:"description,omitempty"`
	WebsiteSubdomain *string   `json:"website_subdomain,omitempty"`
	BusinessContext  *string   `json:"business_context,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BusinessInput carries the business setup and settings form.
type BusinessInput struct {
	Name             string `json:"name" validate:"required,notblank,max=200"`
	Description      string `json:"description" validate:"max=2000"`
	WebsiteSubdomain string `json:"website_subdomain" validate:"max=63"`
	BusinessContext  string `json:"business_context" validate:"max=4000"`
}

// BuildBusiness validates the setup form. The subdomain is optional but, when
// given, must be a lowercase slug.
func BuildBusiness(ownerID string, in BusinessInput) (*Business, error) {
	subdomain := OptionalText(strings.ToLower(in.WebsiteSubdomain))
	if subdomain != nil && !slug.IsSlug(*subdomain) {
		return nil, ValidationError(map[string]string{
			"website_subdomain": "use lowercase letters, digits and hyphens",
		})
	}
	return &Business{
		OwnerID:          ownerID,
		Name:             trim(in.Name),
		Description:      OptionalText(in.Description),
		WebsiteSubdomain: subdomain,
		BusinessContext:  OptionalText(in.BusinessContext),
		IsActive:         true,
	}, nil
}
