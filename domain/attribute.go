package domain

import "time"

// AttributeType is the input kind of a product attribute.
type AttributeType string

const (
	AttributeText    AttributeType = "text"
	AttributeNumber  AttributeType = "number"
	AttributeBoolean AttributeType = "boolean"
	AttributeSelect  AttributeType = "select"
)

// Attribute describes a product property that can be filled per product.
type Attribute struct {
	ID           string        `json:"id"`
	BusinessID   string        `json:"business_id"`
	Name         string        `json:"name"`
	Type         AttributeType `json:"type"`
	IsRequired   bool          `json:"is_required"`
	IsFilterable bool          `json:"is_filterable"`
	IsSearchable bool          `json:"is_searchable"`
	Options      []string      `json:"options,omitempty"`
	OptionsText  string        `json:"options_text"`
	SortOrder    int           `json:"sort_order"`
	IsActive     bool          `json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Annotate fills the comma-joined options used by the edit form.
func (a *Attribute) Annotate() {
	if a == nil {
		return
	}
	a.OptionsText = JoinOptions(a.Options)
}

// AttributeInput is the attribute form payload.
type AttributeInput struct {
	Name         string `json:"name" validate:"required,notblank,max=255"`
	Type         string `json:"type" validate:"required,oneof=text number boolean select"`
	IsRequired   bool   `json:"is_required"`
	IsFilterable *bool  `json:"is_filterable"`
	IsSearchable *bool  `json:"is_searchable"`
	Options      string `json:"options"`
	SortOrder    int    `json:"sort_order"`
}

// BuildAttribute validates the form. Options are kept only for select attributes
// and are mandatory there.
func BuildAttribute(businessID string, in AttributeInput) (*Attribute, error) {
	attrType := AttributeType(trim(in.Type))
	var options []string
	if attrType == AttributeSelect {
		options = SplitOptions(in.Options)
		if len(options) == 0 {
			return nil, ValidationError(map[string]string{
				"options": "select attributes need at least one option",
			})
		}
	}

	a := &Attribute{
		BusinessID:   businessID,
		Name:         trim(in.Name),
		Type:         attrType,
		IsRequired:   in.IsRequired,
		IsFilterable: boolOr(in.IsFilterable, true),
		IsSearchable: boolOr(in.IsSearchable, true),
		Options:      options,
		SortOrder:    in.SortOrder,
		IsActive:     true,
	}
	a.Annotate()
	return a, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
