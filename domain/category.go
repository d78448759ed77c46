package domain

import (
	"sort"
	"strings"
	"time"
)

// Category groups products; categories form a tree through ParentID.
type Category struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"business_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Slug        string    `json:"slug"`
	ParentID    *string   `json:"parent_id,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryInput is the category form payload.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,notblank,max=255"`
	Description string `json:"description"`
	ParentID    string `json:"parent_id"`
	Slug        string `json:"slug" validate:"max=255"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	SortOrder   int    `json:"sort_order"`
}

// BuildCategory validates the form for the category identified by id ("" on create).
func BuildCategory(businessID, id string, in CategoryInput) (*Category, error) {
	name := trim(in.Name)
	slug, ok := ResolveSlug(in.Slug, name)
	fields := map[string]string{}
	if !ok {
		fields["slug"] = "slug must contain lowercase letters, digits and hyphens"
	}
	parent := OptionalRef(in.ParentID, NoParent)
	if parent != nil && id != "" && *parent == id {
		fields["parent_id"] = "a category cannot be its own parent"
	}
	if len(fields) > 0 {
		return nil, ValidationError(fields)
	}
	return &Category{
		BusinessID:  businessID,
		Name:        name,
		Description: OptionalText(in.Description),
		Slug:        slug,
		ParentID:    parent,
		ImageURL:    OptionalText(in.ImageURL),
		SortOrder:   in.SortOrder,
		IsActive:    true,
	}, nil
}

// CategoryNode is a category with its children resolved.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children,omitempty"`
}

// BuildCategoryTree links categories by ParentID. Categories whose parent is
// missing from the input are treated as roots. Siblings keep sort_order, then name.
func BuildCategoryTree(categories []Category) []*CategoryNode {
	nodes := make(map[string]*CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &CategoryNode{Category: c}
	}

	var roots []*CategoryNode
	for _, c := range categories {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*CategoryNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return nodes[i].Name < nodes[j].Name
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
