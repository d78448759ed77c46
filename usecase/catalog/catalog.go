package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
	"github.com/setuponce/backend/usecase"
	"github.com/setuponce/backend/usecase/tenant"
)

const (
	CollectionProducts   = "products"
	CollectionCategories = "categories"
	CollectionAttributes = "attributes"
)

type (
	ProductService   = tenant.Service[domain.Product, domain.ProductInput]
	CategoryService  = tenant.Service[domain.Category, domain.CategoryInput]
	AttributeService = tenant.Service[domain.Attribute, domain.AttributeInput]
)

// Lookups are the dependent lists the product form offers as choices.
type Lookups struct {
	Categories []domain.Category  `json:"categories"`
	Attributes []domain.Attribute `json:"attributes"`
}

// UseCase bundles the three catalog tabs.
type UseCase struct {
	Products   *ProductService
	Categories *CategoryService
	Attributes *AttributeService
	logger     *zap.Logger
}

type Deps struct {
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Attributes repository.AttributeRepository
	Revisions  repository.RevisionRepository
	Notifier   usecase.Notifier
	Recorder   usecase.MutationRecorder
	Logger     *zap.Logger
}

func New(deps Deps) *UseCase {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &UseCase{
		Products: tenant.New(tenant.Config[domain.Product, domain.ProductInput]{
			Collection: CollectionProducts,
			Label:      "Product",
			Store:      deps.Products,
			Build: func(_ context.Context, businessID, _ string, in domain.ProductInput) (*domain.Product, error) {
				return domain.BuildProduct(businessID, in)
			},
			Revisions: deps.Revisions,
			Notifier:  deps.Notifier,
			Recorder:  deps.Recorder,
			Logger:    deps.Logger,
		}),
		Categories: tenant.New(tenant.Config[domain.Category, domain.CategoryInput]{
			Collection: CollectionCategories,
			Label:      "Category",
			Store:      deps.Categories,
			Build: func(_ context.Context, businessID, id string, in domain.CategoryInput) (*domain.Category, error) {
				return domain.BuildCategory(businessID, id, in)
			},
			Revisions: deps.Revisions,
			Notifier:  deps.Notifier,
			Recorder:  deps.Recorder,
			Logger:    deps.Logger,
		}),
		Attributes: tenant.New(tenant.Config[domain.Attribute, domain.AttributeInput]{
			Collection: CollectionAttributes,
			Label:      "Attribute",
			Store:      deps.Attributes,
			Build: func(_ context.Context, businessID, _ string, in domain.AttributeInput) (*domain.Attribute, error) {
				return domain.BuildAttribute(businessID, in)
			},
			Revisions: deps.Revisions,
			Notifier:  deps.Notifier,
			Recorder:  deps.Recorder,
			Logger:    deps.Logger,
		}),
		logger: deps.Logger,
	}
}

// Lookups loads the categories and attributes offered by the product form.
func (uc *UseCase) Lookups(ctx context.Context, scope domain.Scope) (*Lookups, error) {
	categories, err := uc.Categories.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	attributes, err := uc.Attributes.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &Lookups{Categories: categories.Items, Attributes: attributes.Items}, nil
}

// CategoryTree lists the categories nested under their parents.
func (uc *UseCase) CategoryTree(ctx context.Context, scope domain.Scope) ([]*domain.CategoryNode, error) {
	snap, err := uc.Categories.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	return domain.BuildCategoryTree(snap.Items), nil
}
