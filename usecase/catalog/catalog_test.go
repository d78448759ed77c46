package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setuponce/backend/domain"
)

type fakeProducts struct {
	rows []domain.Product
}

func (f *fakeProducts) List(_ context.Context, businessID string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.rows {
		if p.BusinessID == businessID && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Create(_ context.Context, businessID string, p *domain.Product) error {
	p.ID = fmt.Sprintf("p%d", len(f.rows)+1)
	p.BusinessID = businessID
	f.rows = append(f.rows, *p)
	return nil
}

func (f *fakeProducts) Update(_ context.Context, businessID, id string, p *domain.Product) error {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].BusinessID == businessID {
			p.ID, p.BusinessID = id, businessID
			f.rows[i] = *p
			return nil
		}
	}
	return domain.ErrProductNotFound
}

func (f *fakeProducts) Delete(_ context.Context, businessID, id string) error {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].BusinessID == businessID && f.rows[i].IsActive {
			f.rows[i].IsActive = false
			return nil
		}
	}
	return domain.ErrProductNotFound
}

func (f *fakeProducts) Prices(context.Context, string, []string) (map[string]decimal.Decimal, error) {
	return nil, nil
}

type fakeCategories struct {
	rows []domain.Category
}

func (f *fakeCategories) List(_ context.Context, businessID string) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range f.rows {
		if c.BusinessID == businessID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) Create(_ context.Context, businessID string, c *domain.Category) error {
	c.ID = fmt.Sprintf("c%d", len(f.rows)+1)
	c.BusinessID = businessID
	f.rows = append(f.rows, *c)
	return nil
}

func (f *fakeCategories) Update(context.Context, string, string, *domain.Category) error {
	return nil
}

func (f *fakeCategories) Delete(context.Context, string, string) error {
	return nil
}

type fakeAttributes struct {
	rows []domain.Attribute
}

func (f *fakeAttributes) List(_ context.Context, businessID string) ([]domain.Attribute, error) {
	return f.rows, nil
}

func (f *fakeAttributes) Create(_ context.Context, businessID string, a *domain.Attribute) error {
	a.ID = fmt.Sprintf("a%d", len(f.rows)+1)
	a.BusinessID = businessID
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeAttributes) Update(context.Context, string, string, *domain.Attribute) error {
	return nil
}

func (f *fakeAttributes) Delete(context.Context, string, string) error {
	return nil
}

func scope() domain.Scope {
	return domain.Scope{
		Identity: "u1",
		Profile:  domain.Profile{UserID: "u1", Role: domain.RoleOwner},
		Business: &domain.Business{ID: "b1"},
	}
}

func newUseCase() (*UseCase, *fakeProducts, *fakeCategories, *fakeAttributes) {
	products, categories, attributes := &fakeProducts{}, &fakeCategories{}, &fakeAttributes{}
	return New(Deps{Products: products, Categories: categories, Attributes: attributes}), products, categories, attributes
}

func intPtr(v int) *int { return &v }

func TestCreateProductFlagsLowStock(t *testing.T) {
	uc, products, _, _ := newUseCase()
	price := decimal.RequireFromString("12.5")

	snap, err := uc.Products.Create(context.Background(), scope(), domain.ProductInput{
		Name:          "Mug",
		Description:   "   ",
		Price:         &price,
		CategoryID:    domain.NoCategory,
		StockQuantity: intPtr(3),
		LowStockAlert: intPtr(5),
	})
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)

	p := snap.Items[0]
	assert.True(t, p.LowStock)
	assert.True(t, p.InStock)
	assert.Nil(t, p.Description)
	assert.Nil(t, p.CategoryID)
	assert.Len(t, products.rows, 1)
}

func TestCreateProductRejectsNegativeStock(t *testing.T) {
	uc, products, _, _ := newUseCase()
	price := decimal.NewFromInt(1)

	_, err := uc.Products.Create(context.Background(), scope(), domain.ProductInput{
		Name:          "Mug",
		Price:         &price,
		StockQuantity: intPtr(-1),
	})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Empty(t, products.rows)
}

func TestDeletedProductsDisappearFromList(t *testing.T) {
	uc, _, _, _ := newUseCase()
	price := decimal.NewFromInt(4)

	snap, err := uc.Products.Create(context.Background(), scope(), domain.ProductInput{
		Name: "Tea", Price: &price, StockQuantity: intPtr(1),
	})
	require.NoError(t, err)

	snap, err = uc.Products.Delete(context.Background(), scope(), snap.Items[0].ID, true)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestCreateSelectAttributeNeedsOptions(t *testing.T) {
	uc, _, _, attributes := newUseCase()

	_, err := uc.Attributes.Create(context.Background(), scope(), domain.AttributeInput{
		Name: "Size", Type: "select", Options: " , ",
	})
	require.Error(t, err)
	assert.Empty(t, attributes.rows)

	snap, err := uc.Attributes.Create(context.Background(), scope(), domain.AttributeInput{
		Name: "Size", Type: "select", Options: "S, M ,L",
	})
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, []string{"S", "M", "L"}, snap.Items[0].Options)
	assert.Equal(t, "S, M, L", snap.Items[0].OptionsText)
	assert.True(t, snap.Items[0].IsFilterable)
}

func TestCreateCategoryDerivesSlugAndDropsSentinelParent(t *testing.T) {
	uc, _, categories, _ := newUseCase()

	snap, err := uc.Categories.Create(context.Background(), scope(), domain.CategoryInput{
		Name: "Hot Drinks & Tea", ParentID: domain.NoParent,
	})
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "hot-drinks-tea", snap.Items[0].Slug)
	assert.Nil(t, categories.rows[0].ParentID)
}

func TestLookupsAndTree(t *testing.T) {
	uc, _, categories, attributes := newUseCase()
	parent := "c1"
	categories.rows = []domain.Category{
		{ID: "c1", BusinessID: "b1", Name: "Drinks"},
		{ID: "c2", BusinessID: "b1", Name: "Tea", ParentID: &parent},
		{ID: "c3", BusinessID: "other", Name: "Hidden"},
	}
	attributes.rows = []domain.Attribute{{ID: "a1", BusinessID: "b1", Name: "Color"}}

	lookups, err := uc.Lookups(context.Background(), scope())
	require.NoError(t, err)
	assert.Len(t, lookups.Categories, 2)
	assert.Len(t, lookups.Attributes, 1)

	tree, err := uc.CategoryTree(context.Background(), scope())
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Tea", tree[0].Children[0].Name)
}
