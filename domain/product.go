package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockAlert is applied when the form leaves the threshold empty.
const DefaultLowStockAlert = 10

// Product is a sellable catalog item owned by a business.
type Product struct {
	ID            string              `json:"id"`
	BusinessID    string              `json:"business_id"`
	Name          string              `json:"name"`
	Description   *string             `json:"description,omitempty"`
	Price         decimal.Decimal     `json:"price"`
	Cost          decimal.NullDecimal `json:"cost"`
	SKU           *string             `json:"sku,omitempty"`
	CategoryID    *string             `json:"category_id,omitempty"`
	Brand         *string             `json:"brand,omitempty"`
	Barcode       *string             `json:"barcode,omitempty"`
	ImageURL      *string             `json:"image_url,omitempty"`
	IsFeatured    bool                `json:"is_featured"`
	SortOrder     int                 `json:"sort_order"`
	StockQuantity int                 `json:"stock_quantity"`
	LowStockAlert int                 `json:"low_stock_alert"`
	IsActive      bool                `json:"is_active"`
	LowStock      bool                `json:"low_stock"`
	InStock       bool                `json:"in_stock"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// Annotate recomputes the stock indicators shown next to the product.
func (p *Product) Annotate() {
	if p == nil {
		return
	}
	p.LowStock = p.StockQuantity <= p.LowStockAlert
	p.InStock = p.StockQuantity > 0
}

// ProductInput is the product form payload.
type ProductInput struct {
	Name          string           `json:"name" validate:"required,notblank,max=255"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price" validate:"required"`
	Cost          *decimal.Decimal `json:"cost"`
	SKU           string           `json:"sku" validate:"max=100"`
	CategoryID    string           `json:"category_id"`
	Brand         string           `json:"brand"`
	Barcode       string           `json:"barcode"`
	ImageURL      string           `json:"image_url" validate:"omitempty,url"`
	IsFeatured    bool             `json:"is_featured"`
	SortOrder     int              `json:"sort_order"`
	StockQuantity *int             `json:"stock_quantity" validate:"required,gte=0"`
	LowStockAlert *int             `json:"low_stock_alert" validate:"omitempty,gte=0"`
}

// BuildProduct validates the form and normalises it into a Product draft.
func BuildProduct(businessID string, in ProductInput) (*Product, error) {
	fields := map[string]string{}
	if in.Price == nil {
		fields["price"] = "price is required"
	} else if in.Price.IsNegative() {
		fields["price"] = "price must be zero or greater"
	}
	if in.Cost != nil && in.Cost.IsNegative() {
		fields["cost"] = "cost must be zero or greater"
	}
	if in.StockQuantity == nil {
		fields["stock_quantity"] = "stock quantity is required"
	} else if *in.StockQuantity < 0 {
		fields["stock_quantity"] = "stock quantity must be zero or greater"
	}
	if len(fields) > 0 {
		return nil, ValidationError(fields)
	}

	alert := DefaultLowStockAlert
	if in.LowStockAlert != nil {
		alert = *in.LowStockAlert
	}

	p := &Product{
		BusinessID:    businessID,
		Name:          trim(in.Name),
		Description:   OptionalText(in.Description),
		Price:         in.Price.Round(2),
		SKU:           OptionalText(in.SKU),
		CategoryID:    OptionalRef(in.CategoryID, NoCategory),
		Brand:         OptionalText(in.Brand),
		Barcode:       OptionalText(in.Barcode),
		ImageURL:      OptionalText(in.ImageURL),
		IsFeatured:    in.IsFeatured,
		SortOrder:     in.SortOrder,
		StockQuantity: *in.StockQuantity,
		LowStockAlert: alert,
		IsActive:      true,
	}
	if in.Cost != nil {
		p.Cost = decimal.NewNullDecimal(in.Cost.Round(2))
	}
	p.Annotate()
	return p, nil
}
