package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is one of the fixed order states.
type OrderStatus string

const (
	OrderDraft     OrderStatus = "draft"
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists the states in lifecycle order.
var OrderStatuses = []OrderStatus{OrderDraft, OrderPending, OrderConfirmed, OrderDelivered, OrderCancelled}

// ParseOrderStatus rejects values outside the enumerated set.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, s := range OrderStatuses {
		if string(s) == value {
			return s, nil
		}
	}
	return "", ValidationError(map[string]string{"status": fmt.Sprintf("unknown status %q", value)})
}

// IsTerminal reports whether no further lifecycle step follows.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CountsAsRevenue reports whether orders in this state contribute to revenue.
func (s OrderStatus) CountsAsRevenue() bool {
	return s == OrderConfirmed || s == OrderDelivered
}

// Order channels.
const (
	ChannelManual   = "manual"
	ChannelFacebook = "facebook"
	ChannelWhatsApp = "whatsapp"
	ChannelWebsite  = "website"
)

// Order is a customer order with its line items.
type Order struct {
	ID              string          `json:"id"`
	BusinessID      string          `json:"business_id"`
	OrderNumber     string          `json:"order_number"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CustomerName    *string         `json:"customer_name,omitempty"`
	CustomerPhone   *string         `json:"customer_phone,omitempty"`
	CustomerAddress *string         `json:"customer_address,omitempty"`
	Channel         *string         `json:"channel,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	Items           []OrderItem     `json:"order_items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem is one line of an order, joined with the product it references.
type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	ProductSKU  *string         `json:"product_sku,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderInput is the manual order form payload.
type OrderInput struct {
	CustomerName    string           `json:"customer_name" validate:"max=255"`
	CustomerPhone   string           `json:"customer_phone" validate:"max=50"`
	CustomerAddress string           `json:"customer_address"`
	Channel         string           `json:"channel" validate:"max=50"`
	Notes           string           `json:"notes"`
	Status          string           `json:"status"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// OrderItemInput is one requested order line. A nil UnitPrice means "use the
// product's current price".
type OrderItemInput struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"gte=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// PriceLookup resolves current product prices for the given business.
type PriceLookup func(productID string) (decimal.Decimal, bool)

// BuildOrder validates the form, prices every line and computes the totals.
func BuildOrder(businessID string, in OrderInput, prices PriceLookup) (*Order, error) {
	status := OrderPending
	if in.Status != "" {
		parsed, err := ParseOrderStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	fields := map[string]string{}
	items := make([]OrderItem, 0, len(in.Items))
	total := decimal.Zero
	for i, line := range in.Items {
		unit := decimal.Zero
		switch {
		case line.UnitPrice != nil:
			unit = *line.UnitPrice
		case prices != nil:
			p, ok := prices(line.ProductID)
			if !ok {
				fields[fmt.Sprintf("items[%d].product_id", i)] = "unknown product"
				continue
			}
			unit = p
		default:
			fields[fmt.Sprintf("items[%d].unit_price", i)] = "unit price is required"
			continue
		}
		if unit.IsNegative() {
			fields[fmt.Sprintf("items[%d].unit_price", i)] = "unit price must be zero or greater"
			continue
		}
		// Stored unit prices carry two decimals; totals are derived from the stored value.
		unit = unit.Round(2)
		lineTotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)
		items = append(items, OrderItem{
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  unit,
			TotalPrice: lineTotal,
		})
	}
	if len(fields) > 0 {
		return nil, ValidationError(fields)
	}

	channel := OptionalText(in.Channel)
	if channel == nil {
		manual := ChannelManual
		channel = &manual
	}

	return &Order{
		BusinessID:      businessID,
		Status:          status,
		TotalAmount:     total,
		CustomerName:    OptionalText(in.CustomerName),
		CustomerPhone:   OptionalText(in.CustomerPhone),
		CustomerAddress: OptionalText(in.CustomerAddress),
		Channel:         channel,
		Notes:           OptionalText(in.Notes),
		Items:           items,
	}, nil
}

// NewOrderNumber formats a human-facing order number such as ORD-20240131-1A2B3C.
func NewOrderNumber(now time.Time, token string) string {
	if len(token) > 6 {
		token = token[:6]
	}
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), strings.ToUpper(token))
}
