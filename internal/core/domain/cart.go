package domain

import "github.com/shopspring/decimal"

// LineItem is one (product, size) selection in a cart. Name, price and
// image are snapshotted when the item is added so the cart renders
// without a live catalog lookup.
type LineItem struct {
	ProductID   string          `json:"product_id"`
	DisplayName string          `json:"display_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Size        string          `json:"size"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// Subtotal returns UnitPrice multiplied by Quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Matches reports whether the line item is for the given variant.
func (li LineItem) Matches(productID, size string) bool {
	return li.ProductID == productID && li.Size == size
}
