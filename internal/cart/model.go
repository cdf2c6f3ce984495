package cart

import (
	"storefront/internal/product"

	"github.com/shopspring/decimal"
)

// Line is one product held in the cart. Quantity is at least 1.
type Line struct {
	Product  product.Ref `json:"product"`
	Quantity int         `json:"quantity"`
}

// Subtotal is the captured unit price times the quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// persisted is the JSON layout written to storage on every mutation.
type persisted struct {
	Lines []Line `json:"lines"`
}

// Summary is the read-only view of the cart handed to the UI layer.
type Summary struct {
	Lines      []Line          `json:"lines"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}
