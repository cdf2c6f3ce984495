package product

import "github.com/shopspring/decimal"

// Product is a catalog entry as returned by the backend collaborator.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock,omitempty"`
	ImageURL    *string         `json:"image_url,omitempty"`
	CategoryID  *int64          `json:"category_id,omitempty"`
}

// Ref is the snapshot of a product captured when it enters the cart. Its
// price is the one charged at checkout, whatever the catalog says later.
type Ref struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     *int            `json:"stock,omitempty"`
	ImageURL  *string         `json:"image_url,omitempty"`
}

// HasKnownStock reports whether the catalog told us how many units exist.
func (r Ref) HasKnownStock() bool {
	return r.Stock != nil
}
