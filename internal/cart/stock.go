package cart

import "storefront/internal/product"

// ClampToStock limits a requested add so that the line does not exceed the
// stock known when ref was captured. Unknown stock leaves requested as is.
// The result can be 0 when the cart already holds every known unit.
//
// This is advisory: nothing re-checks stock when the order is committed.
func ClampToStock(ref product.Ref, inCart, requested int) int {
	if requested < 0 {
		return 0
	}
	if !ref.HasKnownStock() {
		return requested
	}

	remaining := *ref.Stock - inCart
	if remaining <= 0 {
		return 0
	}
	if requested > remaining {
		return remaining
	}
	return requested
}
