package product

// ToRef captures the fields of p that the cart keeps.
func ToRef(p Product) Ref {
	ref := Ref{
		ID:        p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageURL:  p.ImageURL,
	}
	if p.Stock != nil {
		stock := *p.Stock
		ref.Stock = &stock
	}
	return ref
}
