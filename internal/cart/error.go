package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("invalid cart quantity")
	ErrInvalidProduct  = errors.New("invalid cart product")

	// -- Persistence --
	ErrFailedLoadCart = errors.New("failed to load cart")
	ErrFailedSaveCart = errors.New("failed to save cart")
)
