package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToRef(t *testing.T) {
	t.Run("WithStock", func(t *testing.T) {
		stock := 5
		img := "mate.jpg"
		p := Product{ID: 7, Name: "Mate", Price: decimal.RequireFromString("100.00"), Stock: &stock, ImageURL: &img}

		ref := ToRef(p)

		assert.Equal(t, int64(7), ref.ID)
		assert.Equal(t, "Mate", ref.Name)
		assert.True(t, ref.UnitPrice.Equal(decimal.NewFromInt(100)))
		assert.True(t, ref.HasKnownStock())
		assert.Equal(t, 5, *ref.Stock)

		// The captured stock does not follow later catalog changes.
		stock = 1
		assert.Equal(t, 5, *ref.Stock)
	})

	t.Run("UnknownStock", func(t *testing.T) {
		ref := ToRef(Product{ID: 1, Price: decimal.NewFromInt(3)})
		assert.False(t, ref.HasKnownStock())
		assert.Nil(t, ref.ImageURL)
	})
}
