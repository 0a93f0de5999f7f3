package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCart(t *testing.T) {
	cart := NewCart()
	cart.Add(LineItem{ItemID: "coffee", UnitPrice: 5, Quantity: 1})
	cart.Add(LineItem{ItemID: "burger", UnitPrice: 12.5, Quantity: 2})
	cart.Add(LineItem{ItemID: "coffee", UnitPrice: 5, Quantity: 2})
	cart.Add(LineItem{ItemID: "ignored", UnitPrice: 1, Quantity: 0})

	assert.Equal(t, 2, cart.Len())
	assert.Equal(t, 3, cart.Quantity("coffee"))
	assert.Equal(t, 40.0, cart.Subtotal())

	cart.SetQuantity("burger", 1)
	assert.Equal(t, 1, cart.Quantity("burger"))

	cart.SetQuantity("coffee", 0)
	assert.Equal(t, 0, cart.Quantity("coffee"))
	assert.Equal(t, []LineItem{{ItemID: "burger", UnitPrice: 12.5, Quantity: 1}}, cart.Lines())

	cart.Add(LineItem{ItemID: "fries", UnitPrice: 3, Quantity: 1})
	cart.Remove("burger")
	cart.SetQuantity("fries", 4)
	assert.Equal(t, 4, cart.Quantity("fries"))

	lines := cart.Lines()
	lines[0].Quantity = 100
	assert.Equal(t, 4, cart.Quantity("fries"))

	cart.Clear()
	assert.Zero(t, cart.Len())
	assert.Zero(t, cart.Subtotal())
}

func TestDiscount_ActiveAt(t *testing.T) {
	catalog := testCatalog()
	assert.True(t, catalog[0].ActiveAt(now))
	assert.False(t, catalog[3].ActiveAt(now))
	assert.False(t, catalog[4].ActiveAt(now))
	assert.False(t, catalog[5].ActiveAt(now))
	assert.False(t, catalog[6].ActiveAt(now))
	assert.True(t, catalog[0].ActiveAt(catalog[0].ValidUntil))
}
