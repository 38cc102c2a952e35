package models

import (
	"fmt"
	"math"
	"sort"
)

// CartEntry is one product line of a cart. Price is the unit price captured
// when the product was first added.
type CartEntry struct {
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Cart maps product name to its entry.
type Cart map[string]CartEntry

// CartRegistry maps an identity key to that identity's cart. It is the unit
// persisted under the "userCarts" storage key.
type CartRegistry map[string]Cart

// CartLine is a cart entry with its name, in render order.
type CartLine struct {
	Name     string
	Quantity int
	Price    float64
}

// Subtotal is quantity × price, unrounded.
func (l CartLine) Subtotal() float64 {
	return float64(l.Quantity) * l.Price
}

// TotalCount sums all quantities.
func (c Cart) TotalCount() int {
	total := 0
	for _, e := range c {
		total += e.Quantity
	}
	return total
}

// TotalPrice sums quantity × price over all entries. The value is not rounded.
func (c Cart) TotalPrice() float64 {
	total := 0.0
	for _, e := range c {
		total += float64(e.Quantity) * e.Price
	}
	return total
}

// Lines returns the entries sorted by product name.
func (c Cart) Lines() []CartLine {
	lines := make([]CartLine, 0, len(c))
	for name, e := range c {
		lines = append(lines, CartLine{Name: name, Quantity: e.Quantity, Price: e.Price})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines
}

// Clone returns a copy that shares nothing with c.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// FormatPrice rounds to two decimal places for display.
func FormatPrice(v float64) string {
	return fmt.Sprintf("%.2f", math.Round(v*100)/100)
}
