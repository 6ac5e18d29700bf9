// Package cart is the client-held shopping cart. A Cart is an immutable value:
// every operation returns a new Cart and leaves the receiver untouched.
//
// Invariants: every line has quantity >= 1, every line belongs to the same
// restaurant, and an empty cart carries no restaurant.
package cart

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Item is the menu entry a customer picks.
type Item struct {
	MenuItemID   int
	RestaurantID int
	Name         string
	Price        decimal.Decimal
}

// Line is one cart entry. Name and Price are captured when the item is added.
type Line struct {
	MenuItemID int             `json:"menuItemId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Confirmer is asked before a cart holding items from current is cleared to
// accept an item from incoming.
type Confirmer func(current, incoming int) bool

type Cart struct {
	restaurantID int
	lines        []Line
}

func New() Cart {
	return Cart{}
}

// FromLines rebuilds a cart from persisted state, dropping lines that violate
// the quantity invariant.
func FromLines(restaurantID int, lines []Line) Cart {
	kept := make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.Quantity >= 1 {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 || restaurantID == 0 {
		return Cart{}
	}
	return Cart{restaurantID: restaurantID, lines: kept}
}

// RestaurantID is zero for an empty cart.
func (c Cart) RestaurantID() int {
	return c.restaurantID
}

func (c Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c Cart) Lines() []Line {
	return slices.Clone(c.lines)
}

// Add puts one unit of item into the cart. When the cart already holds items
// from another restaurant, confirm decides: declined (or nil) returns the cart
// unchanged and false; accepted clears the cart first.
func (c Cart) Add(item Item, confirm Confirmer) (Cart, bool) {
	if !c.Empty() && c.restaurantID != item.RestaurantID {
		if confirm == nil || !confirm(c.restaurantID, item.RestaurantID) {
			return c, false
		}
		c = c.Clear()
	}

	lines := c.Lines()
	if i := indexOf(lines, item.MenuItemID); i >= 0 {
		lines[i].Quantity++
	} else {
		lines = append(lines, Line{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   1,
		})
	}
	return Cart{restaurantID: item.RestaurantID, lines: lines}, true
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line.
func (c Cart) UpdateQuantity(menuItemID, quantity int) Cart {
	if quantity <= 0 {
		return c.Remove(menuItemID)
	}
	i := indexOf(c.lines, menuItemID)
	if i < 0 {
		return c
	}
	lines := c.Lines()
	lines[i].Quantity = quantity
	return Cart{restaurantID: c.restaurantID, lines: lines}
}

func (c Cart) Remove(menuItemID int) Cart {
	i := indexOf(c.lines, menuItemID)
	if i < 0 {
		return c
	}
	lines := slices.Delete(c.Lines(), i, i+1)
	if len(lines) == 0 {
		return Cart{}
	}
	return Cart{restaurantID: c.restaurantID, lines: lines}
}

func (c Cart) Clear() Cart {
	return Cart{}
}

func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (c Cart) TotalItems() int {
	n := 0
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

func indexOf(lines []Line, menuItemID int) int {
	return slices.IndexFunc(lines, func(l Line) bool { return l.MenuItemID == menuItemID })
}
