package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BuildOrder prices a new order from the requested lines and the current menu
// items keyed by id. Every item must exist, be available and belong to the
// same restaurant; otherwise nothing is built. Repeated menu ids are merged
// and the merged quantity is held to MaxLineQuantity.
func BuildOrder(customerID int, items []OrderItemRequest, menu map[int]MenuItem) (*Order, error) {
	order := &Order{
		CustomerID:  customerID,
		Status:      StatusPending,
		TotalAmount: decimal.Zero,
	}

	index := make(map[int]int, len(items))
	for _, req := range items {
		item, ok := menu[req.MenuID]
		if !ok {
			return nil, &ItemUnavailableError{MenuItemID: req.MenuID}
		}
		if !item.Available {
			return nil, &ItemUnavailableError{MenuItemID: item.ID, Name: item.Name}
		}

		if order.RestaurantID == 0 {
			order.RestaurantID = item.RestaurantID
		} else if order.RestaurantID != item.RestaurantID {
			return nil, NewValidationError("items", "all items must come from the same restaurant")
		}

		if req.Quantity < 1 || req.Quantity > MaxLineQuantity {
			return nil, lineQuantityError(item.Name)
		}
		if i, seen := index[item.ID]; seen {
			if order.Items[i].Quantity+req.Quantity > MaxLineQuantity {
				return nil, lineQuantityError(item.Name)
			}
			order.Items[i].Quantity += req.Quantity
			continue
		}
		index[item.ID] = len(order.Items)
		order.Items = append(order.Items, OrderLine{
			MenuItemID: item.ID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   req.Quantity,
		})
	}

	for _, line := range order.Items {
		order.TotalAmount = order.TotalAmount.Add(line.Subtotal())
	}
	if order.TotalAmount.GreaterThan(MaxOrderTotal) {
		return nil, NewValidationError("items", "order total is too large")
	}
	return order, nil
}

func lineQuantityError(name string) error {
	return NewValidationError("items", fmt.Sprintf("quantity of %s must be between 1 and %d", name, MaxLineQuantity))
}

// MenuIDs returns the distinct menu ids referenced by items.
func MenuIDs(items []OrderItemRequest) []int {
	seen := make(map[int]bool, len(items))
	ids := make([]int, 0, len(items))
	for _, item := range items {
		if !seen[item.MenuID] {
			seen[item.MenuID] = true
			ids = append(ids, item.MenuID)
		}
	}
	return ids
}
