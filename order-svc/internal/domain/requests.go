package domain

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"
)

const MinPasswordLength = 6

// MaxLineQuantity bounds one order line, after repeated menu ids are merged.
const MaxLineQuantity = 1000

// Money limits follow the NUMERIC(10,2) price and NUMERIC(12,2) total columns.
var (
	MaxPrice      = decimal.RequireFromString("99999999.99")
	MaxOrderTotal = decimal.RequireFromString("9999999999.99")
)

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Normalize lower-cases the email and defaults the role, then validates.
func (r *SignupRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Role == "" {
		r.Role = RoleCustomer
	}

	switch {
	case r.Name == "":
		return NewValidationError("name", "name is required")
	case r.Email == "":
		return NewValidationError("email", "email is required")
	case !validEmail(r.Email):
		return NewValidationError("email", "email is invalid")
	case len(r.Password) < MinPasswordLength:
		return NewValidationError("password", "password must be at least 6 characters")
	case !r.Role.Valid():
		return NewValidationError("role", "role must be customer or restaurant-operator")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  *Account `json:"user"`
}

type OrderItemRequest struct {
	MenuID   int `json:"menuId"`
	Quantity int `json:"quantity"`
}

type PlaceOrderRequest struct {
	UserID *int               `json:"userId,omitempty"`
	Items  []OrderItemRequest `json:"items"`
}

func (r PlaceOrderRequest) Validate() error {
	if len(r.Items) == 0 {
		return NewValidationError("items", "order must contain at least one item")
	}
	for _, item := range r.Items {
		if item.MenuID <= 0 {
			return NewValidationError("items", "menuId is required")
		}
		if item.Quantity < 1 {
			return NewValidationError("items", "quantity must be at least 1")
		}
		if item.Quantity > MaxLineQuantity {
			return NewValidationError("items", fmt.Sprintf("quantity must not exceed %d", MaxLineQuantity))
		}
	}
	return nil
}

type StatusUpdateRequest struct {
	Status        string `json:"status"`
	EstimatedTime *int   `json:"estimatedTime"`
}

type MenuItemInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Available   *bool           `json:"available"`
	ImageURL    string          `json:"imageUrl"`
}

func (in MenuItemInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return NewValidationError("name", "name is required")
	case strings.TrimSpace(in.Category) == "":
		return NewValidationError("category", "category is required")
	}
	return validatePrice(in.Price)
}

// MenuItemPatch changes only the fields that are set.
type MenuItemPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Available   *bool            `json:"available"`
	ImageURL    *string          `json:"imageUrl"`
}

func (p MenuItemPatch) Apply(item *MenuItem) error {
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return NewValidationError("name", "name is required")
		}
		item.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		if err := validatePrice(*p.Price); err != nil {
			return err
		}
		item.Price = *p.Price
	}
	if p.Category != nil {
		if strings.TrimSpace(*p.Category) == "" {
			return NewValidationError("category", "category is required")
		}
		item.Category = strings.TrimSpace(*p.Category)
	}
	if p.Available != nil {
		item.Available = *p.Available
	}
	if p.ImageURL != nil {
		item.ImageURL = *p.ImageURL
	}
	return nil
}

type RestaurantInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	ImageURL    string `json:"imageUrl"`
}

func (in RestaurantInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewValidationError("name", "name is required")
	}
	return nil
}

type RestaurantPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	ImageURL    *string `json:"imageUrl"`
}

func (p RestaurantPatch) Apply(rest *Restaurant) error {
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return NewValidationError("name", "name is required")
		}
		rest.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		rest.Description = *p.Description
	}
	if p.Address != nil {
		rest.Address = *p.Address
	}
	if p.Phone != nil {
		rest.Phone = *p.Phone
	}
	if p.ImageURL != nil {
		rest.ImageURL = *p.ImageURL
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	switch {
	case price.IsNegative():
		return NewValidationError("price", "price must not be negative")
	case !price.Equal(price.Truncate(2)):
		return NewValidationError("price", "price must have at most 2 decimal places")
	case price.GreaterThan(MaxPrice):
		return NewValidationError("price", "price must not exceed "+MaxPrice.StringFixed(2))
	}
	return nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
