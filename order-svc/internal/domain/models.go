package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	DefaultMenuImage       = "/assets/burger.png"
	DefaultRestaurantImage = "/assets/restaurant-default.png"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleOperator Role = "restaurant-operator"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleOperator
}

type Account struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	RestaurantID *int      `json:"restaurantId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal is the authenticated caller as carried by a bearer token.
type Principal struct {
	UserID int
	Email  string
	Role   Role
}

func (p Principal) IsOperator() bool {
	return p.Role == RoleOperator
}

type Restaurant struct {
	ID          int       `json:"id"`
	OwnerID     int       `json:"ownerId"`
	OwnerName   string    `json:"ownerName,omitempty"`
	OwnerEmail  string    `json:"ownerEmail,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	ImageURL    string    `json:"imageUrl"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type MenuItem struct {
	ID           int             `json:"id"`
	RestaurantID int             `json:"restaurantId"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	Available    bool            `json:"available"`
	ImageURL     string          `json:"imageUrl"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// MenuFilter narrows a menu listing. RestaurantID zero means every restaurant.
type MenuFilter struct {
	RestaurantID       int
	IncludeUnavailable bool
}

type Order struct {
	ID               int             `json:"id"`
	CustomerID       int             `json:"userId"`
	CustomerName     string          `json:"customerName,omitempty"`
	CustomerEmail    string          `json:"customerEmail,omitempty"`
	RestaurantID     int             `json:"restaurantId"`
	Items            []OrderLine     `json:"items"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Status           Status          `json:"status"`
	EstimatedMinutes *int            `json:"estimatedTime"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// OrderLine is a copy of the menu item taken when the order was placed.
type OrderLine struct {
	MenuItemID int             `json:"menuId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
