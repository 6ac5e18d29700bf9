package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"food-ordering/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	SeedOperatorEmail = "operator@demo.local"
	SeedCustomerEmail = "customer@demo.local"
	SeedPassword      = "password123"
)

type seedItem struct {
	name, category, description string
	price                       int64
}

var seedMenu = []seedItem{
	{"Espresso", "Coffee", "Strong and bold coffee shot.", 150},
	{"Cappuccino", "Coffee", "Espresso with steamed milk foam.", 200},
	{"Latte", "Coffee", "Espresso with steamed milk.", 220},
	{"Mocha", "Coffee", "Chocolate flavored warm coffee.", 240},
	{"Americano", "Coffee", "Diluted espresso with hot water.", 180},
	{"Masala Chai", "Tea", "Spiced Indian tea with milk.", 50},
	{"Green Tea", "Tea", "Healthy antioxidant-rich tea.", 80},
	{"Lemon Tea", "Tea", "Refreshing tea with lemon zest.", 70},
	{"Earl Grey", "Tea", "Black tea flavored with bergamot.", 100},
	{"Iced Tea", "Tea", "Chilled tea with lemon and mint.", 120},
	{"Butter Croissant", "Pastry", "Flaky and buttery crescent roll.", 120},
	{"Chocolate Muffin", "Pastry", "Rich chocolate muffin.", 100},
	{"Blueberry Danish", "Pastry", "Pastry topped with blueberries.", 140},
	{"Cinnamon Roll", "Pastry", "Sweet roll with cinnamon swirl.", 110},
	{"Apple Pie", "Pastry", "Classic pie with spiced apple filling.", 150},
	{"Chocolate Brownie", "Desserts", "Fudgy brownie with walnuts.", 130},
	{"Cheesecake", "Desserts", "Creamy cheesecake slice.", 200},
	{"Tiramisu", "Desserts", "Coffee-flavored Italian dessert.", 220},
	{"Ice Cream Sundae", "Desserts", "Vanilla ice cream with toppings.", 180},
	{"Fruit Tart", "Desserts", "Pastry shell with custard and fruit.", 160},
	{"Veg Burger", "Snacks", "Classic vegetable burger.", 150},
	{"French Fries", "Snacks", "Crispy salted potato fries.", 100},
	{"Club Sandwich", "Snacks", "Triple-layer grilled sandwich.", 180},
	{"Paneer Wrap", "Snacks", "Spiced paneer in a soft roll.", 160},
	{"Garlic Bread", "Snacks", "Toasted bread with garlic butter.", 120},
}

type Seeder struct {
	Accounts    AccountRepository
	Restaurants RestaurantRepository
	Menu        MenuRepository
	Hasher      PasswordHasher
}

// Run loads a demo operator with a restaurant and menu plus a demo customer.
// It does nothing when the demo operator already exists.
func (s *Seeder) Run(ctx context.Context) error {
	_, err := s.Accounts.GetAccountByEmail(ctx, SeedOperatorEmail)
	if err == nil {
		slog.InfoContext(ctx, "seed data already present, skipping")
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	operator, err := s.account(ctx, "Demo Operator", SeedOperatorEmail, domain.RoleOperator)
	if err != nil {
		return err
	}
	if _, err := s.account(ctx, "Demo Customer", SeedCustomerEmail, domain.RoleCustomer); err != nil {
		return err
	}

	rest := &domain.Restaurant{
		OwnerID:     operator.ID,
		Name:        "Demo Cafe",
		Description: "Coffee, tea and a little something sweet.",
		Address:     "1 Market Street",
		Phone:       "555-0100",
		ImageURL:    domain.DefaultRestaurantImage,
		IsActive:    true,
	}
	if err := s.Restaurants.CreateRestaurant(ctx, rest); err != nil {
		return fmt.Errorf("seed restaurant: %w", err)
	}

	for _, entry := range seedMenu {
		item := &domain.MenuItem{
			RestaurantID: rest.ID,
			Name:         entry.name,
			Description:  entry.description,
			Price:        decimal.NewFromInt(entry.price),
			Category:     entry.category,
			Available:    true,
			ImageURL:     domain.DefaultMenuImage,
		}
		if err := s.Menu.CreateMenuItem(ctx, item); err != nil {
			return fmt.Errorf("seed menu item %q: %w", entry.name, err)
		}
	}

	slog.InfoContext(ctx, "seed data loaded", "restaurant_id", rest.ID, "menu_items", len(seedMenu))
	return nil
}

func (s *Seeder) account(ctx context.Context, name, email string, role domain.Role) (*domain.Account, error) {
	hash, err := s.Hasher.Hash(SeedPassword)
	if err != nil {
		return nil, err
	}
	account := &domain.Account{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := s.Accounts.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("seed account %s: %w", email, err)
	}
	return account, nil
}
