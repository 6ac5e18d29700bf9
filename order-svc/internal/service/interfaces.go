package service

import (
	"context"

	"food-ordering/order-svc/internal/domain"
	"food-ordering/pkg/tracking"
)

type AccountRepository interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, id int) (*domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type RestaurantRepository interface {
	// CreateRestaurant inserts rest and points its owner's account at it in
	// one transaction. Fails with domain.ErrOwnerHasRestaurant when the owner
	// already runs an active restaurant.
	CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error)
	UpdateRestaurant(ctx context.Context, rest *domain.Restaurant) error
	DeactivateRestaurant(ctx context.Context, id int) error
}

type MenuRepository interface {
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	ListMenuItems(ctx context.Context, filter domain.MenuFilter) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	DeleteMenuItem(ctx context.Context, id int) error
}

type OrderRepository interface {
	// PlaceOrder prices items against the menu and stores the order in one
	// transaction. Nothing is written when any item is rejected.
	PlaceOrder(ctx context.Context, customerID int, items []domain.OrderItemRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	ListCustomerOrders(ctx context.Context, customerID int) ([]domain.Order, error)
	ListRestaurantOrders(ctx context.Context, restaurantID int) ([]domain.Order, error)
	// UpdateOrderStatus moves the order to status only if it is still in
	// from; otherwise it fails with domain.ErrStatusChanged.
	UpdateOrderStatus(ctx context.Context, id int, from, to domain.Status, estimate *int) (*domain.Order, error)
	SaveQRCode(ctx context.Context, id int, qr []byte) error
	GetQRCode(ctx context.Context, id int) ([]byte, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event tracking.Event) error
}

type StatusCache interface {
	Get(ctx context.Context, orderID int) (*tracking.Snapshot, error)
	Set(ctx context.Context, snap tracking.Snapshot) (bool, error)
	Delete(ctx context.Context, orderID int) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type TokenIssuer interface {
	Generate(account *domain.Account) (string, error)
}

type AuthServiceInterface interface {
	Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	Me(ctx context.Context, principal domain.Principal) (*domain.Account, error)
}

type RestaurantServiceInterface interface {
	Create(ctx context.Context, principal domain.Principal, in domain.RestaurantInput) (*domain.Restaurant, error)
	List(ctx context.Context) ([]domain.Restaurant, error)
	Get(ctx context.Context, id int) (*domain.Restaurant, error)
	Update(ctx context.Context, principal domain.Principal, id int, patch domain.RestaurantPatch) (*domain.Restaurant, error)
	Deactivate(ctx context.Context, principal domain.Principal, id int) error
}

type MenuServiceInterface interface {
	List(ctx context.Context, principal *domain.Principal, filter domain.MenuFilter) ([]domain.MenuItem, error)
	Create(ctx context.Context, principal domain.Principal, in domain.MenuItemInput) (*domain.MenuItem, error)
	Update(ctx context.Context, principal domain.Principal, id int, patch domain.MenuItemPatch) (*domain.MenuItem, error)
	Delete(ctx context.Context, principal domain.Principal, id int) error
}

type OrderServiceInterface interface {
	Place(ctx context.Context, principal domain.Principal, req domain.PlaceOrderRequest) (*domain.Order, error)
	Transition(ctx context.Context, principal domain.Principal, id int, req domain.StatusUpdateRequest) (*domain.Order, error)
	Get(ctx context.Context, principal domain.Principal, id int) (*domain.Order, error)
	ListForCustomer(ctx context.Context, principal domain.Principal, customerID int) ([]domain.Order, error)
	ListForRestaurant(ctx context.Context, principal domain.Principal, restaurantID int) ([]domain.Order, error)
	Status(ctx context.Context, principal domain.Principal, id int) (*tracking.Snapshot, error)
	QRCode(ctx context.Context, id int) ([]byte, error)
	QRLink(id int) string
}
