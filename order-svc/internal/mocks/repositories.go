package mocks

import (
	"context"

	"food-ordering/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type AccountRepository struct {
	mock.Mock
}

func NewAccountRepository(t testingT) *AccountRepository {
	m := &AccountRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *AccountRepository) GetAccount(ctx context.Context, id int) (*domain.Account, error) {
	args := m.Called(ctx, id)
	account, _ := args.Get(0).(*domain.Account)
	return account, args.Error(1)
}

func (m *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	account, _ := args.Get(0).(*domain.Account)
	return account, args.Error(1)
}

type RestaurantRepository struct {
	mock.Mock
}

func NewRestaurantRepository(t testingT) *RestaurantRepository {
	m := &RestaurantRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RestaurantRepository) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	args := m.Called(ctx, rest)
	return args.Error(0)
}

func (m *RestaurantRepository) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.Restaurant)
	return list, args.Error(1)
}

func (m *RestaurantRepository) GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error) {
	args := m.Called(ctx, id)
	rest, _ := args.Get(0).(*domain.Restaurant)
	return rest, args.Error(1)
}

func (m *RestaurantRepository) UpdateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	args := m.Called(ctx, rest)
	return args.Error(0)
}

func (m *RestaurantRepository) DeactivateRestaurant(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MenuRepository struct {
	mock.Mock
}

func NewMenuRepository(t testingT) *MenuRepository {
	m := &MenuRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MenuRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MenuRepository) ListMenuItems(ctx context.Context, filter domain.MenuFilter) ([]domain.MenuItem, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]domain.MenuItem)
	return items, args.Error(1)
}

func (m *MenuRepository) GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*domain.MenuItem)
	return item, args.Error(1)
}

func (m *MenuRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MenuRepository) DeleteMenuItem(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t testingT) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderRepository) PlaceOrder(ctx context.Context, customerID int, items []domain.OrderItemRequest) (*domain.Order, error) {
	args := m.Called(ctx, customerID, items)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *OrderRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *OrderRepository) ListCustomerOrders(ctx context.Context, customerID int) ([]domain.Order, error) {
	args := m.Called(ctx, customerID)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Error(1)
}

func (m *OrderRepository) ListRestaurantOrders(ctx context.Context, restaurantID int) ([]domain.Order, error) {
	args := m.Called(ctx, restaurantID)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Error(1)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, id int, from, to domain.Status, estimate *int) (*domain.Order, error) {
	args := m.Called(ctx, id, from, to, estimate)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *OrderRepository) SaveQRCode(ctx context.Context, id int, qr []byte) error {
	args := m.Called(ctx, id, qr)
	return args.Error(0)
}

func (m *OrderRepository) GetQRCode(ctx context.Context, id int) ([]byte, error) {
	args := m.Called(ctx, id)
	qr, _ := args.Get(0).([]byte)
	return qr, args.Error(1)
}
