//go:build integration

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"food-ordering/order-svc/internal/domain"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	container, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.WithDatabase("food_ordering"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}
	return container, connStr, nil
}

type postgresSuite struct {
	suite.Suite

	container *postgres.PostgresContainer
	db        *sql.DB
	repo      *PostgresRepository
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(postgresSuite))
}

func (s *postgresSuite) SetupSuite() {
	ctx := s.T().Context()

	container, connStr, err := startPostgres(ctx)
	s.Require().NoError(err)
	s.container = container

	s.db, err = sql.Open("postgres", connStr)
	s.Require().NoError(err)

	s.repo = NewPostgresRepository(s.db)
	s.Require().NoError(s.repo.EnsureSchema(ctx))
	// idempotent
	s.Require().NoError(s.repo.EnsureSchema(ctx))
}

func (s *postgresSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		s.NoError(testcontainers.TerminateContainer(s.container))
	}
}

func (s *postgresSuite) newAccount(role domain.Role) *domain.Account {
	account := &domain.Account{
		Name:         gofakeit.Name(),
		Email:        gofakeit.Email(),
		PasswordHash: gofakeit.Password(true, true, true, false, false, 20),
		Role:         role,
	}
	s.Require().NoError(s.repo.CreateAccount(s.T().Context(), account))
	return account
}

func (s *postgresSuite) newRestaurant() (*domain.Account, *domain.Restaurant) {
	owner := s.newAccount(domain.RoleOperator)
	rest := &domain.Restaurant{OwnerID: owner.ID, Name: gofakeit.Company(), ImageURL: domain.DefaultRestaurantImage}
	s.Require().NoError(s.repo.CreateRestaurant(s.T().Context(), rest))
	return owner, rest
}

func (s *postgresSuite) newMenuItem(restaurantID int, price string, available bool) *domain.MenuItem {
	item := &domain.MenuItem{
		RestaurantID: restaurantID,
		Name:         gofakeit.BeerName(),
		Description:  gofakeit.Sentence(6),
		Price:        decimal.RequireFromString(price),
		Category:     gofakeit.RandomString([]string{"Coffee", "Tea", "Pastry"}),
		Available:    available,
		ImageURL:     domain.DefaultMenuImage,
	}
	s.Require().NoError(s.repo.CreateMenuItem(s.T().Context(), item))
	return item
}

func (s *postgresSuite) TestAccountLifecycle() {
	ctx := s.T().Context()
	account := s.newAccount(domain.RoleCustomer)

	byEmail, err := s.repo.GetAccountByEmail(ctx, account.Email)
	s.Require().NoError(err)
	s.Equal(account.ID, byEmail.ID)
	s.Nil(byEmail.RestaurantID)

	err = s.repo.CreateAccount(ctx, &domain.Account{Name: "dup", Email: account.Email, PasswordHash: "x", Role: domain.RoleCustomer})
	s.ErrorIs(err, domain.ErrEmailTaken)
}

func (s *postgresSuite) TestRestaurantOnePerOwner() {
	ctx := s.T().Context()
	owner, rest := s.newRestaurant()

	stored, err := s.repo.GetAccount(ctx, owner.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.RestaurantID)
	s.Equal(rest.ID, *stored.RestaurantID)

	err = s.repo.CreateRestaurant(ctx, &domain.Restaurant{OwnerID: owner.ID, Name: "again"})
	s.ErrorIs(err, domain.ErrOwnerHasRestaurant)

	s.Require().NoError(s.repo.DeactivateRestaurant(ctx, rest.ID))
	listed, err := s.repo.ListRestaurants(ctx)
	s.Require().NoError(err)
	for _, r := range listed {
		s.NotEqual(rest.ID, r.ID)
	}

	s.NoError(s.repo.CreateRestaurant(ctx, &domain.Restaurant{OwnerID: owner.ID, Name: "reopened"}))
}

func (s *postgresSuite) TestPlaceOrderFreezesLines() {
	ctx := s.T().Context()
	customer := s.newAccount(domain.RoleCustomer)
	_, rest := s.newRestaurant()
	a := s.newMenuItem(rest.ID, "120.00", true)
	b := s.newMenuItem(rest.ID, "50.00", true)

	order, err := s.repo.PlaceOrder(ctx, customer.ID, []domain.OrderItemRequest{
		{MenuID: a.ID, Quantity: 2},
		{MenuID: b.ID, Quantity: 1},
	})
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(290).Equal(order.TotalAmount))

	a.Price = decimal.NewFromInt(999)
	s.Require().NoError(s.repo.UpdateMenuItem(ctx, a))
	s.Require().NoError(s.repo.DeleteMenuItem(ctx, b.ID))

	stored, err := s.repo.GetOrder(ctx, order.ID)
	s.Require().NoError(err)

	opts := cmp.Options{
		cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) }),
		cmpopts.IgnoreFields(domain.Order{}, "CreatedAt", "UpdatedAt"),
	}
	if diff := cmp.Diff(order, stored, opts); diff != "" {
		s.T().Errorf("order mismatch (-placed +stored):\n%s", diff)
	}
}

func (s *postgresSuite) TestPlaceOrderRejectsUnavailable() {
	ctx := s.T().Context()
	customer := s.newAccount(domain.RoleCustomer)
	_, rest := s.newRestaurant()
	a := s.newMenuItem(rest.ID, "10.00", true)
	off := s.newMenuItem(rest.ID, "10.00", false)

	_, err := s.repo.PlaceOrder(ctx, customer.ID, []domain.OrderItemRequest{
		{MenuID: a.ID, Quantity: 1},
		{MenuID: off.ID, Quantity: 1},
	})
	s.ErrorIs(err, domain.ErrItemUnavailable)

	orders, err := s.repo.ListCustomerOrders(ctx, customer.ID)
	s.Require().NoError(err)
	s.Empty(orders)
}

func (s *postgresSuite) TestConcurrentTransitionsOnlyOneWins() {
	ctx := s.T().Context()
	customer := s.newAccount(domain.RoleCustomer)
	_, rest := s.newRestaurant()
	item := s.newMenuItem(rest.ID, "5.00", true)

	order, err := s.repo.PlaceOrder(ctx, customer.ID, []domain.OrderItemRequest{{MenuID: item.ID, Quantity: 1}})
	s.Require().NoError(err)

	const racers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.repo.UpdateOrderStatus(ctx, order.ID, domain.StatusPending, domain.StatusPreparing, nil)
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			s.ErrorIs(err, domain.ErrStatusChanged)
		}()
	}
	wg.Wait()
	s.Equal(1, wins)

	orders, err := s.repo.ListRestaurantOrders(ctx, rest.ID)
	s.Require().NoError(err)
	s.Require().Len(orders, 1)
	s.Equal(domain.StatusPreparing, orders[0].Status)
	s.Equal(customer.Email, orders[0].CustomerEmail)
}
