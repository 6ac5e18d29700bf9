package storage

import (
	"context"
	"testing"
	"time"

	"food-ordering/order-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededMemory(t *testing.T) (*MemoryRepository, *domain.Account, *domain.Restaurant) {
	t.Helper()
	ctx := context.Background()
	repo := NewMemoryRepository()

	owner := &domain.Account{Name: "Op", Email: "op@example.com", Role: domain.RoleOperator}
	require.NoError(t, repo.CreateAccount(ctx, owner))
	rest := &domain.Restaurant{OwnerID: owner.ID, Name: "Cafe"}
	require.NoError(t, repo.CreateRestaurant(ctx, rest))
	return repo, owner, rest
}

func TestMemory_CreateRestaurantBackfillsOwner(t *testing.T) {
	repo, owner, rest := seededMemory(t)
	ctx := context.Background()

	stored, err := repo.GetAccount(ctx, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RestaurantID)
	assert.Equal(t, rest.ID, *stored.RestaurantID)
	assert.Equal(t, "op@example.com", rest.OwnerEmail)

	err = repo.CreateRestaurant(ctx, &domain.Restaurant{OwnerID: owner.ID, Name: "Second"})
	assert.ErrorIs(t, err, domain.ErrOwnerHasRestaurant)

	require.NoError(t, repo.DeactivateRestaurant(ctx, rest.ID))
	listed, err := repo.ListRestaurants(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	assert.NoError(t, repo.CreateRestaurant(ctx, &domain.Restaurant{OwnerID: owner.ID, Name: "Second"}))
}

func TestMemory_DuplicateEmail(t *testing.T) {
	repo, _, _ := seededMemory(t)
	err := repo.CreateAccount(context.Background(), &domain.Account{Email: "op@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestMemory_ListMenuItemsSortsAndFilters(t *testing.T) {
	repo, _, rest := seededMemory(t)
	ctx := context.Background()

	for _, item := range []domain.MenuItem{
		{Name: "Tiramisu", Category: "Desserts", Available: true},
		{Name: "Latte", Category: "Coffee", Available: true},
		{Name: "Americano", Category: "Coffee", Available: false},
		{Name: "Espresso", Category: "Coffee", Available: true},
	} {
		item.RestaurantID = rest.ID
		item.Price = decimal.NewFromInt(100)
		require.NoError(t, repo.CreateMenuItem(ctx, &item))
	}

	names := func(items []domain.MenuItem) []string {
		var out []string
		for _, item := range items {
			out = append(out, item.Name)
		}
		return out
	}

	visible, err := repo.ListMenuItems(ctx, domain.MenuFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Espresso", "Latte", "Tiramisu"}, names(visible))

	all, err := repo.ListMenuItems(ctx, domain.MenuFilter{RestaurantID: rest.ID, IncludeUnavailable: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Americano", "Espresso", "Latte", "Tiramisu"}, names(all))

	none, err := repo.ListMenuItems(ctx, domain.MenuFilter{RestaurantID: rest.ID + 100})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemory_OrderKeepsPlacementPrice(t *testing.T) {
	repo, _, rest := seededMemory(t)
	ctx := context.Background()

	item := &domain.MenuItem{RestaurantID: rest.ID, Name: "Latte", Category: "Coffee", Price: decimal.NewFromInt(120), Available: true}
	require.NoError(t, repo.CreateMenuItem(ctx, item))

	order, err := repo.PlaceOrder(ctx, 42, []domain.OrderItemRequest{{MenuID: item.ID, Quantity: 2}})
	require.NoError(t, err)

	item.Price = decimal.NewFromInt(999)
	require.NoError(t, repo.UpdateMenuItem(ctx, item))
	require.NoError(t, repo.DeleteMenuItem(ctx, item.ID))

	stored, err := repo.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(120).Equal(stored.Items[0].Price))
	assert.True(t, decimal.NewFromInt(240).Equal(stored.TotalAmount))
}

func TestMemory_RejectedOrderPersistsNothing(t *testing.T) {
	repo, _, rest := seededMemory(t)
	ctx := context.Background()

	item := &domain.MenuItem{RestaurantID: rest.ID, Name: "Pie", Category: "Pastry", Price: decimal.NewFromInt(80)}
	require.NoError(t, repo.CreateMenuItem(ctx, item))

	_, err := repo.PlaceOrder(ctx, 42, []domain.OrderItemRequest{{MenuID: item.ID, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrItemUnavailable)

	orders, err := repo.ListCustomerOrders(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestMemory_UpdateOrderStatusIsGuarded(t *testing.T) {
	repo, _, rest := seededMemory(t)
	ctx := context.Background()

	item := &domain.MenuItem{RestaurantID: rest.ID, Name: "Latte", Category: "Coffee", Price: decimal.NewFromInt(120), Available: true}
	require.NoError(t, repo.CreateMenuItem(ctx, item))
	order, err := repo.PlaceOrder(ctx, 42, []domain.OrderItemRequest{{MenuID: item.ID, Quantity: 1}})
	require.NoError(t, err)

	estimate := 15
	updated, err := repo.UpdateOrderStatus(ctx, order.ID, domain.StatusPending, domain.StatusPreparing, &estimate)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, updated.Status)

	_, err = repo.UpdateOrderStatus(ctx, order.ID, domain.StatusPending, domain.StatusPreparing, nil)
	assert.ErrorIs(t, err, domain.ErrStatusChanged)

	updated, err = repo.UpdateOrderStatus(ctx, order.ID, domain.StatusPreparing, domain.StatusReady, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.EstimatedMinutes)
	assert.Equal(t, 15, *updated.EstimatedMinutes)

	_, err = repo.UpdateOrderStatus(ctx, 999, domain.StatusPending, domain.StatusPreparing, nil)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestMemory_OrderListsNewestFirst(t *testing.T) {
	repo, _, rest := seededMemory(t)
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	customer := &domain.Account{Name: "Cara", Email: "cara@example.com", Role: domain.RoleCustomer}
	require.NoError(t, repo.CreateAccount(ctx, customer))
	item := &domain.MenuItem{RestaurantID: rest.ID, Name: "Latte", Category: "Coffee", Price: decimal.NewFromInt(1), Available: true}
	require.NoError(t, repo.CreateMenuItem(ctx, item))

	first, err := repo.PlaceOrder(ctx, customer.ID, []domain.OrderItemRequest{{MenuID: item.ID, Quantity: 1}})
	require.NoError(t, err)
	second, err := repo.PlaceOrder(ctx, customer.ID, []domain.OrderItemRequest{{MenuID: item.ID, Quantity: 2}})
	require.NoError(t, err)

	mine, err := repo.ListCustomerOrders(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	theirs, err := repo.ListRestaurantOrders(ctx, rest.ID)
	require.NoError(t, err)
	require.Len(t, theirs, 2)
	assert.Equal(t, "cara@example.com", theirs[0].CustomerEmail)
}
