package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"food-ordering/order-svc/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestEnsureSchemaExecutesStatements(t *testing.T) {
	repo, mock := newMockRepo(t)
	for range schema {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Ana", "ana@example.com", "hash", domain.RoleCustomer).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.CreateAccount(context.Background(), &domain.Account{
		Name: "Ana", Email: "ana@example.com", PasswordHash: "hash", Role: domain.RoleCustomer,
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccount(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	columns := []string{"id", "name", "email", "password_hash", "role", "restaurant_id", "created_at", "updated_at"}

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(3, "Op", "op@example.com", "hash", "restaurant-operator", 9, now, now))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(4).
		WillReturnError(sql.ErrNoRows)

	account, err := repo.GetAccount(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOperator, account.Role)
	require.NotNil(t, account.RestaurantID)
	assert.Equal(t, 9, *account.RestaurantID)

	_, err = repo.GetAccount(context.Background(), 4)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRestaurant_BackfillsOwner(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO restaurants").
		WithArgs(5, "Cafe", "Desc", "Addr", "555", domain.DefaultRestaurantImage).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_active", "created_at", "updated_at"}).AddRow(11, true, now, now))
	mock.ExpectQuery("UPDATE users SET restaurant_id").WithArgs(11, 5).
		WillReturnRows(sqlmock.NewRows([]string{"name", "email"}).AddRow("Op", "op@example.com"))
	mock.ExpectCommit()

	rest := &domain.Restaurant{OwnerID: 5, Name: "Cafe", Description: "Desc", Address: "Addr", Phone: "555", ImageURL: domain.DefaultRestaurantImage}
	require.NoError(t, repo.CreateRestaurant(context.Background(), rest))

	assert.Equal(t, 11, rest.ID)
	assert.True(t, rest.IsActive)
	assert.Equal(t, "op@example.com", rest.OwnerEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRestaurant_OwnerAlreadyHasOne(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.CreateRestaurant(context.Background(), &domain.Restaurant{OwnerID: 5, Name: "Second"})
	assert.ErrorIs(t, err, domain.ErrOwnerHasRestaurant)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateRestaurant_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE restaurants SET is_active = FALSE").WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.DeactivateRestaurant(context.Background(), 99), domain.ErrRestaurantNotFound)
}

func TestListMenuItems_PassesFilter(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	columns := []string{"id", "restaurant_id", "name", "description", "price", "category", "available", "image_url", "created_at", "updated_at"}

	mock.ExpectQuery("SELECT (.+) FROM menu_items").
		WithArgs(10, false).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, 10, "Espresso", "", "150.00", "Coffee", true, "/assets/burger.png", now, now).
			AddRow(2, 10, "Green Tea", "", "80.00", "Tea", true, "/assets/burger.png", now, now))

	items, err := repo.ListMenuItems(context.Background(), domain.MenuFilter{RestaurantID: 10})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, decimal.NewFromInt(150).Equal(items[0].Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrder_PersistsFrozenLines(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, restaurant_id, name, price, available FROM menu_items").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "restaurant_id", "name", "price", "available"}).
			AddRow(1, 10, "Latte", "120", true).
			AddRow(2, 10, "Croissant", "50", true))
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(7, 10, sqlmock.AnyArg(), domain.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(100, now, now))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(100, 1, 1, "Latte", sqlmock.AnyArg(), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(100, 2, 2, "Croissant", sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, err := repo.PlaceOrder(context.Background(), 7, []domain.OrderItemRequest{
		{MenuID: 1, Quantity: 2},
		{MenuID: 2, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, order.ID)
	assert.True(t, decimal.NewFromInt(290).Equal(order.TotalAmount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrder_UnavailableItemWritesNothing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, restaurant_id, name, price, available FROM menu_items").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "restaurant_id", "name", "price", "available"}).
			AddRow(1, 10, "Latte", "120", true).
			AddRow(3, 10, "Pie", "80", false))
	mock.ExpectRollback()

	order, err := repo.PlaceOrder(context.Background(), 7, []domain.OrderItemRequest{
		{MenuID: 1, Quantity: 1},
		{MenuID: 3, Quantity: 1},
	})
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrItemUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var orderRowColumns = []string{"id", "customer_id", "restaurant_id", "total_amount", "status", "estimated_minutes", "created_at", "updated_at"}

func TestUpdateOrderStatus_Guarded(t *testing.T) {
	now := time.Now()
	estimate := 20

	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "moves from expected status",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("UPDATE orders o").
					WithArgs(1, domain.StatusPending, domain.StatusPreparing, &estimate).
					WillReturnRows(sqlmock.NewRows(orderRowColumns).AddRow(1, 7, 10, "290", "Preparing", 20, now, now))
				m.ExpectQuery("SELECT order_id, menu_item_id").
					WithArgs(sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"order_id", "menu_item_id", "name", "price", "quantity"}).
						AddRow(1, 1, "Latte", "120", 2))
			},
		},
		{
			name: "status moved underneath",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("UPDATE orders o").WillReturnError(sql.ErrNoRows)
				m.ExpectQuery("SELECT EXISTS").WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			wantErr: domain.ErrStatusChanged,
		},
		{
			name: "order missing",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("UPDATE orders o").WillReturnError(sql.ErrNoRows)
				m.ExpectQuery("SELECT EXISTS").WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			wantErr: domain.ErrOrderNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			testCase.setup(mock)

			order, err := repo.UpdateOrderStatus(context.Background(), 1, domain.StatusPending, domain.StatusPreparing, &estimate)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, order)
			} else {
				require.NoError(t, err)
				assert.Equal(t, domain.StatusPreparing, order.Status)
				require.NotNil(t, order.EstimatedMinutes)
				assert.Equal(t, 20, *order.EstimatedMinutes)
				require.Len(t, order.Items, 1)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListRestaurantOrders_IncludesCustomer(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("FROM orders o\\s+LEFT JOIN users").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(append(orderRowColumns, "name", "email")).
			AddRow(2, 7, 10, "50", "Pending", nil, now, now, "Cara", "cara@example.com"))
	mock.ExpectQuery("SELECT order_id, menu_item_id").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "menu_item_id", "name", "price", "quantity"}))

	orders, err := repo.ListRestaurantOrders(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Cara", orders[0].CustomerName)
	assert.Nil(t, orders[0].EstimatedMinutes)
	assert.Empty(t, orders[0].Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQRCode_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT qr_code FROM orders").WithArgs(99).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetQRCode(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
