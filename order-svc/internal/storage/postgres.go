package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"food-ordering/order-svc/internal/domain"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'customer' CHECK (role IN ('customer', 'restaurant-operator')),
		restaurant_id INTEGER,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS restaurants (
		id          SERIAL PRIMARY KEY,
		owner_id    INTEGER NOT NULL REFERENCES users(id),
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		address     TEXT NOT NULL DEFAULT '',
		phone       TEXT NOT NULL DEFAULT '',
		image_url   TEXT NOT NULL DEFAULT '',
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS restaurants_active_owner_idx ON restaurants (owner_id) WHERE is_active`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id            SERIAL PRIMARY KEY,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants(id),
		name          TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		price         NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
		category      TEXT NOT NULL,
		available     BOOLEAN NOT NULL DEFAULT TRUE,
		image_url     TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS menu_items_restaurant_idx ON menu_items (restaurant_id)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id                SERIAL PRIMARY KEY,
		customer_id       INTEGER NOT NULL REFERENCES users(id),
		restaurant_id     INTEGER NOT NULL REFERENCES restaurants(id),
		total_amount      NUMERIC(12, 2) NOT NULL,
		status            TEXT NOT NULL DEFAULT 'Pending' CHECK (status IN ('Pending', 'Preparing', 'Ready', 'Completed')),
		estimated_minutes INTEGER CHECK (estimated_minutes > 0),
		qr_code           BYTEA,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS orders_customer_idx ON orders (customer_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS orders_restaurant_idx ON orders (restaurant_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id     INTEGER NOT NULL REFERENCES orders(id),
		line_no      INTEGER NOT NULL,
		menu_item_id INTEGER NOT NULL,
		name         TEXT NOT NULL,
		price        NUMERIC(10, 2) NOT NULL,
		quantity     INTEGER NOT NULL CHECK (quantity >= 1),
		PRIMARY KEY (order_id, line_no)
	)`,
}

// EnsureSchema creates the tables the service needs when they are missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func (r *PostgresRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		account.Name, account.Email, account.PasswordHash, account.Role,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

const accountColumns = `id, name, email, password_hash, role, restaurant_id, created_at, updated_at`

func (r *PostgresRepository) GetAccount(ctx context.Context, id int) (*domain.Account, error) {
	return r.scanAccount(r.DB.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1`, id))
}

func (r *PostgresRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.scanAccount(r.DB.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM users WHERE email = $1`, email))
}

func (r *PostgresRepository) scanAccount(row *sql.Row) (*domain.Account, error) {
	var (
		account      domain.Account
		restaurantID sql.NullInt64
	)
	err := row.Scan(&account.ID, &account.Name, &account.Email, &account.PasswordHash, &account.Role,
		&restaurantID, &account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	account.RestaurantID = intPtr(restaurantID)
	return &account, nil
}

func (r *PostgresRepository) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var taken bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM restaurants WHERE owner_id = $1 AND is_active)`, rest.OwnerID,
	).Scan(&taken); err != nil {
		return err
	}
	if taken {
		return domain.ErrOwnerHasRestaurant
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO restaurants (owner_id, name, description, address, phone, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_active, created_at, updated_at`,
		rest.OwnerID, rest.Name, rest.Description, rest.Address, rest.Phone, rest.ImageURL,
	).Scan(&rest.ID, &rest.IsActive, &rest.CreatedAt, &rest.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrOwnerHasRestaurant
	}
	if err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx, `
		UPDATE users SET restaurant_id = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING name, email`,
		rest.ID, rest.OwnerID,
	).Scan(&rest.OwnerName, &rest.OwnerEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAccountNotFound
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

const restaurantSelect = `
	SELECT r.id, r.owner_id, COALESCE(u.name, ''), COALESCE(u.email, ''), r.name, r.description,
	       r.address, r.phone, r.image_url, r.is_active, r.created_at, r.updated_at
	FROM restaurants r
	LEFT JOIN users u ON u.id = r.owner_id`

func (r *PostgresRepository) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.DB.QueryContext(ctx, restaurantSelect+`
		WHERE r.is_active
		ORDER BY r.created_at DESC, r.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := []domain.Restaurant{}
	for rows.Next() {
		var rest domain.Restaurant
		if err := scanRestaurant(rows, &rest); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, rest)
	}
	return restaurants, rows.Err()
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := scanRestaurant(r.DB.QueryRowContext(ctx, restaurantSelect+` WHERE r.id = $1`, id), &rest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *PostgresRepository) UpdateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE restaurants
		SET name = $1, description = $2, address = $3, phone = $4, image_url = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`,
		rest.Name, rest.Description, rest.Address, rest.Phone, rest.ImageURL, rest.ID,
	).Scan(&rest.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrRestaurantNotFound
	}
	return err
}

func (r *PostgresRepository) DeactivateRestaurant(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE restaurants SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrRestaurantNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (restaurant_id, name, description, price, category, available, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		item.RestaurantID, item.Name, item.Description, item.Price, item.Category, item.Available, item.ImageURL,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

const menuColumns = `id, restaurant_id, name, description, price, category, available, image_url, created_at, updated_at`

func (r *PostgresRepository) ListMenuItems(ctx context.Context, filter domain.MenuFilter) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+menuColumns+`
		FROM menu_items
		WHERE ($1 = 0 OR restaurant_id = $1) AND ($2 OR available)
		ORDER BY category, name, id`,
		filter.RestaurantID, filter.IncludeUnavailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		var item domain.MenuItem
		if err := scanMenuItem(rows, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := scanMenuItem(r.DB.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id), &item)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMenuItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, category = $4, available = $5, image_url = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`,
		item.Name, item.Description, item.Price, item.Category, item.Available, item.ImageURL, item.ID,
	).Scan(&item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrMenuItemNotFound
	}
	return err
}

func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM menu_items WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrMenuItemNotFound
	}
	return nil
}

func (r *PostgresRepository) PlaceOrder(ctx context.Context, customerID int, items []domain.OrderItemRequest) (*domain.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ids := domain.MenuIDs(items)
	lookup := make([]int64, len(ids))
	for i, id := range ids {
		lookup[i] = int64(id)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, restaurant_id, name, price, available
		FROM menu_items
		WHERE id = ANY($1)
		FOR SHARE`, pq.Array(lookup))
	if err != nil {
		return nil, err
	}
	menu := make(map[int]domain.MenuItem, len(ids))
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Price, &item.Available); err != nil {
			rows.Close()
			return nil, err
		}
		menu[item.ID] = item
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	order, err := domain.BuildOrder(customerID, items, menu)
	if err != nil {
		return nil, err
	}

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, restaurant_id, total_amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		order.CustomerID, order.RestaurantID, order.TotalAmount, order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}

	for i, line := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, line_no, menu_item_id, name, price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, i+1, line.MenuItemID, line.Name, line.Price, line.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

const orderColumns = `o.id, o.customer_id, o.restaurant_id, o.total_amount, o.status, o.estimated_minutes, o.created_at, o.updated_at`

func (r *PostgresRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	var order domain.Order
	err := scanOrder(r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id), &order)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	orders := []domain.Order{order}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *PostgresRepository) ListCustomerOrders(ctx context.Context, customerID int) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.customer_id = $1
		ORDER BY o.created_at DESC, o.id DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, r.attachLines(ctx, orders)
}

func (r *PostgresRepository) ListRestaurantOrders(ctx context.Context, restaurantID int) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+orderColumns+`, COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM orders o
		LEFT JOIN users u ON u.id = o.customer_id
		WHERE o.restaurant_id = $1
		ORDER BY o.created_at DESC, o.id DESC`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order, &order.CustomerName, &order.CustomerEmail); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, r.attachLines(ctx, orders)
}

func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id int, from, to domain.Status, estimate *int) (*domain.Order, error) {
	var order domain.Order
	err := scanOrder(r.DB.QueryRowContext(ctx, `
		UPDATE orders o
		SET status = $3, estimated_minutes = COALESCE($4, o.estimated_minutes), updated_at = NOW()
		WHERE o.id = $1 AND o.status = $2
		RETURNING `+orderColumns,
		id, from, to, estimate), &order)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.ErrStatusChanged
	}
	if err != nil {
		return nil, err
	}

	orders := []domain.Order{order}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, id int, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET qr_code = $1 WHERE id = $2`, qr, id)
	return err
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, id int) ([]byte, error) {
	var qr []byte
	err := r.DB.QueryRowContext(ctx, "SELECT qr_code FROM orders WHERE id = $1", id).Scan(&qr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return qr, nil
}

// attachLines loads the frozen lines of every order in one query.
func (r *PostgresRepository) attachLines(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	index := make(map[int]int, len(orders))
	ids := make([]int64, len(orders))
	for i, order := range orders {
		index[order.ID] = i
		ids[i] = int64(order.ID)
		orders[i].Items = []domain.OrderLine{}
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT order_id, menu_item_id, name, price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, line_no`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID int
			line    domain.OrderLine
		)
		if err := rows.Scan(&orderID, &line.MenuItemID, &line.Name, &line.Price, &line.Quantity); err != nil {
			return err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, line)
		}
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row scanner, rest *domain.Restaurant) error {
	return row.Scan(&rest.ID, &rest.OwnerID, &rest.OwnerName, &rest.OwnerEmail, &rest.Name, &rest.Description,
		&rest.Address, &rest.Phone, &rest.ImageURL, &rest.IsActive, &rest.CreatedAt, &rest.UpdatedAt)
}

func scanMenuItem(row scanner, item *domain.MenuItem) error {
	return row.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price,
		&item.Category, &item.Available, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt)
}

func scanOrder(row scanner, order *domain.Order, extra ...any) error {
	var estimate sql.NullInt64
	dest := append([]any{&order.ID, &order.CustomerID, &order.RestaurantID, &order.TotalAmount,
		&order.Status, &estimate, &order.CreatedAt, &order.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	order.EstimatedMinutes = intPtr(estimate)
	return nil
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func firstLine(stmt string) string {
	for i, c := range stmt {
		if c == '\n' {
			return stmt[:i]
		}
	}
	return stmt
}
