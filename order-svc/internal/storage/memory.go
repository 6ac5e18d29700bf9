package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"food-ordering/order-svc/internal/domain"
)

// MemoryRepository keeps everything in process memory. It backs
// STORAGE_DRIVER=memory and the service tests.
type MemoryRepository struct {
	mu sync.RWMutex

	accounts    map[int]domain.Account
	restaurants map[int]domain.Restaurant
	menu        map[int]domain.MenuItem
	orders      map[int]domain.Order
	qrCodes     map[int][]byte
	nextID      int

	now func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts:    make(map[int]domain.Account),
		restaurants: make(map[int]domain.Restaurant),
		menu:        make(map[int]domain.MenuItem),
		orders:      make(map[int]domain.Order),
		qrCodes:     make(map[int][]byte),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) id() int {
	r.nextID++
	return r.nextID
}

func (r *MemoryRepository) CreateAccount(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return domain.ErrEmailTaken
		}
	}
	account.ID = r.id()
	account.CreatedAt = r.now()
	account.UpdatedAt = account.CreatedAt
	r.accounts[account.ID] = *account
	return nil
}

func (r *MemoryRepository) GetAccount(_ context.Context, id int) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &account, nil
}

func (r *MemoryRepository) GetAccountByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if account.Email == email {
			return &account, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *MemoryRepository) CreateRestaurant(_ context.Context, rest *domain.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, ok := r.accounts[rest.OwnerID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	for _, existing := range r.restaurants {
		if existing.OwnerID == rest.OwnerID && existing.IsActive {
			return domain.ErrOwnerHasRestaurant
		}
	}

	rest.ID = r.id()
	rest.IsActive = true
	rest.CreatedAt = r.now()
	rest.UpdatedAt = rest.CreatedAt
	r.restaurants[rest.ID] = *rest

	id := rest.ID
	owner.RestaurantID = &id
	owner.UpdatedAt = rest.CreatedAt
	r.accounts[owner.ID] = owner

	rest.OwnerName, rest.OwnerEmail = owner.Name, owner.Email
	return nil
}

func (r *MemoryRepository) ListRestaurants(_ context.Context) ([]domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	restaurants := []domain.Restaurant{}
	for _, rest := range r.restaurants {
		if rest.IsActive {
			restaurants = append(restaurants, r.withOwner(rest))
		}
	}
	slices.SortFunc(restaurants, func(a, b domain.Restaurant) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return restaurants, nil
}

func (r *MemoryRepository) GetRestaurant(_ context.Context, id int) (*domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rest, ok := r.restaurants[id]
	if !ok {
		return nil, domain.ErrRestaurantNotFound
	}
	rest = r.withOwner(rest)
	return &rest, nil
}

func (r *MemoryRepository) UpdateRestaurant(_ context.Context, rest *domain.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.restaurants[rest.ID]
	if !ok {
		return domain.ErrRestaurantNotFound
	}
	stored.Name = rest.Name
	stored.Description = rest.Description
	stored.Address = rest.Address
	stored.Phone = rest.Phone
	stored.ImageURL = rest.ImageURL
	stored.UpdatedAt = r.now()
	r.restaurants[rest.ID] = stored

	*rest = r.withOwner(stored)
	return nil
}

func (r *MemoryRepository) DeactivateRestaurant(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rest, ok := r.restaurants[id]
	if !ok {
		return domain.ErrRestaurantNotFound
	}
	rest.IsActive = false
	rest.UpdatedAt = r.now()
	r.restaurants[id] = rest
	return nil
}

func (r *MemoryRepository) withOwner(rest domain.Restaurant) domain.Restaurant {
	if owner, ok := r.accounts[rest.OwnerID]; ok {
		rest.OwnerName, rest.OwnerEmail = owner.Name, owner.Email
	}
	return rest
}

func (r *MemoryRepository) CreateMenuItem(_ context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.restaurants[item.RestaurantID]; !ok {
		return domain.ErrRestaurantNotFound
	}
	item.ID = r.id()
	item.CreatedAt = r.now()
	item.UpdatedAt = item.CreatedAt
	r.menu[item.ID] = *item
	return nil
}

func (r *MemoryRepository) ListMenuItems(_ context.Context, filter domain.MenuFilter) ([]domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []domain.MenuItem{}
	for _, item := range r.menu {
		if filter.RestaurantID != 0 && item.RestaurantID != filter.RestaurantID {
			continue
		}
		if !filter.IncludeUnavailable && !item.Available {
			continue
		}
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b domain.MenuItem) int {
		return cmp.Or(
			cmp.Compare(a.Category, b.Category),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return items, nil
}

func (r *MemoryRepository) GetMenuItem(_ context.Context, id int) (*domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.menu[id]
	if !ok {
		return nil, domain.ErrMenuItemNotFound
	}
	return &item, nil
}

func (r *MemoryRepository) UpdateMenuItem(_ context.Context, item *domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.menu[item.ID]; !ok {
		return domain.ErrMenuItemNotFound
	}
	item.UpdatedAt = r.now()
	r.menu[item.ID] = *item
	return nil
}

func (r *MemoryRepository) DeleteMenuItem(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.menu[id]; !ok {
		return domain.ErrMenuItemNotFound
	}
	delete(r.menu, id)
	return nil
}

func (r *MemoryRepository) PlaceOrder(_ context.Context, customerID int, items []domain.OrderItemRequest) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	menu := make(map[int]domain.MenuItem, len(items))
	for _, id := range domain.MenuIDs(items) {
		if item, ok := r.menu[id]; ok {
			menu[id] = item
		}
	}

	order, err := domain.BuildOrder(customerID, items, menu)
	if err != nil {
		return nil, err
	}

	order.ID = r.id()
	order.CreatedAt = r.now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = cloneOrder(*order)
	return order, nil
}

func (r *MemoryRepository) GetOrder(_ context.Context, id int) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	order = cloneOrder(order)
	return &order, nil
}

func (r *MemoryRepository) ListCustomerOrders(_ context.Context, customerID int) ([]domain.Order, error) {
	return r.listOrders(func(o domain.Order) bool { return o.CustomerID == customerID }, false), nil
}

func (r *MemoryRepository) ListRestaurantOrders(_ context.Context, restaurantID int) ([]domain.Order, error) {
	return r.listOrders(func(o domain.Order) bool { return o.RestaurantID == restaurantID }, true), nil
}

func (r *MemoryRepository) listOrders(match func(domain.Order) bool, withCustomer bool) []domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := []domain.Order{}
	for _, order := range r.orders {
		if !match(order) {
			continue
		}
		order = cloneOrder(order)
		if customer, ok := r.accounts[order.CustomerID]; ok && withCustomer {
			order.CustomerName, order.CustomerEmail = customer.Name, customer.Email
		}
		orders = append(orders, order)
	}
	slices.SortFunc(orders, func(a, b domain.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return orders
}

func (r *MemoryRepository) UpdateOrderStatus(_ context.Context, id int, from, to domain.Status, estimate *int) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status != from {
		return nil, domain.ErrStatusChanged
	}

	order.Status = to
	if estimate != nil {
		minutes := *estimate
		order.EstimatedMinutes = &minutes
	}
	order.UpdatedAt = r.now()
	r.orders[id] = order

	order = cloneOrder(order)
	return &order, nil
}

func (r *MemoryRepository) SaveQRCode(_ context.Context, id int, qr []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	r.qrCodes[id] = slices.Clone(qr)
	return nil
}

func (r *MemoryRepository) GetQRCode(_ context.Context, id int) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.orders[id]; !ok {
		return nil, domain.ErrOrderNotFound
	}
	return slices.Clone(r.qrCodes[id]), nil
}

func cloneOrder(order domain.Order) domain.Order {
	order.Items = slices.Clone(order.Items)
	if order.EstimatedMinutes != nil {
		minutes := *order.EstimatedMinutes
		order.EstimatedMinutes = &minutes
	}
	return order
}
