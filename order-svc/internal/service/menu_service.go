package service

import (
	"context"
	"strings"

	"food-ordering/order-svc/internal/domain"
)

type MenuService struct {
	repo     MenuRepository
	accounts AccountRepository
}

func NewMenuService(repo MenuRepository, accounts AccountRepository) *MenuService {
	return &MenuService{repo: repo, accounts: accounts}
}

// List returns menu items sorted by category and name. Unavailable items are
// only included for the operator who owns the listed restaurant; the flag is
// ignored for everyone else.
func (s *MenuService) List(ctx context.Context, principal *domain.Principal, filter domain.MenuFilter) ([]domain.MenuItem, error) {
	if filter.IncludeUnavailable {
		filter.IncludeUnavailable = s.ownsRestaurant(ctx, principal, filter.RestaurantID)
	}
	return s.repo.ListMenuItems(ctx, filter)
}

func (s *MenuService) Create(ctx context.Context, principal domain.Principal, in domain.MenuItemInput) (*domain.MenuItem, error) {
	restaurantID, err := operatorRestaurant(ctx, s.accounts, principal)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	item := &domain.MenuItem{
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
		Category:     strings.TrimSpace(in.Category),
		Available:    true,
		ImageURL:     in.ImageURL,
	}
	if in.Available != nil {
		item.Available = *in.Available
	}
	if item.ImageURL == "" {
		item.ImageURL = domain.DefaultMenuImage
	}

	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) Update(ctx context.Context, principal domain.Principal, id int, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	item, err := s.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(item); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the item from the menu. Placed orders keep their own copy of
// the line and are not affected.
func (s *MenuService) Delete(ctx context.Context, principal domain.Principal, id int) error {
	if _, err := s.owned(ctx, principal, id); err != nil {
		return err
	}
	return s.repo.DeleteMenuItem(ctx, id)
}

func (s *MenuService) owned(ctx context.Context, principal domain.Principal, id int) (*domain.MenuItem, error) {
	restaurantID, err := operatorRestaurant(ctx, s.accounts, principal)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.RestaurantID != restaurantID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

func (s *MenuService) ownsRestaurant(ctx context.Context, principal *domain.Principal, restaurantID int) bool {
	if principal == nil || restaurantID == 0 {
		return false
	}
	own, err := operatorRestaurant(ctx, s.accounts, *principal)
	return err == nil && own == restaurantID
}

// operatorRestaurant resolves the restaurant run by principal from the
// account record, so a restaurant created after the token was issued counts.
func operatorRestaurant(ctx context.Context, accounts AccountRepository, principal domain.Principal) (int, error) {
	if !principal.IsOperator() {
		return 0, domain.ErrForbidden
	}
	account, err := accounts.GetAccount(ctx, principal.UserID)
	if err != nil {
		return 0, err
	}
	if account.RestaurantID == nil {
		return 0, domain.ErrRestaurantSetup
	}
	return *account.RestaurantID, nil
}

var _ MenuServiceInterface = (*MenuService)(nil)
