package service

import (
	"context"
	"strings"

	"food-ordering/order-svc/internal/domain"
)

type RestaurantService struct {
	repo RestaurantRepository
}

func NewRestaurantService(repo RestaurantRepository) *RestaurantService {
	return &RestaurantService{repo: repo}
}

func (s *RestaurantService) Create(ctx context.Context, principal domain.Principal, in domain.RestaurantInput) (*domain.Restaurant, error) {
	if !principal.IsOperator() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	rest := &domain.Restaurant{
		OwnerID:     principal.UserID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Address:     in.Address,
		Phone:       in.Phone,
		ImageURL:    in.ImageURL,
		IsActive:    true,
	}
	if rest.ImageURL == "" {
		rest.ImageURL = domain.DefaultRestaurantImage
	}

	if err := s.repo.CreateRestaurant(ctx, rest); err != nil {
		return nil, err
	}
	return rest, nil
}

func (s *RestaurantService) List(ctx context.Context) ([]domain.Restaurant, error) {
	return s.repo.ListRestaurants(ctx)
}

func (s *RestaurantService) Get(ctx context.Context, id int) (*domain.Restaurant, error) {
	return s.repo.GetRestaurant(ctx, id)
}

func (s *RestaurantService) Update(ctx context.Context, principal domain.Principal, id int, patch domain.RestaurantPatch) (*domain.Restaurant, error) {
	rest, err := s.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(rest); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRestaurant(ctx, rest); err != nil {
		return nil, err
	}
	return rest, nil
}

func (s *RestaurantService) Deactivate(ctx context.Context, principal domain.Principal, id int) error {
	if _, err := s.owned(ctx, principal, id); err != nil {
		return err
	}
	return s.repo.DeactivateRestaurant(ctx, id)
}

func (s *RestaurantService) owned(ctx context.Context, principal domain.Principal, id int) (*domain.Restaurant, error) {
	rest, err := s.repo.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	if rest.OwnerID != principal.UserID {
		return nil, domain.ErrForbidden
	}
	return rest, nil
}

var _ RestaurantServiceInterface = (*RestaurantService)(nil)
