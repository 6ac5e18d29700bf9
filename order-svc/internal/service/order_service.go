package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"food-ordering/order-svc/internal/domain"
	"food-ordering/pkg/tracking"

	"github.com/google/uuid"
)

type OrderService struct {
	repo      OrderRepository
	accounts  AccountRepository
	publisher EventPublisher
	cache     StatusCache
	qrEncoder QRGenerator
	policy    domain.TransitionPolicy
}

// NewOrderService wires the order lifecycle. publisher, cache and qr may be
// nil; the corresponding side effects are then skipped.
func NewOrderService(repo OrderRepository, accounts AccountRepository, publisher EventPublisher, cache StatusCache, qr QRGenerator, policy domain.TransitionPolicy) *OrderService {
	if policy == "" {
		policy = domain.PolicyStrict
	}
	return &OrderService{
		repo:      repo,
		accounts:  accounts,
		publisher: publisher,
		cache:     cache,
		qrEncoder: qr,
		policy:    policy,
	}
}

func (s *OrderService) Place(ctx context.Context, principal domain.Principal, req domain.PlaceOrderRequest) (*domain.Order, error) {
	if req.UserID != nil && *req.UserID != principal.UserID {
		return nil, domain.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order, err := s.repo.PlaceOrder(ctx, principal.UserID, req.Items)
	if err != nil {
		return nil, err
	}

	if s.qrEncoder != nil {
		if qr, err := s.qrEncoder.Generate(order.ID); err == nil {
			if err := s.repo.SaveQRCode(ctx, order.ID, qr); err != nil {
				slog.WarnContext(ctx, "failed to store order QR code", "order_id", order.ID, "error", err)
			}
		}
	}

	s.announce(ctx, tracking.EventOrderPlaced, order)
	return order, nil
}

func (s *OrderService) Transition(ctx context.Context, principal domain.Principal, id int, req domain.StatusUpdateRequest) (*domain.Order, error) {
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if req.EstimatedTime != nil && *req.EstimatedTime <= 0 {
		return nil, domain.NewValidationError("estimatedTime", "estimated time must be a positive number of minutes")
	}

	restaurantID, err := operatorRestaurant(ctx, s.accounts, principal)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.RestaurantID != restaurantID {
		return nil, domain.ErrForbidden
	}

	if err := s.policy.Check(order.Status, status); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, id, order.Status, status, req.EstimatedTime)
	if errors.Is(err, domain.ErrStatusChanged) {
		// Another writer moved the order; the cached snapshot may predate it.
		s.forget(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "order status changed",
		"order_id", id, "from", order.Status, "to", updated.Status, "policy", s.policy)
	s.announce(ctx, tracking.EventOrderStatusChanged, updated)
	return updated, nil
}

func (s *OrderService) Get(ctx context.Context, principal domain.Principal, id int) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.canView(ctx, principal, order.CustomerID, order.RestaurantID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListForCustomer(ctx context.Context, principal domain.Principal, customerID int) ([]domain.Order, error) {
	if customerID != principal.UserID {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListCustomerOrders(ctx, customerID)
}

// ListForRestaurant lists the orders of the caller's restaurant. A non-zero
// restaurantID must name that restaurant.
func (s *OrderService) ListForRestaurant(ctx context.Context, principal domain.Principal, restaurantID int) ([]domain.Order, error) {
	own, err := operatorRestaurant(ctx, s.accounts, principal)
	if err != nil {
		return nil, err
	}
	if restaurantID != 0 && restaurantID != own {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListRestaurantOrders(ctx, own)
}

// Status serves the polling endpoint from the status cache, falling back to
// the order store on a miss.
func (s *OrderService) Status(ctx context.Context, principal domain.Principal, id int) (*tracking.Snapshot, error) {
	if s.cache != nil {
		snap, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			if err := s.canView(ctx, principal, snap.CustomerID, snap.RestaurantID); err != nil {
				return nil, err
			}
			return snap, nil
		case !errors.Is(err, tracking.ErrCacheMiss):
			slog.WarnContext(ctx, "status cache unavailable", "order_id", id, "error", err)
		}
	}

	order, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	snap := snapshotOf(order)
	s.remember(ctx, snap)
	return &snap, nil
}

func (s *OrderService) QRCode(ctx context.Context, id int) ([]byte, error) {
	qr, err := s.repo.GetQRCode(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qrEncoder != nil {
		regenerated, err := s.qrEncoder.Generate(id)
		if err != nil {
			return nil, fmt.Errorf("failed to generate QR code: %w", err)
		}
		_ = s.repo.SaveQRCode(ctx, id, regenerated)
		return regenerated, nil
	}
	return qr, nil
}

func (s *OrderService) QRLink(id int) string {
	return fmt.Sprintf("/api/orders/%d/qrcode", id)
}

func (s *OrderService) canView(ctx context.Context, principal domain.Principal, customerID, restaurantID int) error {
	if principal.UserID == customerID {
		return nil
	}
	if principal.IsOperator() {
		own, err := operatorRestaurant(ctx, s.accounts, principal)
		if err == nil && own == restaurantID {
			return nil
		}
	}
	return domain.ErrForbidden
}

// announce publishes the order event and refreshes the cached snapshot.
// Failures are logged and never fail the request.
func (s *OrderService) announce(ctx context.Context, eventType string, order *domain.Order) {
	snap := snapshotOf(order)
	s.remember(ctx, snap)

	if s.publisher == nil {
		return
	}
	event := tracking.Event{
		ID:               uuid.NewString(),
		Type:             eventType,
		OrderID:          order.ID,
		RestaurantID:     order.RestaurantID,
		CustomerID:       order.CustomerID,
		Status:           string(order.Status),
		EstimatedMinutes: order.EstimatedMinutes,
		TotalAmount:      order.TotalAmount,
		OccurredAt:       snap.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish order event", "order_id", order.ID, "type", eventType, "error", err)
	}
}

func (s *OrderService) remember(ctx context.Context, snap tracking.Snapshot) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Set(ctx, snap); err != nil {
		slog.WarnContext(ctx, "failed to cache order status", "order_id", snap.OrderID, "error", err)
	}
}

func (s *OrderService) forget(ctx context.Context, id int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		slog.WarnContext(ctx, "failed to evict cached order status", "order_id", id, "error", err)
	}
}

func snapshotOf(order *domain.Order) tracking.Snapshot {
	updatedAt := order.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	return tracking.Snapshot{
		OrderID:          order.ID,
		CustomerID:       order.CustomerID,
		RestaurantID:     order.RestaurantID,
		Status:           string(order.Status),
		EstimatedMinutes: order.EstimatedMinutes,
		UpdatedAt:        updatedAt,
	}
}

var _ OrderServiceInterface = (*OrderService)(nil)
