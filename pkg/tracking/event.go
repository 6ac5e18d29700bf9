// Package tracking holds the order event contract shared by order-svc and
// tracker-svc, and the Redis-backed status snapshot both of them read.
package tracking

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultTopic = "order-events"

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

type Event struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	OrderID          int             `json:"orderId"`
	RestaurantID     int             `json:"restaurantId"`
	CustomerID       int             `json:"customerId"`
	Status           string          `json:"status"`
	EstimatedMinutes *int            `json:"estimatedMinutes,omitempty"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	OccurredAt       time.Time       `json:"occurredAt"`
}

func (e Event) Known() bool {
	return e.Type == EventOrderPlaced || e.Type == EventOrderStatusChanged
}

func (e Event) Snapshot() Snapshot {
	return Snapshot{
		OrderID:          e.OrderID,
		CustomerID:       e.CustomerID,
		RestaurantID:     e.RestaurantID,
		Status:           e.Status,
		EstimatedMinutes: e.EstimatedMinutes,
		UpdatedAt:        e.OccurredAt,
	}
}

// Snapshot is the latest known status of one order.
type Snapshot struct {
	OrderID          int       `json:"orderId"`
	CustomerID       int       `json:"-"`
	RestaurantID     int       `json:"restaurantId"`
	Status           string    `json:"status"`
	EstimatedMinutes *int      `json:"estimatedTime"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
