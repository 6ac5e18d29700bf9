// Package client talks to the order-svc REST API on behalf of a customer:
// it signs in, reads menus, checks a cart out and polls order status.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"food-ordering/pkg/cart"
	"food-ordering/pkg/tracking"

	"github.com/shopspring/decimal"
)

const DefaultPollInterval = 30 * time.Second

const statusCompleted = "Completed"

var ErrEmptyCart = errors.New("cart is empty")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

type Account struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type MenuItem struct {
	ID           int             `json:"id"`
	RestaurantID int             `json:"restaurantId"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	Available    bool            `json:"available"`
	ImageURL     string          `json:"imageUrl"`
}

// CartItem converts a menu entry into something the cart accepts.
func (m MenuItem) CartItem() cart.Item {
	return cart.Item{MenuItemID: m.ID, RestaurantID: m.RestaurantID, Name: m.Name, Price: m.Price}
}

type OrderLine struct {
	MenuItemID int             `json:"menuId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

type Order struct {
	ID               int             `json:"id"`
	CustomerID       int             `json:"userId"`
	RestaurantID     int             `json:"restaurantId"`
	Items            []OrderLine     `json:"items"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Status           string          `json:"status"`
	EstimatedMinutes *int            `json:"estimatedTime"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// Placed is the checkout answer; QRCode is the path of the tracking image.
type Placed struct {
	Order  *Order `json:"order"`
	QRCode string `json:"qrCode"`
}

type Client struct {
	baseURL string
	http    HTTPClient

	mu    sync.RWMutex
	token string
}

func New(baseURL string, httpClient HTTPClient) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

type authResult struct {
	Token string   `json:"token"`
	User  *Account `json:"user"`
}

// Signup registers a customer account and keeps its token.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*Account, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/signup", body)
}

func (c *Client) Login(ctx context.Context, email, password string) (*Account, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/login", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*Account, error) {
	var res authResult
	if err := c.do(ctx, http.MethodPost, path, body, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return res.User, nil
}

// Menu lists the available items of one restaurant.
func (c *Client) Menu(ctx context.Context, restaurantID int) ([]MenuItem, error) {
	q := url.Values{"restaurantId": {strconv.Itoa(restaurantID)}}
	var items []MenuItem
	if err := c.do(ctx, http.MethodGet, "/api/menu?"+q.Encode(), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// PlaceOrder checks out the cart. Prices are not sent; the server prices
// every line from the current menu.
func (c *Client) PlaceOrder(ctx context.Context, crt cart.Cart) (*Placed, error) {
	if crt.Empty() {
		return nil, ErrEmptyCart
	}
	type item struct {
		MenuID   int `json:"menuId"`
		Quantity int `json:"quantity"`
	}
	lines := crt.Lines()
	items := make([]item, 0, len(lines))
	for _, line := range lines {
		items = append(items, item{MenuID: line.MenuItemID, Quantity: line.Quantity})
	}

	var placed Placed
	if err := c.do(ctx, http.MethodPost, "/api/orders", map[string]any{"items": items}, &placed); err != nil {
		return nil, err
	}
	return &placed, nil
}

func (c *Client) Order(ctx context.Context, id int) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) OrderStatus(ctx context.Context, id int) (*tracking.Snapshot, error) {
	var snap tracking.Snapshot
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d/status", id), nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// WatchOrder polls the order status every interval and calls onUpdate
// whenever the status or estimate changes. It returns the final snapshot
// once the order is Completed. Transient errors are logged and retried on
// the next tick; API errors in the 4xx range end the watch.
func (c *Client) WatchOrder(ctx context.Context, id int, interval time.Duration, onUpdate func(tracking.Snapshot)) (*tracking.Snapshot, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last *tracking.Snapshot
	for {
		snap, err := c.OrderStatus(ctx, id)
		switch {
		case err == nil:
			if changed(last, snap) && onUpdate != nil {
				onUpdate(*snap)
			}
			last = snap
			if snap.Status == statusCompleted {
				return snap, nil
			}
		case ctx.Err() != nil:
			return last, ctx.Err()
		default:
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
				return last, err
			}
			slog.WarnContext(ctx, "Order status poll failed", "order_id", id, "error", err)
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
		}
	}
}

func changed(prev, cur *tracking.Snapshot) bool {
	if prev == nil {
		return true
	}
	if prev.Status != cur.Status {
		return true
	}
	switch {
	case prev.EstimatedMinutes == nil && cur.EstimatedMinutes == nil:
		return false
	case prev.EstimatedMinutes == nil || cur.EstimatedMinutes == nil:
		return true
	}
	return *prev.EstimatedMinutes != *cur.EstimatedMinutes
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Message == "" {
			payload.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
