package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"food-ordering/order-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Auth        service.AuthServiceInterface
	Restaurants service.RestaurantServiceInterface
	Menu        service.MenuServiceInterface
	Orders      service.OrderServiceInterface
	Tokens      TokenValidator
	// Debug adds the raw error text to 500 responses.
	Debug bool
}

func NewHandler(authSvc service.AuthServiceInterface, restSvc service.RestaurantServiceInterface, menuSvc service.MenuServiceInterface, orderSvc service.OrderServiceInterface, tokens TokenValidator) *Handler {
	return &Handler{
		Auth:        authSvc,
		Restaurants: restSvc,
		Menu:        menuSvc,
		Orders:      orderSvc,
		Tokens:      tokens,
	}
}

// RegisterRoutes mounts the API both at the root and under /api.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	h.routes(r.PathPrefix("/api").Subrouter())
	h.routes(r)
}

func (h *Handler) routes(r *mux.Router) {
	r.HandleFunc("/auth/signup", h.signup).Methods("POST")
	r.HandleFunc("/auth/login", h.login).Methods("POST")
	r.Handle("/auth/me", h.RequireAuth(h.me)).Methods("GET")

	r.Handle("/menu", h.OptionalAuth(h.listMenu)).Methods("GET")
	r.Handle("/menu", h.RequireAuth(h.createMenuItem)).Methods("POST")
	r.Handle("/menu/{id:[0-9]+}", h.RequireAuth(h.updateMenuItem)).Methods("PUT")
	r.Handle("/menu/{id:[0-9]+}", h.RequireAuth(h.deleteMenuItem)).Methods("DELETE")

	r.Handle("/orders", h.RequireAuth(h.placeOrder)).Methods("POST")
	r.Handle("/orders/all", h.RequireAuth(h.restaurantOrders)).Methods("GET")
	r.Handle("/orders/user/{userId:[0-9]+}", h.RequireAuth(h.customerOrders)).Methods("GET")
	r.Handle("/orders/{id:[0-9]+}", h.RequireAuth(h.getOrder)).Methods("GET")
	r.Handle("/orders/{id:[0-9]+}", h.RequireAuth(h.updateOrderStatus)).Methods("PUT")
	r.Handle("/orders/{id:[0-9]+}/status", h.RequireAuth(h.orderStatus)).Methods("GET")
	r.HandleFunc("/orders/{id:[0-9]+}/qrcode", h.orderQRCode).Methods("GET")

	r.Handle("/restaurants", h.RequireAuth(h.createRestaurant)).Methods("POST")
	r.HandleFunc("/restaurants", h.listRestaurants).Methods("GET")
	r.HandleFunc("/restaurants/{id:[0-9]+}", h.getRestaurant).Methods("GET")
	r.Handle("/restaurants/{id:[0-9]+}", h.RequireAuth(h.updateRestaurant)).Methods("PUT")
	r.Handle("/restaurants/{id:[0-9]+}", h.RequireAuth(h.deactivateRestaurant)).Methods("DELETE")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type messageResponse struct {
	Message string `json:"message"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid request body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		badRequest(w, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryID parses an optional positive id; absent means 0.
func queryID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		badRequest(w, "invalid "+name)
		return 0, false
	}
	return id, true
}
