package httpapi

import (
	"net/http"

	"food-ordering/order-svc/internal/domain"
)

type restaurantResponse struct {
	Message    string             `json:"message"`
	Restaurant *domain.Restaurant `json:"restaurant"`
}

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var in domain.RestaurantInput
	if !decodeJSON(w, r, &in) {
		return
	}
	rest, err := h.Restaurants.Create(r.Context(), caller(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, restaurantResponse{Message: "Restaurant created successfully", Restaurant: rest})
}

func (h *Handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Restaurants.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rest, err := h.Restaurants.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var patch domain.RestaurantPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	rest, err := h.Restaurants.Update(r.Context(), caller(r), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurantResponse{Message: "Restaurant updated successfully", Restaurant: rest})
}

func (h *Handler) deactivateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Restaurants.Deactivate(r.Context(), caller(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Restaurant deleted successfully"})
}
