package httpapi

import (
	"net/http"

	"food-ordering/order-svc/internal/domain"
)

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := queryID(w, r, "restaurantId")
	if !ok {
		return
	}
	filter := domain.MenuFilter{
		RestaurantID:       restaurantID,
		IncludeUnavailable: r.URL.Query().Get("includeUnavailable") == "true",
	}

	principal, _ := PrincipalFrom(r.Context())
	items, err := h.Menu.List(r.Context(), principal, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var in domain.MenuItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	item, err := h.Menu.Create(r.Context(), caller(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var patch domain.MenuItemPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	item, err := h.Menu.Update(r.Context(), caller(r), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Menu.Delete(r.Context(), caller(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Menu item deleted successfully"})
}
