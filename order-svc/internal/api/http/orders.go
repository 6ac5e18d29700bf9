package httpapi

import (
	"net/http"

	"food-ordering/order-svc/internal/domain"
)

type orderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
	QRCode  string        `json:"qrCode,omitempty"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.PlaceOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.Orders.Place(r.Context(), caller(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, orderResponse{
		Message: "Order placed successfully",
		Order:   order,
		QRCode:  h.Orders.QRLink(order.ID),
	})
}

func (h *Handler) customerOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	orders, err := h.Orders.ListForCustomer(r.Context(), caller(r), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) restaurantOrders(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := queryID(w, r, "restaurantId")
	if !ok {
		return
	}
	orders, err := h.Orders.ListForRestaurant(r.Context(), caller(r), restaurantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.Orders.Get(r.Context(), caller(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.StatusUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.Orders.Transition(r.Context(), caller(r), id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Message: "Order updated successfully", Order: order})
}

func (h *Handler) orderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	snap, err := h.Orders.Status(r.Context(), caller(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) orderQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	qr, err := h.Orders.QRCode(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qr)
}
