package httpapi

import (
	"net/http"

	"food-ordering/order-svc/internal/domain"
)

type authResponse struct {
	Message string `json:"message"`
	*domain.AuthResponse
}

// caller is only valid behind RequireAuth.
func caller(r *http.Request) domain.Principal {
	p, _ := PrincipalFrom(r.Context())
	if p == nil {
		return domain.Principal{}
	}
	return *p
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.Auth.Signup(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Message: "User created successfully", AuthResponse: resp})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Message: "Login successful", AuthResponse: resp})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	account, err := h.Auth.Me(r.Context(), caller(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}
