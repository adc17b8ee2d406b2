package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/YelzhanWeb/mamantilie/internal/adapter/logger"
	"github.com/YelzhanWeb/mamantilie/internal/interfaces"
)

type AdminHandler struct {
	service interfaces.OrderService
	auth    interfaces.AdminAuthenticator
	logger  logger.Logger
}

func NewAdminHandler(service interfaces.OrderService, auth interfaces.AdminAuthenticator, logger logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		auth:    auth,
		logger:  logger,
	}
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ToggleResponse struct {
	Order     OrderResponse `json:"order"`
	Celebrate bool          `json:"celebrate"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		h.logger.Warn("admin_login_failed", "Admin login failed", RequestID(r.Context()), nil, err)
		respondError(w, err)
		return
	}

	h.logger.Info("admin_login", "Admin logged in", RequestID(r.Context()), nil)
	respondJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.service.SetStatus(r.Context(), Authorized(r.Context()), mux.Vars(r)["id"], req.Status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *AdminHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ToggleComplete(r.Context(), Authorized(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ToggleResponse{Order: toOrderResponse(res.Order), Celebrate: res.Celebrate})
}

func (h *AdminHandler) RemoveOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveOrder(r.Context(), Authorized(r.Context()), mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
