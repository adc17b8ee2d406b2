package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/YelzhanWeb/mamantilie/internal/adapter/logger"
	"github.com/YelzhanWeb/mamantilie/internal/domain"
	"github.com/YelzhanWeb/mamantilie/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

// quantityField accepts both 2 and "2"; the service validates the text.
type quantityField string

func (q *quantityField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = quantityField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity must be a number or a string")
	}
	*q = quantityField(n.String())
	return nil
}

type SubmitOrderRequest struct {
	CustomerName    string        `json:"customer_name"`
	FoodType        string        `json:"food_type"`
	Quantity        quantityField `json:"quantity"`
	SpecialRequests string        `json:"special_requests"`
}

type OrderResponse struct {
	ID              string `json:"id"`
	CustomerName    string `json:"customer_name"`
	FoodType        string `json:"food_type"`
	Quantity        int    `json:"quantity"`
	SpecialRequests string `json:"special_requests"`
	Timestamp       string `json:"timestamp"`
	Price           int    `json:"price"`
	DeliveryStatus  string `json:"delivery_status"`
	Completed       bool   `json:"completed"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		FoodType:        o.FoodType,
		Quantity:        o.Quantity,
		SpecialRequests: o.SpecialRequests,
		Timestamp:       o.Timestamp,
		Price:           o.Price,
		DeliveryStatus:  string(o.DeliveryStatus),
		Completed:       o.Completed,
	}
}

type AskRequest struct {
	Query string `json:"query"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

func (h *OrderHandler) Menu(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Menu(r.Context()))
}

func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.service.SubmitOrder(r.Context(), interfaces.SubmitOrderCommand{
		CustomerName:    req.CustomerName,
		FoodType:        req.FoodType,
		Quantity:        string(req.Quantity),
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		h.logFailure(r, "order_submit_failed", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.service.ListOrders(r.Context())
	resp := make([]OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.GetStats(r.Context()))
}

func (h *OrderHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	respondJSON(w, http.StatusOK, AskResponse{Answer: h.service.Ask(r.Context(), req.Query)})
}

// logFailure logs only unexpected errors; client mistakes are answered, not logged.
func (h *OrderHandler) logFailure(r *http.Request, action string, err error) {
	if status, _ := errorStatus(err); status >= http.StatusInternalServerError {
		h.logger.Error(action, "Request failed", RequestID(r.Context()), map[string]interface{}{
			"path": r.URL.Path,
		}, err)
	}
}
