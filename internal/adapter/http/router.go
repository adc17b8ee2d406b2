package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/YelzhanWeb/mamantilie/internal/adapter/logger"
	"github.com/YelzhanWeb/mamantilie/internal/interfaces"
)

// NewRouter mounts the customer and admin routes.
func NewRouter(service interfaces.OrderService, auth interfaces.AdminAuthenticator, logger logger.Logger) *mux.Router {
	orders := NewOrderHandler(service, logger)
	admin := NewAdminHandler(service, auth, logger)

	r := mux.NewRouter()
	r.Use(LoggingMiddleware(logger), RecoveryMiddleware(logger))

	r.HandleFunc("/menu", orders.Menu).Methods(http.MethodGet)
	r.HandleFunc("/orders", orders.SubmitOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders", orders.ListOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", orders.GetOrder).Methods(http.MethodGet)
	r.HandleFunc("/stats", orders.Stats).Methods(http.MethodGet)
	r.HandleFunc("/assistant", orders.Ask).Methods(http.MethodPost)

	r.HandleFunc("/admin/login", admin.Login).Methods(http.MethodPost)

	protected := r.PathPrefix("/admin/orders").Subrouter()
	protected.Use(AdminMiddleware(auth, logger))
	protected.HandleFunc("/{id}/status", admin.SetStatus).Methods(http.MethodPatch)
	protected.HandleFunc("/{id}/toggle", admin.ToggleComplete).Methods(http.MethodPost)
	protected.HandleFunc("/{id}", admin.RemoveOrder).Methods(http.MethodDelete)

	return r
}
