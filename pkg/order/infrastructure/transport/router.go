package transport

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	appservice "orderservice/pkg/order/application/service"
	"orderservice/pkg/order/domain/service"
)

type Handler struct {
	orders   service.OrderService
	users    appservice.UserService
	products appservice.ProductService
}

func NewHandler(orders service.OrderService, users appservice.UserService, products appservice.ProductService) *Handler {
	return &Handler{
		orders:   orders,
		users:    users,
		products: products,
	}
}

func Router(h *Handler, requestTimeout time.Duration) http.Handler {
	r := mux.NewRouter()
	s := r.PathPrefix("/api/v1").Subrouter()

	s.HandleFunc("/orders", h.createOrder).Methods(http.MethodPost)
	s.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	s.HandleFunc("/orders/{id}", h.getOrder).Methods(http.MethodGet)
	s.HandleFunc("/orders/{id}", h.updateOrderStatus).Methods(http.MethodPatch)

	s.HandleFunc("/users", h.createUser).Methods(http.MethodPost)
	s.HandleFunc("/users", h.listUsers).Methods(http.MethodGet)
	s.HandleFunc("/users/{id}", h.updateUser).Methods(http.MethodPut)
	s.HandleFunc("/users/{id}", h.deleteUser).Methods(http.MethodDelete)

	s.HandleFunc("/products", h.createProduct).Methods(http.MethodPost)
	s.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	s.HandleFunc("/products/{id}", h.updateProduct).Methods(http.MethodPut, http.MethodPatch)
	s.HandleFunc("/products/{id}", h.deleteProduct).Methods(http.MethodDelete)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	return logMiddleware(timeoutMiddleware(r, requestTimeout))
}
