package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/example/ec-order-service/internal/api/middleware"
	"github.com/example/ec-order-service/internal/command"
	"github.com/example/ec-order-service/internal/domain/order"
	"github.com/example/ec-order-service/internal/query"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
	}
}

type createOrderRequest struct {
	ShippingAddress order.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                `json:"payment_method"`
	CouponCode      string                `json:"coupon_code,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// CreateOrder places an order from the authenticated user's cart
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, email, ok := currentUser(r)
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.CreateOrder{
		UserID:          userID,
		Email:           email,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		CouponCode:      req.CouponCode,
	}

	o, err := h.cmdHandler.CreateOrder(r.Context(), cmd)
	if err != nil {
		var stockErr *order.InsufficientStockError
		var couponErr *order.InvalidCouponError
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			respondError(w, err.Error(), http.StatusBadRequest)
		case errors.As(err, &stockErr), errors.As(err, &couponErr):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			respondError(w, "An error occurred while creating the order", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, o)
}

// GetOrders lists the authenticated user's orders, newest first
func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(r)
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orders, err := h.queryHandler.ListOrdersForUser(r.Context(), userID)
	if err != nil {
		log.Printf("[API] Error retrieving orders for user %s: %v", userID, err)
		respondError(w, "An error occurred while retrieving orders", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetOrder retrieves a single order owned by the authenticated user
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(r)
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(extractPathParam(r.URL.Path, "/orders/"))
	if err != nil {
		respondError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.queryHandler.GetOrderForUser(r.Context(), id, userID)
	if err != nil {
		log.Printf("[API] Error retrieving order %s: %v", id, err)
		respondError(w, "An error occurred while retrieving the order", http.StatusInternalServerError)
		return
	}
	if o == nil {
		respondError(w, "Order not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

// GetOrderByNumber retrieves an order by its order number
func (h *Handlers) GetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(r)
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orderNumber := extractPathParam(r.URL.Path, "/orders/number/")
	if orderNumber == "" {
		respondError(w, "invalid order number", http.StatusBadRequest)
		return
	}

	o, err := h.queryHandler.GetOrderByNumberForUser(r.Context(), orderNumber, userID)
	if err != nil {
		log.Printf("[API] Error retrieving order %s: %v", orderNumber, err)
		respondError(w, "An error occurred while retrieving the order", http.StatusInternalServerError)
		return
	}
	if o == nil {
		respondError(w, "Order not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

// CancelOrder cancels one of the authenticated user's orders
func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(r)
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/orders/")
	id, err := uuid.Parse(strings.TrimSuffix(path, "/cancel"))
	if err != nil {
		respondError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	cancelled, err := h.cmdHandler.CancelOrder(r.Context(), command.CancelOrder{
		OrderID: id,
		UserID:  userID,
	})
	if err != nil {
		if errors.Is(err, order.ErrOrderNotCancellable) {
			respondError(w, err.Error(), http.StatusConflict)
			return
		}
		respondError(w, "An error occurred while cancelling the order", http.StatusInternalServerError)
		return
	}
	if !cancelled {
		respondError(w, "Order not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateOrderStatus moves an order to a new status. Admin only.
func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/orders/")
	id, err := uuid.Parse(strings.TrimSuffix(path, "/status"))
	if err != nil {
		respondError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.cmdHandler.UpdateOrderStatus(r.Context(), command.UpdateOrderStatus{
		OrderID: id,
		Status:  status,
	})
	if err != nil {
		respondError(w, "An error occurred while updating the order status", http.StatusInternalServerError)
		return
	}
	if !updated {
		respondError(w, "Order not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

// currentUser extracts the authenticated user's id and email from JWT claims
func currentUser(r *http.Request) (uuid.UUID, string, bool) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return uuid.Nil, "", false
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, "", false
	}
	return userID, claims.Email, true
}
