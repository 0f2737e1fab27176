package orders

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/casafix/home-services-backend/pkg/api"
	"github.com/casafix/home-services-backend/pkg/auth"
	"github.com/casafix/home-services-backend/pkg/mapping"
	"github.com/casafix/home-services-backend/pkg/models"
	"github.com/casafix/home-services-backend/pkg/realtime"
	"github.com/casafix/home-services-backend/pkg/scheduler"
	"github.com/casafix/home-services-backend/pkg/storage"
)

// acceptanceWindow is how long a new order waits for a provider before the
// expiry worker cancels it.
const acceptanceWindow = 15 * time.Minute

// OrdersHandler holds the dependencies for order-related handlers.
type OrdersHandler struct {
	Store     storage.ApiStore
	Scheduler scheduler.Scheduler
	Publisher realtime.Publisher
}

// NewOrdersHandler creates a new OrdersHandler.
func NewOrdersHandler(store storage.ApiStore, sched scheduler.Scheduler, publisher realtime.Publisher) *OrdersHandler {
	return &OrdersHandler{Store: store, Scheduler: sched, Publisher: publisher}
}

// CreateOrder handles the logic for a customer requesting a new service order.
func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var newOrder api.NewOrder
	if err := json.NewDecoder(r.Body).Decode(&newOrder); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if newOrder.ServiceCode == "" || newOrder.Address == "" {
		http.Error(w, "service_code and address are required", http.StatusBadRequest)
		return
	}

	domainOrder := mapping.ToDomainNewOrder(claims.UserID, &newOrder)

	createdOrder, err := h.Store.CreateOrder(r.Context(), domainOrder)
	if err != nil {
		slog.Error("failed to create order", "error", err)
		http.Error(w, fmt.Sprintf("Failed to create order: %v", err), http.StatusInternalServerError)
		return
	}

	// If the database write was successful, enqueue the acceptance-expiry
	// check. A scheduling failure must not fail the create.
	if h.Scheduler != nil {
		if err := h.Scheduler.ScheduleOrderExpiry(r.Context(), mapping.ToApiOrder(createdOrder), acceptanceWindow); err != nil {
			slog.Error("order created but expiry check not enqueued", "orderId", createdOrder.Id, "error", err)
		}
	}

	apiOrder := mapping.ToApiOrder(createdOrder)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiOrder); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// AcceptOrder handles the logic for a provider claiming a pending order.
// At most one provider can ever win; later attempts get a conflict.
func (h *OrdersHandler) AcceptOrder(w http.ResponseWriter, r *http.Request, orderId string) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if claims.Role != models.RoleProvider {
		http.Error(w, "Only providers can accept orders", http.StatusForbidden)
		return
	}

	acceptedOrder, err := h.Store.AcceptOrder(r.Context(), orderId, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrOrderNotFound):
			http.Error(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrOrderNotAcceptable):
			http.Error(w, "Order is no longer acceptable", http.StatusConflict)
		default:
			slog.Error("failed to accept order", "orderId", orderId, "error", err)
			http.Error(w, fmt.Sprintf("Failed to accept order: %v", err), http.StatusInternalServerError)
		}
		return
	}

	h.publishStatus(r, acceptedOrder)

	apiOrder := mapping.ToApiOrder(acceptedOrder)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiOrder); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// UpdateOrderStatus handles the logic for moving an order through its lifecycle.
func (h *OrdersHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, orderId string) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var update api.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	status := models.OrderStatus(update.Status)
	if !status.IsValid() {
		http.Error(w, fmt.Sprintf("Unknown status: %s", update.Status), http.StatusBadRequest)
		return
	}

	order, err := h.Store.GetOrder(r.Context(), orderId)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve order: %v", err), http.StatusInternalServerError)
		}
		return
	}
	if claims.UserID != order.CustomerId && claims.UserID != order.ProviderId {
		http.Error(w, "Not a participant in this order", http.StatusForbidden)
		return
	}

	updatedOrder, err := h.Store.UpdateOrderStatus(r.Context(), orderId, status)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrOrderNotFound):
			http.Error(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrInvalidStatusTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			slog.Error("failed to update order status", "orderId", orderId, "status", status, "error", err)
			http.Error(w, fmt.Sprintf("Failed to update order status: %v", err), http.StatusInternalServerError)
		}
		return
	}

	h.publishStatus(r, updatedOrder)

	apiOrder := mapping.ToApiOrder(updatedOrder)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiOrder); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetOrderById handles the logic for retrieving an order by its ID.
func (h *OrdersHandler) GetOrderById(w http.ResponseWriter, r *http.Request, orderId string) {
	order, err := h.Store.GetOrder(r.Context(), orderId)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve order: %v", err), http.StatusInternalServerError)
		}
		return
	}

	apiOrder := mapping.ToApiOrder(order)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiOrder); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListOrdersByUserId handles the logic for retrieving all orders a user
// participates in. Users can only list their own orders.
func (h *OrdersHandler) ListOrdersByUserId(w http.ResponseWriter, r *http.Request, userId string) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if claims.UserID != userId {
		http.Error(w, "Cannot list another user's orders", http.StatusForbidden)
		return
	}

	domainOrders, err := h.Store.ListOrdersByUserID(r.Context(), userId)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve orders: %v", err), http.StatusInternalServerError)
		return
	}

	apiOrders := make([]*api.Order, len(domainOrders))
	for i, order := range domainOrders {
		apiOrders[i] = mapping.ToApiOrder(&order)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiOrders); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// publishStatus pushes a status_changed event to the order's tracking topic.
// Delivery is best effort; the status change is already durable.
func (h *OrdersHandler) publishStatus(r *http.Request, order *models.Order) {
	if h.Publisher == nil {
		return
	}
	h.Publisher.Publish(r.Context(), realtime.OrderTopic(order.Id), realtime.Event{
		Kind: realtime.EventStatusChanged,
		Payload: realtime.StatusChangedPayload{
			OrderID:    order.Id,
			Status:     string(order.Status),
			ProviderID: order.ProviderId,
		},
	})
}
