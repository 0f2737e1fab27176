package storage

import (
	"context"

	"github.com/casafix/home-services-backend/pkg/models"
)

// OrderReader defines the interface for reading order data.
type OrderReader interface {
	// GetOrder retrieves an order by its ID.
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)

	// ListOrdersByUserID retrieves all orders a user participates in, as customer or provider.
	ListOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error)
}

// OrderManager defines the interface for creating and advancing orders.
// This is suitable for components like the main API service.
type OrderManager interface {
	// CreateOrder creates a new pending order and returns the created order.
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)

	// AcceptOrder assigns a provider to a pending order. At most one provider
	// can ever win the claim.
	AcceptOrder(ctx context.Context, orderID, providerID string) (*models.Order, error)

	// UpdateOrderStatus moves an order to the given status if the lifecycle allows it.
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error)
}

// OrderStore combines the reader and manager interfaces.
type OrderStore interface {
	OrderReader
	OrderManager
}
