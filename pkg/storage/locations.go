package storage

import (
	"context"

	"github.com/casafix/home-services-backend/pkg/models"
)

// LocationStore defines the interface for provider location tracking.
// Only the most recent ping per order is kept.
type LocationStore interface {
	// PutLocation records the provider's latest position for an order.
	PutLocation(ctx context.Context, ping *models.LocationPing) error

	// GetLatestLocation retrieves the most recent ping for an order.
	GetLatestLocation(ctx context.Context, orderID string) (*models.LocationPing, error)
}
