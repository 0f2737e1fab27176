package storage

import (
	"context"

	"github.com/casafix/home-services-backend/pkg/models"
)

// MessageStore defines the interface for an order's chat thread.
type MessageStore interface {
	// CreateMessage persists a new chat message and returns it.
	CreateMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error)

	// ListMessagesByOrderID retrieves the full chat thread for an order in chronological order.
	ListMessagesByOrderID(ctx context.Context, orderID string) ([]models.ChatMessage, error)
}
