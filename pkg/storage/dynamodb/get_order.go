package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/casafix/home-services-backend/pkg/models"
	"github.com/casafix/home-services-backend/pkg/storage"
)

// GetOrder retrieves an order from DynamoDB by its ID.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": orderID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: &s.OrdersTableName,
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get order from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, storage.ErrOrderNotFound)
	}

	var order models.Order
	if err := attributevalue.UnmarshalMap(result.Item, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}

	return &order, nil
}
