package dynamodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/casafix/home-services-backend/pkg/models"
	"github.com/google/uuid"
)

// CreateOrder persists a new order in the PENDING state.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	// Complete the order object with server-side details.
	now := time.Now()
	order.Id = uuid.New().String()
	order.Status = models.PENDING
	order.Version = 1
	order.CreatedAt = now
	order.UpdatedAt = now

	slog.Log(ctx, slog.LevelDebug, "creating order", "order", order)

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.OrdersTableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put order: %w", err)
	}

	return order, nil
}
