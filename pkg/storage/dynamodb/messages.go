package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/casafix/home-services-backend/pkg/models"
	"github.com/google/uuid"
)

// CreateMessage persists a new chat message.
// The messages table is keyed by order_id with created_at as the sort key, so
// a thread reads back in chronological order without an index.
func (s *Store) CreateMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {
	msg.Id = uuid.New().String()
	msg.CreatedAt = time.Now()

	item, err := attributevalue.MarshalMap(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.MessagesTableName),
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put message: %w", err)
	}

	return msg, nil
}

// ListMessagesByOrderID retrieves the full chat thread for an order.
func (s *Store) ListMessagesByOrderID(ctx context.Context, orderID string) ([]models.ChatMessage, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.MessagesTableName),
		KeyConditionExpression: aws.String("order_id = :orderID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":orderID": &types.AttributeValueMemberS{Value: orderID},
		},
		ScanIndexForward: aws.Bool(true), // Oldest first.
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}

	var messages []models.ChatMessage
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}

	return messages, nil
}
