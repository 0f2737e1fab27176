package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/casafix/home-services-backend/pkg/models"
	"github.com/casafix/home-services-backend/pkg/storage"
)

// PutLocation records the provider's latest position for an order.
// The table is keyed by order_id only, so each write overwrites the previous
// ping; this layer never keeps a location history.
func (s *Store) PutLocation(ctx context.Context, ping *models.LocationPing) error {
	ping.RecordedAt = time.Now()

	item, err := attributevalue.MarshalMap(ping)
	if err != nil {
		return fmt.Errorf("failed to marshal location ping: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.LocationsTableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put location ping: %w", err)
	}

	return nil
}

// GetLatestLocation retrieves the most recent ping for an order.
func (s *Store) GetLatestLocation(ctx context.Context, orderID string) (*models.LocationPing, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"order_id": orderID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.LocationsTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get location from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, storage.ErrNoLocation)
	}

	var ping models.LocationPing
	if err := attributevalue.UnmarshalMap(result.Item, &ping); err != nil {
		return nil, fmt.Errorf("failed to unmarshal location ping: %w", err)
	}

	return &ping, nil
}
