package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/casafix/home-services-backend/pkg/models"
)

const (
	customerIDIndex = "customer_id-index"
	providerIDIndex = "provider_id-index"
)

// ListOrdersByUserID retrieves all orders a user participates in, whether as
// the customer who booked them or the provider who accepted them.
func (s *Store) ListOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	asCustomer, err := s.queryOrdersByIndex(ctx, customerIDIndex, "customer_id", userID)
	if err != nil {
		return nil, err
	}

	asProvider, err := s.queryOrdersByIndex(ctx, providerIDIndex, "provider_id", userID)
	if err != nil {
		return nil, err
	}

	return append(asCustomer, asProvider...), nil
}

func (s *Store) queryOrdersByIndex(ctx context.Context, indexName, keyAttr, userID string) ([]models.Order, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.OrdersTableName),
		IndexName:              aws.String(indexName),
		KeyConditionExpression: aws.String(keyAttr + " = :userID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberS{Value: userID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by %s: %w", keyAttr, err)
	}

	var orders []models.Order
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &orders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal orders: %w", err)
	}

	return orders, nil
}
