package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/casafix/home-services-backend/pkg/models"
	"github.com/casafix/home-services-backend/pkg/storage"
)

// AcceptOrder atomically assigns a provider to a pending order.
// The conditional write guarantees that when two providers race for the same
// order, exactly one of them wins the claim.
func (s *Store) AcceptOrder(ctx context.Context, orderID, providerID string) (*models.Order, error) {
	nowAV, err := attributevalue.Marshal(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.OrdersTableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:    aws.String("SET #status = :accepted, provider_id = :provider, updated_at = :now, version = version + :inc"),
		ConditionExpression: aws.String("attribute_exists(id) AND #status = :pending AND attribute_not_exists(provider_id)"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":accepted": &types.AttributeValueMemberS{Value: string(models.ACCEPTED)},
			":pending":  &types.AttributeValueMemberS{Value: string(models.PENDING)},
			":provider": &types.AttributeValueMemberS{Value: providerID},
			":now":      nowAV,
			":inc":      &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			// The order is missing, already claimed, or no longer pending.
			return nil, fmt.Errorf("order %s: %w", orderID, storage.ErrOrderNotAcceptable)
		}
		return nil, fmt.Errorf("failed to accept order: %w", err)
	}

	var order models.Order
	if err := attributevalue.UnmarshalMap(result.Attributes, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal accepted order: %w", err)
	}

	return &order, nil
}
