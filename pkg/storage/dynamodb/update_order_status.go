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

// UpdateOrderStatus moves an order to the given status. It validates the
// transition against the current state, then applies it with an optimistic
// lock so a concurrent update cannot slip an order through an illegal path.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	// 1. Get the current state of the order.
	current, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// 2. Validate the transition.
	if !current.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("order %s: %s -> %s: %w", orderID, current.Status, status, storage.ErrInvalidStatusTransition)
	}

	nowAV, err := attributevalue.Marshal(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	// 3. Apply the update, conditioned on the state we validated against.
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.OrdersTableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:    aws.String("SET #status = :next_status, updated_at = :now, version = version + :inc"),
		ConditionExpression: aws.String("#status = :current_status AND version = :version"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":next_status":    &types.AttributeValueMemberS{Value: string(status)},
			":current_status": &types.AttributeValueMemberS{Value: string(current.Status)},
			":version":        &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", current.Version)},
			":now":            nowAV,
			":inc":            &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			// The order changed underneath us; the validated transition no longer holds.
			return nil, fmt.Errorf("order %s: concurrent update: %w", orderID, storage.ErrInvalidStatusTransition)
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	var order models.Order
	if err := attributevalue.UnmarshalMap(result.Attributes, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated order: %w", err)
	}

	return &order, nil
}
