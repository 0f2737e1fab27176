package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/casafix/home-services-backend/pkg/storage"
)

// DynamoDBAPI defines the subset of the DynamoDB client used by the store.
// It exists so tests can substitute a mock for the real client.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store implements the ApiStore interface using AWS DynamoDB.
type Store struct {
	Client             DynamoDBAPI
	OrdersTableName    string
	MessagesTableName  string
	LocationsTableName string
}

// New creates a new Store.
func New(client DynamoDBAPI, ordersTable, messagesTable, locationsTable string) *Store {
	return &Store{
		Client:             client,
		OrdersTableName:    ordersTable,
		MessagesTableName:  messagesTable,
		LocationsTableName: locationsTable,
	}
}

// Make sure we conform to the interface
var _ storage.ApiStore = (*Store)(nil)
