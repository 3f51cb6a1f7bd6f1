package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/example/ec-order-service/internal/domain/order"
)

// dynamoAPI is the subset of the DynamoDB client the store uses.
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// DynamoOrderStore stores orders in DynamoDB for the AWS deployment.
// The aggregate is kept as a JSON document alongside a few key attributes;
// per-user listing uses a GSI on (user_id, created_at) and order-number
// lookup uses a GSI on order_number.
type DynamoOrderStore struct {
	client    dynamoAPI
	tableName string
}

const (
	userIndexName   = "user_id-created_at-index"
	numberIndexName = "order_number-index"
)

// dynamoOrder represents the DynamoDB item structure
type dynamoOrder struct {
	ID          string `dynamodbav:"id"`
	UserID      string `dynamodbav:"user_id"`
	OrderNumber string `dynamodbav:"order_number"`
	Status      string `dynamodbav:"status"`
	CreatedAt   string `dynamodbav:"created_at"`
	Data        string `dynamodbav:"data"`
}

func NewDynamoOrderStore(client *dynamodb.Client, tableName string) *DynamoOrderStore {
	return &DynamoOrderStore{
		client:    client,
		tableName: tableName,
	}
}

func (s *DynamoOrderStore) toItem(o *order.Order) (map[string]types.AttributeValue, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return attributevalue.MarshalMap(dynamoOrder{
		ID:          o.ID.String(),
		UserID:      o.UserID.String(),
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt.UTC().Format(time.RFC3339Nano),
		Data:        string(data),
	})
}

func fromItem(item map[string]types.AttributeValue) (*order.Order, error) {
	var d dynamoOrder
	if err := attributevalue.UnmarshalMap(item, &d); err != nil {
		return nil, err
	}
	var o order.Order
	if err := json.Unmarshal([]byte(d.Data), &o); err != nil {
		return nil, fmt.Errorf("unmarshal order %s: %w", d.ID, err)
	}
	return &o, nil
}

// orderNumberLockID keys the item that claims an order number. Lock items
// carry neither user_id nor order_number attributes, so they never surface
// in either GSI.
func orderNumberLockID(orderNumber string) string {
	return "ordernumber#" + orderNumber
}

// Insert writes the order and claims its order number in one transaction.
// The number-index GSI cannot enforce uniqueness, so a colliding number
// cancels the whole transaction and surfaces as an insert error.
func (s *DynamoOrderStore) Insert(ctx context.Context, o *order.Order) error {
	item, err := s.toItem(o)
	if err != nil {
		return err
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.tableName),
					Item:                item,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(s.tableName),
					Item: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: orderNumberLockID(o.OrderNumber)},
					},
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("insert order %s: %w", o.ID, err)
	}
	return nil
}

func (s *DynamoOrderStore) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id.String()},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	if out.Item == nil {
		return nil, nil
	}
	return fromItem(out.Item)
}

func (s *DynamoOrderStore) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*order.Order, error) {
	o, err := s.FindByID(ctx, id)
	if err != nil || o == nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, nil
	}
	return o, nil
}

func (s *DynamoOrderStore) FindByNumberForUser(ctx context.Context, orderNumber string, userID uuid.UUID) (*order.Order, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String(numberIndexName),
		KeyConditionExpression: aws.String("order_number = :n"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":n": &types.AttributeValueMemberS{Value: orderNumber},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("query order number %s: %w", orderNumber, err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	o, err := fromItem(out.Items[0])
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, nil
	}
	return o, nil
}

func (s *DynamoOrderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String(userIndexName),
		KeyConditionExpression: aws.String("user_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID.String()},
		},
		ScanIndexForward: aws.Bool(false), // newest first
	})
	if err != nil {
		return nil, fmt.Errorf("list orders for user %s: %w", userID, err)
	}

	orders := make([]*order.Order, 0, len(out.Items))
	for _, item := range out.Items {
		o, err := fromItem(item)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *DynamoOrderStore) Update(ctx context.Context, o *order.Order) error {
	item, err := s.toItem(o)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("update order %s: %w", o.ID, err)
	}
	return nil
}
