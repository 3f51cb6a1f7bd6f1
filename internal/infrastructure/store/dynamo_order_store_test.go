package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ec-order-service/internal/domain/order"
)

// fakeDynamoClient records calls and returns canned responses.
type fakeDynamoClient struct {
	TransactCalls []*dynamodb.TransactWriteItemsInput
	TransactErr   error

	GetItemOut *dynamodb.GetItemOutput
}

func (f *fakeDynamoClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.GetItemOut != nil {
		return f.GetItemOut, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamoClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return &dynamodb.QueryOutput{}, nil
}

func (f *fakeDynamoClient) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.TransactCalls = append(f.TransactCalls, params)
	if f.TransactErr != nil {
		return nil, f.TransactErr
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func testOrder(userID uuid.UUID) *order.Order {
	return &order.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderNumber: order.GenerateOrderNumber(),
		Status:      order.StatusPending,
		Subtotal:    decimal.NewFromFloat(100.00),
		TotalAmount: decimal.NewFromFloat(120.00),
		CreatedAt:   time.Now().UTC(),
	}
}

func TestDynamoOrderStore_Insert_ClaimsOrderNumber(t *testing.T) {
	fake := &fakeDynamoClient{}
	s := &DynamoOrderStore{client: fake, tableName: "orders"}
	o := testOrder(uuid.New())

	err := s.Insert(context.Background(), o)
	require.NoError(t, err)

	require.Len(t, fake.TransactCalls, 1)
	items := fake.TransactCalls[0].TransactItems
	require.Len(t, items, 2)

	// Both writes are conditional on the key being free
	require.NotNil(t, items[0].Put)
	assert.Equal(t, "attribute_not_exists(id)", *items[0].Put.ConditionExpression)
	require.NotNil(t, items[1].Put)
	assert.Equal(t, "attribute_not_exists(id)", *items[1].Put.ConditionExpression)

	// The second put claims the order number
	lockID, ok := items[1].Put.Item["id"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "ordernumber#"+o.OrderNumber, lockID.Value)
}

func TestDynamoOrderStore_Insert_NumberCollision(t *testing.T) {
	fake := &fakeDynamoClient{
		TransactErr: &types.TransactionCanceledException{},
	}
	s := &DynamoOrderStore{client: fake, tableName: "orders"}

	err := s.Insert(context.Background(), testOrder(uuid.New()))

	// A claimed number cancels the transaction and surfaces to the caller
	require.Error(t, err)
	var cancelled *types.TransactionCanceledException
	assert.ErrorAs(t, err, &cancelled)
}

func TestDynamoOrderStore_FindByIDForUser_ForeignOrderLooksMissing(t *testing.T) {
	owner := uuid.New()
	o := testOrder(owner)

	s := &DynamoOrderStore{client: &fakeDynamoClient{}, tableName: "orders"}
	item, err := s.toItem(o)
	require.NoError(t, err)

	s.client = &fakeDynamoClient{GetItemOut: &dynamodb.GetItemOutput{Item: item}}

	got, err := s.FindByIDForUser(context.Background(), o.ID, owner)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, o.ID, got.ID)

	got, err = s.FindByIDForUser(context.Background(), o.ID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDynamoOrderStore_Insert_TransportErrorPropagates(t *testing.T) {
	fake := &fakeDynamoClient{TransactErr: errors.New("throttled")}
	s := &DynamoOrderStore{client: fake, tableName: "orders"}

	err := s.Insert(context.Background(), testOrder(uuid.New()))

	require.Error(t, err)
	assert.ErrorIs(t, err, fake.TransactErr)
}
