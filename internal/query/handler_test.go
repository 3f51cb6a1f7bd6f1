package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ec-order-service/internal/domain/order"
	"github.com/example/ec-order-service/internal/infrastructure/store/mocks"
)

func seedOrder(s *mocks.MockOrderStore, userID uuid.UUID, createdAt time.Time) *order.Order {
	o := &order.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderNumber: order.GenerateOrderNumber(),
		Status:      order.StatusPending,
		CreatedAt:   createdAt,
	}
	s.SetData(o)
	return o
}

func TestHandler_GetOrderForUser(t *testing.T) {
	orderStore := mocks.NewMockOrderStore()
	handler := NewHandler(orderStore)
	ctx := context.Background()

	userID := uuid.New()
	o := seedOrder(orderStore, userID, time.Now())

	got, err := handler.GetOrderForUser(ctx, o.ID, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, o.ID, got.ID)
}

func TestHandler_GetOrderForUser_ForeignOrderLooksMissing(t *testing.T) {
	orderStore := mocks.NewMockOrderStore()
	handler := NewHandler(orderStore)
	ctx := context.Background()

	o := seedOrder(orderStore, uuid.New(), time.Now())

	got, err := handler.GetOrderForUser(ctx, o.ID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = handler.GetOrderForUser(ctx, uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHandler_GetOrderForUser_StoreError(t *testing.T) {
	orderStore := mocks.NewMockOrderStore()
	handler := NewHandler(orderStore)

	userID := uuid.New()
	o := seedOrder(orderStore, userID, time.Now())
	orderStore.FindErr = errors.New("connection refused")

	got, err := handler.GetOrderForUser(context.Background(), o.ID, userID)

	// A failing store is an error, not a missing order
	require.Error(t, err)
	assert.ErrorIs(t, err, orderStore.FindErr)
	assert.Nil(t, got)
}

func TestHandler_GetOrderByNumberForUser(t *testing.T) {
	orderStore := mocks.NewMockOrderStore()
	handler := NewHandler(orderStore)
	ctx := context.Background()

	userID := uuid.New()
	o := seedOrder(orderStore, userID, time.Now())

	got, err := handler.GetOrderByNumberForUser(ctx, o.OrderNumber, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, o.ID, got.ID)

	got, err = handler.GetOrderByNumberForUser(ctx, o.OrderNumber, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHandler_GetOrderByNumberForUser_StoreError(t *testing.T) {
	orderStore := mocks.NewMockOrderStore()
	handler := NewHandler(orderStore)
	orderStore.FindErr = errors.New("connection refused")

	got, err := handler.GetOrderByNumberForUser(context.Background(), "ORD-20240115103000-1234", uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, orderStore.FindErr)
	assert.Nil(t, got)
}

func TestHandler_ListOrdersForUser_NewestFirst(t *testing.T) {
	orderStore := mocks.NewMockOrderStore()
	handler := NewHandler(orderStore)
	ctx := context.Background()

	userID := uuid.New()
	older := seedOrder(orderStore, userID, time.Now().Add(-time.Hour))
	newer := seedOrder(orderStore, userID, time.Now())
	seedOrder(orderStore, uuid.New(), time.Now()) // another user's order

	orders, err := handler.ListOrdersForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
}

func TestHandler_ListOrdersForUser_Empty(t *testing.T) {
	orderStore := mocks.NewMockOrderStore()
	handler := NewHandler(orderStore)

	orders, err := handler.ListOrdersForUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestHandler_ListOrdersForUser_StoreError(t *testing.T) {
	orderStore := mocks.NewMockOrderStore()
	handler := NewHandler(orderStore)
	orderStore.FindErr = errors.New("connection refused")

	orders, err := handler.ListOrdersForUser(context.Background(), uuid.New())

	// A failing store must not look like "no orders"
	require.Error(t, err)
	assert.ErrorIs(t, err, orderStore.FindErr)
	assert.Nil(t, orders)
}
