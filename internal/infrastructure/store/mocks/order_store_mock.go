package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/example/ec-order-service/internal/domain/order"
)

// MockOrderStore is an in-memory implementation of OrderStoreInterface for testing
type MockOrderStore struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*order.Order

	// For tracking calls in tests
	InsertCalls []*order.Order
	UpdateCalls []*order.Order

	// Errors to inject
	InsertErr error
	UpdateErr error
	FindErr   error
}

// NewMockOrderStore creates a new MockOrderStore
func NewMockOrderStore() *MockOrderStore {
	return &MockOrderStore{
		orders: make(map[uuid.UUID]*order.Order),
	}
}

// Insert stores an order
func (m *MockOrderStore) Insert(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InsertCalls = append(m.InsertCalls, o)
	if m.InsertErr != nil {
		return m.InsertErr
	}

	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

// FindByID retrieves an order by id, nil when absent
func (m *MockOrderStore) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindErr != nil {
		return nil, m.FindErr
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

// FindByIDForUser retrieves an order owned by the user, nil when absent or foreign
func (m *MockOrderStore) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*order.Order, error) {
	o, err := m.FindByID(ctx, id)
	if err != nil || o == nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, nil
	}
	return o, nil
}

// FindByNumberForUser retrieves an order by its number, scoped to the user
func (m *MockOrderStore) FindByNumberForUser(ctx context.Context, orderNumber string, userID uuid.UUID) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, o := range m.orders {
		if o.OrderNumber == orderNumber && o.UserID == userID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

// ListByUser retrieves all orders for a user, newest first
func (m *MockOrderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindErr != nil {
		return nil, m.FindErr
	}
	var orders []*order.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			cp := *o
			orders = append(orders, &cp)
		}
	}
	for i := 0; i < len(orders); i++ {
		for j := i + 1; j < len(orders); j++ {
			if orders[j].CreatedAt.After(orders[i].CreatedAt) {
				orders[i], orders[j] = orders[j], orders[i]
			}
		}
	}
	return orders, nil
}

// Update overwrites a stored order
func (m *MockOrderStore) Update(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls = append(m.UpdateCalls, o)
	if m.UpdateErr != nil {
		return m.UpdateErr
	}

	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

// SetData seeds an order directly for testing
func (m *MockOrderStore) SetData(o *order.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.orders[o.ID] = &cp
}

// GetData reads a stored order directly for testing
func (m *MockOrderStore) GetData(id uuid.UUID) (*order.Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, false
	}
	cp := *o
	return &cp, true
}
