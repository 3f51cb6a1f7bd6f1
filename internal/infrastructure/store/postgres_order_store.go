package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/example/ec-order-service/internal/domain/order"
)

// PostgresOrderStore implements OrderStoreInterface using PostgreSQL.
// Line items and the embedded value objects are stored as JSONB columns, so
// an order is written with a single atomic statement.
type PostgresOrderStore struct {
	db *sql.DB
}

// NewPostgresOrderStore creates a new PostgreSQL-based order store
func NewPostgresOrderStore(db *sql.DB) *PostgresOrderStore {
	return &PostgresOrderStore{db: db}
}

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

const orderColumns = `id, user_id, order_number, status, items, subtotal, tax,
	shipping_cost, discount, total_amount, shipping_address, payment_info,
	coupon_code, created_at, updated_at`

func (s *PostgresOrderStore) Insert(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	addressJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return err
	}
	paymentJSON, err := json.Marshal(o.PaymentInfo)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, o.ID, o.UserID, o.OrderNumber, o.Status, itemsJSON,
		o.Subtotal, o.Tax, o.ShippingCost, o.Discount, o.TotalAmount,
		addressJSON, paymentJSON, nullString(o.CouponCode), o.CreatedAt, nullTime(o.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert order %s: %w", o.ID, err)
	}
	return nil
}

func (s *PostgresOrderStore) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE id = $1
	`, id)
	return scanOrder(row)
}

func (s *PostgresOrderStore) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*order.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2
	`, id, userID)
	return scanOrder(row)
}

func (s *PostgresOrderStore) FindByNumberForUser(ctx context.Context, orderNumber string, userID uuid.UUID) (*order.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE order_number = $1 AND user_id = $2
	`, orderNumber, userID)
	return scanOrder(row)
}

func (s *PostgresOrderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders for user %s: %w", userID, err)
	}
	defer rows.Close()

	var orders []*order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *PostgresOrderStore) Update(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	paymentJSON, err := json.Marshal(o.PaymentInfo)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE orders SET
			status = $2,
			items = $3,
			payment_info = $4,
			updated_at = $5
		WHERE id = $1
	`, o.ID, o.Status, itemsJSON, paymentJSON, nullTime(o.UpdatedAt))
	if err != nil {
		return fmt.Errorf("update order %s: %w", o.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*order.Order, error) {
	var o order.Order
	var itemsJSON, addressJSON, paymentJSON []byte
	var couponCode sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &itemsJSON,
		&o.Subtotal, &o.Tax, &o.ShippingCost, &o.Discount, &o.TotalAmount,
		&addressJSON, &paymentJSON, &couponCode, &o.CreatedAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("scan order items: %w", err)
	}
	if err := json.Unmarshal(addressJSON, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("scan shipping address: %w", err)
	}
	if err := json.Unmarshal(paymentJSON, &o.PaymentInfo); err != nil {
		return nil, fmt.Errorf("scan payment info: %w", err)
	}
	o.CouponCode = couponCode.String
	if updatedAt.Valid {
		t := updatedAt.Time
		o.UpdatedAt = &t
	}
	return &o, nil
}

// Helper functions
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
