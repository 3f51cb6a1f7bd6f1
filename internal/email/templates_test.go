package email

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildOrderConfirmationBody(t *testing.T) {
	items := []OrderItem{
		{
			ProductID: uuid.New(),
			Name:      "Mechanical Keyboard",
			Quantity:  2,
			Price:     decimal.NewFromFloat(50.00),
		},
	}

	body := BuildOrderConfirmationBody("ORD-20240115103000-1234", decimal.NewFromFloat(120.00), items)

	assert.Contains(t, body, "ORD-20240115103000-1234")
	assert.Contains(t, body, "Mechanical Keyboard")
	assert.Contains(t, body, "$50.00")
	assert.Contains(t, body, "$100.00") // line total
	assert.Contains(t, body, "$120.00") // order total
}

func TestBuildOrderConfirmationBody_MissingNameFallsBackToProductID(t *testing.T) {
	productID := uuid.New()
	items := []OrderItem{
		{
			ProductID: productID,
			Quantity:  1,
			Price:     decimal.NewFromFloat(10.00),
		},
	}

	body := BuildOrderConfirmationBody("ORD-20240115103000-5678", decimal.NewFromFloat(21.00), items)

	assert.Contains(t, body, productID.String())
}
