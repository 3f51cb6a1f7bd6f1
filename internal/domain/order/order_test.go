package order

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{
	StatusPending, StatusConfirmed, StatusProcessing,
	StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded,
}

func TestStatus_CanTransitionTo_AllowedPairs(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:    {StatusConfirmed, StatusCancelled},
		StatusConfirmed:  {StatusProcessing, StatusCancelled},
		StatusProcessing: {StatusShipped, StatusCancelled},
		StatusShipped:    {StatusDelivered},
		StatusDelivered:  {StatusRefunded},
	}

	for from, targets := range allowed {
		for _, to := range targets {
			assert.True(t, from.CanTransitionTo(to), "%s -> %s should be allowed", from, to)
		}
	}
}

func TestStatus_CanTransitionTo_RejectsEverythingElse(t *testing.T) {
	allowed := map[Status]map[Status]bool{
		StatusPending:    {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed:  {StatusProcessing: true, StatusCancelled: true},
		StatusProcessing: {StatusShipped: true, StatusCancelled: true},
		StatusShipped:    {StatusDelivered: true},
		StatusDelivered:  {StatusRefunded: true},
		StatusCancelled:  {},
		StatusRefunded:   {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if allowed[from][to] {
				continue
			}
			assert.False(t, from.CanTransitionTo(to), "%s -> %s should be rejected", from, to)
		}
	}
}

func TestStatus_CanTransitionTo_NoSelfTransitions(t *testing.T) {
	for _, s := range allStatuses {
		assert.False(t, s.CanTransitionTo(s), "%s -> %s should be rejected", s, s)
	}
}

func TestStatus_CanTransitionTo_UnknownStatus(t *testing.T) {
	assert.False(t, Status("archived").CanTransitionTo(StatusPending))
	assert.False(t, StatusPending.CanTransitionTo(Status("archived")))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("paid")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestComputeTotals_Domestic(t *testing.T) {
	totals := ComputeTotals(decimal.NewFromFloat(100.00), decimal.Zero, "USA")

	assert.True(t, totals.Tax.Equal(decimal.NewFromFloat(10.00)), "tax = %s", totals.Tax)
	assert.True(t, totals.ShippingCost.Equal(decimal.NewFromFloat(10.00)))
	assert.True(t, totals.TotalAmount.Equal(decimal.NewFromFloat(120.00)), "total = %s", totals.TotalAmount)
}

func TestComputeTotals_International(t *testing.T) {
	totals := ComputeTotals(decimal.NewFromFloat(100.00), decimal.Zero, "France")

	assert.True(t, totals.ShippingCost.Equal(decimal.NewFromFloat(25.00)))
	assert.True(t, totals.TotalAmount.Equal(decimal.NewFromFloat(135.00)), "total = %s", totals.TotalAmount)
}

func TestComputeTotals_CountryCaseInsensitive(t *testing.T) {
	totals := ComputeTotals(decimal.NewFromFloat(100.00), decimal.Zero, "usa")
	assert.True(t, totals.ShippingCost.Equal(decimal.NewFromFloat(10.00)))
}

func TestComputeTotals_WithDiscount(t *testing.T) {
	totals := ComputeTotals(decimal.NewFromFloat(100.00), decimal.NewFromFloat(15.00), "USA")

	// 100.00 + 10.00 + 10.00 - 15.00
	assert.True(t, totals.TotalAmount.Equal(decimal.NewFromFloat(105.00)), "total = %s", totals.TotalAmount)
}

func TestGenerateOrderNumber_Format(t *testing.T) {
	re := regexp.MustCompile(`^ORD-\d{14}-\d{4}$`)
	for i := 0; i < 100; i++ {
		n := GenerateOrderNumber()
		assert.Regexp(t, re, n)
	}
}
