package order

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	taxRate = decimal.NewFromFloat(0.10)

	// Flat two-tier shipping: one rate for the domestic country,
	// one for everywhere else.
	domesticCountry       = "USA"
	domesticShipping      = decimal.NewFromFloat(10.00)
	internationalShipping = decimal.NewFromFloat(25.00)
)

type Totals struct {
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	ShippingCost decimal.Decimal
	Discount     decimal.Decimal
	TotalAmount  decimal.Decimal
}

// ShippingCost returns the flat shipping fee for a destination country.
func ShippingCost(country string) decimal.Decimal {
	if strings.ToUpper(country) == domesticCountry {
		return domesticShipping
	}
	return internationalShipping
}

// ComputeTotals prices an order at creation time:
// total = subtotal + 10% tax + shipping - discount.
func ComputeTotals(subtotal, discount decimal.Decimal, country string) Totals {
	tax := subtotal.Mul(taxRate)
	shipping := ShippingCost(country)
	return Totals{
		Subtotal:     subtotal,
		Tax:          tax,
		ShippingCost: shipping,
		Discount:     discount,
		TotalAmount:  subtotal.Add(tax).Add(shipping).Sub(discount),
	}
}
