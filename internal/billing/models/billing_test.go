package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestComputeTotal(t *testing.T) {
	it := BillingItem{Quantity: 2, UnitPrice: d("1500.50")}
	it.ComputeTotal()
	assert.True(t, it.Total.Equal(d("3001.00")), "got %s", it.Total)
}

func TestComputeTotalWithDiscount(t *testing.T) {
	it := BillingItem{Quantity: 3, UnitPrice: d("100"), Discount: d("50")}
	it.ComputeTotal()
	assert.True(t, it.Total.Equal(d("250")), "got %s", it.Total)
}

func TestComputeTotalFlooredAtZero(t *testing.T) {
	it := BillingItem{Quantity: 1, UnitPrice: d("20"), Discount: d("100")}
	it.ComputeTotal()
	assert.True(t, it.Total.IsZero(), "got %s", it.Total)
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, ValidCurrency("CDF"))
	assert.True(t, ValidCurrency("USD"))
	assert.False(t, ValidCurrency("EUR"))
	assert.False(t, ValidCurrency("cdf"))
}
