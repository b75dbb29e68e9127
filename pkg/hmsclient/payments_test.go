package hmsclient

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func billingWithLedger(amount, paid, remaining string) *Billing {
	due := decimal.RequireFromString(remaining)
	return &Billing{
		Amount:       decimal.RequireFromString(amount),
		PaidTotal:    decimal.RequireFromString(paid),
		RemainingDue: &due,
		Currency:     CurrencyCDF,
	}
}

func TestPaymentViewReadsBackendFigures(t *testing.T) {
	view := PaymentView(billingWithLedger("100", "40", "60"))

	assert.True(t, view.RemainingDue.Equal(decimal.RequireFromString("60")))
	assert.True(t, view.PaidTotal.Equal(decimal.RequireFromString("40")))
	assert.False(t, view.Settled())
}

func TestPaymentViewFallsBackToAmount(t *testing.T) {
	billing := &Billing{
		Amount:   decimal.RequireFromString("75"),
		Currency: CurrencyUSD,
	}
	view := PaymentView(billing)

	assert.True(t, view.RemainingDue.Equal(billing.Amount))
	assert.False(t, view.Settled())
}

func TestSettledAtZeroOrBelow(t *testing.T) {
	assert.True(t, PaymentView(billingWithLedger("100", "100", "0")).Settled())
	assert.True(t, PaymentView(billingWithLedger("100", "120", "-20")).Settled())
	assert.False(t, PaymentView(billingWithLedger("100", "99", "1")).Settled())
}

func TestNewPaymentFormPrefillsRemainingDue(t *testing.T) {
	view := PaymentView(billingWithLedger("100", "40", "60"))
	form := NewPaymentForm(view)

	assert.True(t, form.Amount.Equal(decimal.RequireFromString("60")))
	assert.Equal(t, CurrencyCDF, form.Currency)

	req := form.Request()
	assert.True(t, req.Amount.Equal(form.Amount))
}
