package hmsclient

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func acte(name string, amount string, currency string) Acte {
	return Acte{
		ID:       uuid.New(),
		Name:     name,
		Amount:   decimal.RequireFromString(amount),
		Currency: currency,
		Active:   true,
	}
}

func TestComposeSumsSelectedActs(t *testing.T) {
	cp := NewComposer()
	consultation := acte("Consultation", "50", CurrencyUSD)
	xray := acte("X-ray", "30", CurrencyUSD)

	draft := cp.Compose("patient-1", []Acte{consultation, xray})

	assert.Len(t, draft.Items, 2)
	assert.True(t, draft.Amount.Equal(decimal.RequireFromString("80")))
	assert.Equal(t, "Consultation; X-ray", draft.Description)
	assert.Equal(t, CurrencyUSD, draft.Currency)
	for _, item := range draft.Items {
		assert.Equal(t, 1, item.Quantity)
	}
	assert.True(t, draft.Items[0].UnitPrice.Equal(consultation.Amount))
}

func TestComposeEmptySelection(t *testing.T) {
	cp := NewComposer()
	draft := cp.Compose("patient-1", nil)

	assert.True(t, draft.Amount.IsZero())
	assert.Empty(t, draft.Description)
	assert.Empty(t, draft.Items)
	assert.Equal(t, CurrencyCDF, draft.Currency)
}

func TestComposeReplacesPreviousDraft(t *testing.T) {
	cp := NewComposer()
	first := acte("Consultation", "50", CurrencyCDF)
	second := acte("Lab panel", "120", CurrencyCDF)

	cp.Compose("patient-1", []Acte{first})
	draft := cp.Compose("patient-1", []Acte{second})

	assert.Len(t, draft.Items, 1)
	assert.Equal(t, "Lab panel", draft.Description)
	assert.True(t, draft.Amount.Equal(second.Amount))
}

func TestComposeCurrencyIsSticky(t *testing.T) {
	cp := NewComposer()
	usd := acte("Consultation", "50", CurrencyUSD)

	cp.Compose("patient-1", []Acte{usd})
	draft := cp.Compose("patient-1", nil)

	assert.Equal(t, CurrencyUSD, draft.Currency)
}
