package hmsclient

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Composer builds invoice drafts from catalog selections. It keeps the last
// used currency so an empty selection composes in the same currency as the
// previous draft.
type Composer struct {
	defaultCurrency string
}

func NewComposer() *Composer {
	return &Composer{defaultCurrency: CurrencyCDF}
}

// Compose rebuilds the draft from scratch on every call: one line per
// selected act with quantity 1 at the act's price, amount = sum of line
// totals, description = act names joined with "; ". The draft currency is
// the first selected act's, or the sticky default when nothing is selected.
// Re-selection replaces the previous draft, it never merges.
func (cp *Composer) Compose(patient string, selected []Acte) InvoiceDraft {
	draft := InvoiceDraft{
		Patient:  patient,
		Amount:   decimal.Zero,
		Currency: cp.defaultCurrency,
	}

	var names []string
	for _, acte := range selected {
		item := DraftItem{
			Acte:        acte.ID.String(),
			Description: acte.Name,
			Quantity:    1,
			UnitPrice:   acte.Amount,
			Currency:    acte.Currency,
		}
		draft.Items = append(draft.Items, item)
		draft.Amount = draft.Amount.Add(acte.Amount)
		names = append(names, acte.Name)
	}

	if len(selected) > 0 && selected[0].Currency != "" {
		draft.Currency = selected[0].Currency
		cp.defaultCurrency = draft.Currency
	}
	draft.Description = strings.Join(names, "; ")
	return draft
}
