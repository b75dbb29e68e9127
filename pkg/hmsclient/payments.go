package hmsclient

import "github.com/shopspring/decimal"

// LedgerView is the read-only payment state of an invoice. All figures come
// from the backend response; when remaining_due is absent (older backend
// responses) it falls back to the full amount.
type LedgerView struct {
	Amount       decimal.Decimal
	PaidTotal    decimal.Decimal
	RemainingDue decimal.Decimal
	Currency     string
}

// PaymentView derives the ledger view from a backend invoice.
func PaymentView(billing *Billing) LedgerView {
	view := LedgerView{
		Amount:    billing.Amount,
		PaidTotal: billing.PaidTotal,
		Currency:  billing.Currency,
	}
	if billing.RemainingDue != nil {
		view.RemainingDue = *billing.RemainingDue
	} else {
		view.RemainingDue = billing.Amount
	}
	return view
}

// Settled reports whether the invoice is fully covered.
func (v LedgerView) Settled() bool {
	return v.RemainingDue.Sign() <= 0
}

// PaymentForm is the add-payment draft. The form survives failed
// submissions so the operator can retry without retyping.
type PaymentForm struct {
	Amount   decimal.Decimal
	Currency string
	Method   string
}

// NewPaymentForm prefills the form with the remaining due.
func NewPaymentForm(view LedgerView) PaymentForm {
	return PaymentForm{
		Amount:   view.RemainingDue,
		Currency: view.Currency,
	}
}

// Request converts the form into the wire payload.
func (f PaymentForm) Request() AddPaymentRequest {
	return AddPaymentRequest{
		Amount:   f.Amount,
		Currency: f.Currency,
		Method:   f.Method,
	}
}
