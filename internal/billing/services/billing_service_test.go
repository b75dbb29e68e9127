package services

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkadima/hms-backend/internal/billing/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fakeResolve mimics the acte lookup: id, then code, then name, case
// insensitive.
func fakeResolve(actes ...models.Acte) func(string) (*models.Acte, error) {
	return func(ref string) (*models.Acte, error) {
		for i := range actes {
			a := actes[i]
			if a.ID.String() == ref || strings.EqualFold(a.Code, ref) || strings.EqualFold(a.Name, ref) {
				return &a, nil
			}
		}
		return nil, sql.ErrNoRows
	}
}

func catalogActe(code, name, amount, currency string) models.Acte {
	return models.Acte{
		ID:       uuid.New(),
		Code:     code,
		Name:     name,
		Amount:   d(amount),
		Currency: currency,
		Active:   true,
	}
}

func TestComposeItemsSnapshotsActePrice(t *testing.T) {
	consultation := catalogActe("CONS", "Consultation", "50", models.CurrencyCDF)
	resolve := fakeResolve(consultation)

	for _, ref := range []string{consultation.ID.String(), "cons", "consultation"} {
		lines, amount, err := composeItems([]models.BillingItemInput{{Acte: ref}}, models.CurrencyCDF, resolve)
		require.NoError(t, err)
		require.Len(t, lines, 1)

		line := lines[0]
		require.NotNil(t, line.Acte)
		assert.Equal(t, consultation.ID, *line.Acte)
		assert.Equal(t, "Consultation", line.Description)
		assert.Equal(t, 1, line.Quantity)
		assert.True(t, line.UnitPrice.Equal(d("50")))
		assert.Equal(t, models.CurrencyCDF, line.Currency)
		assert.True(t, line.Total.Equal(d("50")))
		assert.True(t, amount.Equal(d("50")))
	}
}

func TestComposeItemsAmountIsSumOfLineTotals(t *testing.T) {
	consultation := catalogActe("CONS", "Consultation", "50", models.CurrencyUSD)
	xray := catalogActe("XRAY", "X-ray", "30", models.CurrencyUSD)

	lines, amount, err := composeItems([]models.BillingItemInput{
		{Acte: "CONS"},
		{Acte: "XRAY", Quantity: 2},
	}, models.CurrencyCDF, fakeResolve(consultation, xray))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, lines[1].Total.Equal(d("60")))
	assert.True(t, amount.Equal(d("110")))
}

func TestComposeItemsDiscountClampsToZero(t *testing.T) {
	consultation := catalogActe("CONS", "Consultation", "50", models.CurrencyCDF)

	lines, amount, err := composeItems([]models.BillingItemInput{
		{Acte: "CONS", Discount: d("80")},
	}, models.CurrencyCDF, fakeResolve(consultation))
	require.NoError(t, err)
	assert.True(t, lines[0].Total.IsZero())
	assert.True(t, amount.IsZero())
}

func TestComposeItemsKeepsSubmittedPrice(t *testing.T) {
	consultation := catalogActe("CONS", "Consultation", "50", models.CurrencyCDF)

	lines, _, err := composeItems([]models.BillingItemInput{
		{Acte: "CONS", UnitPrice: d("30")},
	}, models.CurrencyCDF, fakeResolve(consultation))
	require.NoError(t, err)
	assert.True(t, lines[0].UnitPrice.Equal(d("30")))
	assert.True(t, lines[0].Total.Equal(d("30")))
}

func TestComposeItemsUnknownActeFallsBack(t *testing.T) {
	lines, amount, err := composeItems([]models.BillingItemInput{
		{Acte: "inconnu", Description: "Divers", UnitPrice: d("10")},
	}, models.CurrencyUSD, fakeResolve())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Nil(t, lines[0].Acte)
	assert.Equal(t, "Divers", lines[0].Description)
	assert.Equal(t, models.CurrencyUSD, lines[0].Currency)
	assert.True(t, amount.Equal(d("10")))
}

func billingColumnNames() []string {
	return []string{"id", "tenant", "patient", "appointment", "amount", "currency",
		"description", "issued_at", "paid_at", "patient_display", "paid"}
}

func emptyItemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "billing", "acte", "name", "description",
		"quantity", "unit_price", "currency", "discount", "total"})
}

func emptyPaymentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "billing", "amount", "currency", "method", "paid_at"})
}

func expectGetBilling(mock sqlmock.Sqlmock, id uuid.UUID, amount, paid string, paidAt interface{}) {
	rows := sqlmock.NewRows(billingColumnNames()).
		AddRow(id.String(), uuid.New().String(), uuid.New().String(), nil, amount,
			models.CurrencyCDF, nil, time.Now(), paidAt, "Kasongo Amina", paid)
	mock.ExpectQuery(`FROM Billing b`).WillReturnRows(rows)
	mock.ExpectQuery(`FROM Billing_Item`).WillReturnRows(emptyItemRows())
	mock.ExpectQuery(`SELECT id, billing, amount, currency, method, paid_at`).WillReturnRows(emptyPaymentRows())
}

func TestAddPaymentRejectsNonPositiveAmount(t *testing.T) {
	svc := &BillingService{}
	for _, amount := range []string{"0", "-5"} {
		_, err := svc.AddPayment(uuid.New(), models.AddPaymentRequest{Amount: d(amount)})
		assert.Equal(t, ErrInvalidAmount, err)
	}
}

// The stamping decision must use the ledger sum taken after the insert: a
// payment recorded in another session between the read and the insert would
// otherwise leave a fully covered invoice without paid_at forever, since
// zero-amount submissions are rejected.
func TestAddPaymentStampsPaidFromLedgerSum(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	svc := &BillingService{DB: db, Actes: NewActeService(db)}

	id := uuid.New()
	// invoice of 100 with 50 already paid at read time
	expectGetBilling(mock, id, "100", "50", nil)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO Billing_Payment`).WillReturnResult(sqlmock.NewResult(1, 1))
	// another 25 landed concurrently: ledger now sums to 100
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM Billing_Payment`).
		WillReturnRows(sqlmock.NewRows([]string{"paid"}).AddRow("100"))
	mock.ExpectExec(`UPDATE Billing SET paid_at`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectGetBilling(mock, id, "100", "100", time.Now())

	billing, err := svc.AddPayment(id, models.AddPaymentRequest{Amount: d("25")})
	require.NoError(t, err)
	require.NotNil(t, billing.PaidAt)
	assert.True(t, billing.RemainingDue.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaidStampsOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	svc := &BillingService{DB: db, Actes: NewActeService(db)}

	id := uuid.New()
	expectGetBilling(mock, id, "100", "0", nil)
	mock.ExpectExec(`UPDATE Billing SET paid_at`).WillReturnResult(sqlmock.NewResult(0, 1))
	expectGetBilling(mock, id, "100", "0", time.Now())

	billing, err := svc.MarkPaid(id)
	require.NoError(t, err)
	require.NotNil(t, billing.PaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaidRejectsAlreadyPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	svc := &BillingService{DB: db, Actes: NewActeService(db)}

	id := uuid.New()
	expectGetBilling(mock, id, "100", "100", time.Now())

	_, err = svc.MarkPaid(id)
	assert.Equal(t, ErrAlreadyPaid, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddPaymentLeavesPartialUnstamped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	svc := &BillingService{DB: db, Actes: NewActeService(db)}

	id := uuid.New()
	expectGetBilling(mock, id, "100", "0", nil)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO Billing_Payment`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM Billing_Payment`).
		WillReturnRows(sqlmock.NewRows([]string{"paid"}).AddRow("40"))
	mock.ExpectCommit()
	expectGetBilling(mock, id, "100", "40", nil)

	billing, err := svc.AddPayment(id, models.AddPaymentRequest{Amount: d("40")})
	require.NoError(t, err)
	assert.Nil(t, billing.PaidAt)
	assert.True(t, billing.RemainingDue.Equal(d("60")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
