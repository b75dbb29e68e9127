package hmsclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL), srv
}

func TestLoginEstablishesSession(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/login/", r.URL.Path)
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "marie", payload["username"])

		json.NewEncoder(w).Encode(TokenPair{
			Access:  "access-token",
			Refresh: "refresh-token",
			Profile: &Profile{Username: "marie", Role: "billing", TenantSlug: "hgr-kindu"},
		})
	})

	session, err := client.Login(context.Background(), "marie", "secret")
	require.NoError(t, err)
	assert.Equal(t, "access-token", session.AccessToken)
	assert.Equal(t, "hgr-kindu", session.TenantSlug)
	assert.Equal(t, "billing", session.Profile.Role)

	client.Logout()
	assert.Nil(t, client.Session)
}

func TestRequestsCarrySessionHeaders(t *testing.T) {
	var gotAuth, gotTenant string
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTenant = r.Header.Get("X-Tenant-Slug")
		json.NewEncoder(w).Encode([]Acte{})
	})
	client.Session = &Session{AccessToken: "tok", TenantSlug: "hgr-kindu"}

	_, err := client.ListActes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "hgr-kindu", gotTenant)
}

func TestValidationErrorIsTyped(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Amount must be > 0",
			"data":    nil,
		})
	})

	_, err := client.AddPayment(context.Background(), uuid.New(), AddPaymentRequest{})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsValidation())
	assert.Equal(t, "Amount must be > 0", apiErr.Message)
}

func TestFailedPaymentPreservesFormForRetry(t *testing.T) {
	attempts := 0
	billingID := uuid.New()
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]interface{}{"message": "temporary failure"})
			return
		}
		var req AddPaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		due := decimal.Zero
		json.NewEncoder(w).Encode(Billing{
			ID:           billingID,
			Amount:       req.Amount,
			PaidTotal:    req.Amount,
			RemainingDue: &due,
			Currency:     req.Currency,
		})
	})

	view := LedgerView{
		Amount:       decimal.RequireFromString("60"),
		RemainingDue: decimal.RequireFromString("60"),
		Currency:     CurrencyCDF,
	}
	form := NewPaymentForm(view)

	_, err := client.AddPayment(context.Background(), billingID, form.Request())
	require.Error(t, err)

	// the form is untouched by the failure; resubmit as-is
	assert.True(t, form.Amount.Equal(decimal.RequireFromString("60")))
	billing, err := client.AddPayment(context.Background(), billingID, form.Request())
	require.NoError(t, err)
	assert.True(t, PaymentView(billing).Settled())
}

func TestFetchTotalsStoresSnapshot(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/billing/totals/", r.URL.Path)
		json.NewEncoder(w).Encode([]TotalsRow{
			totalsRow(CurrencyCDF, "1000", "400", "600"),
			totalsRow(CurrencyUSD, "200", "50", "150"),
		})
	})

	cache := NewTotalsCache(nil)
	rows, err := client.FetchTotals(context.Background(), cache)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	cached, err := cache.Row(CurrencyCDF)
	require.NoError(t, err)
	assert.True(t, cached.Unpaid.Equal(decimal.RequireFromString("600")))
}

func TestFetchOverviewAllOrNothing(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/patients/":
			json.NewEncoder(w).Encode([]Patient{{ID: uuid.New(), FirstName: "Amina", LastName: "Kasongo"}})
		case "/api/appointments/":
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]interface{}{"message": "boom"})
		}
	})

	_, err := client.FetchOverview(context.Background())
	require.Error(t, err)
}

func TestFetchOverviewJoinsBothLists(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/patients/":
			json.NewEncoder(w).Encode([]Patient{{ID: uuid.New()}, {ID: uuid.New()}})
		case "/api/appointments/":
			json.NewEncoder(w).Encode([]Appointment{{ID: uuid.New(), Status: "scheduled"}})
		}
	})

	overview, err := client.FetchOverview(context.Background())
	require.NoError(t, err)
	assert.Len(t, overview.Patients, 2)
	assert.Len(t, overview.Appointments, 1)
}
