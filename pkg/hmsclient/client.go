// Package hmsclient is the Go client for the hospital management backend.
// It owns the invoice composer, the act catalog grouping, the payment ledger
// view and the totals snapshot cache; all derived billing figures come from
// the backend, never recomputed locally.
package hmsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Session is the authenticated state. Set by Login, cleared by Logout.
type Session struct {
	AccessToken  string
	RefreshToken string
	TenantSlug   string
	Profile      *Profile
}

// APIError is a backend rejection: the server answered, with a non-2xx
// status. Transport failures surface as ordinary errors instead.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// IsValidation reports whether the error is a 4xx rejection, as opposed to a
// server-side failure.
func (e *APIError) IsValidation() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Client talks to the backend API. Safe for concurrent reads once the
// session is established.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Session    *Session
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Session != nil {
		if c.Session.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.Session.AccessToken)
		}
		if c.Session.TenantSlug != "" {
			req.Header.Set("X-Tenant-Slug", c.Session.TenantSlug)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeAPIError extracts the backend message from the error envelope. Both
// the envelope's "message" and a bare "detail" field are understood.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var envelope struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		if envelope.Message != "" {
			apiErr.Message = envelope.Message
		} else {
			apiErr.Message = envelope.Detail
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// Login authenticates and establishes the session. The tenant slug comes
// from the returned profile.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var pair TokenPair
	payload := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login/", payload, &pair); err != nil {
		return nil, err
	}
	session := &Session{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		Profile:      pair.Profile,
	}
	if pair.Profile != nil {
		session.TenantSlug = pair.Profile.TenantSlug
	}
	c.Session = session
	return session, nil
}

// Logout clears the session. Purely local; tokens expire server-side.
func (c *Client) Logout() {
	c.Session = nil
}

// Refresh exchanges the session's refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context) error {
	if c.Session == nil || c.Session.RefreshToken == "" {
		return &APIError{StatusCode: http.StatusUnauthorized, Message: "no session to refresh"}
	}
	var pair TokenPair
	payload := map[string]string{"refresh": c.Session.RefreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/token/refresh/", payload, &pair); err != nil {
		return err
	}
	c.Session.AccessToken = pair.Access
	c.Session.RefreshToken = pair.Refresh
	if pair.Profile != nil {
		c.Session.Profile = pair.Profile
		c.Session.TenantSlug = pair.Profile.TenantSlug
	}
	return nil
}

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/api/me/", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) ListActes(ctx context.Context) ([]Acte, error) {
	var actes []Acte
	if err := c.do(ctx, http.MethodGet, "/api/actes/", nil, &actes); err != nil {
		return nil, err
	}
	return actes, nil
}

func (c *Client) CreateActe(ctx context.Context, req CreateActeRequest) (*Acte, error) {
	var acte Acte
	if err := c.do(ctx, http.MethodPost, "/api/actes/", req, &acte); err != nil {
		return nil, err
	}
	return &acte, nil
}

func (c *Client) ListBilling(ctx context.Context) ([]Billing, error) {
	var billings []Billing
	if err := c.do(ctx, http.MethodGet, "/api/billing/", nil, &billings); err != nil {
		return nil, err
	}
	return billings, nil
}

func (c *Client) GetBilling(ctx context.Context, id uuid.UUID) (*Billing, error) {
	var billing Billing
	if err := c.do(ctx, http.MethodGet, "/api/billing/"+id.String()+"/", nil, &billing); err != nil {
		return nil, err
	}
	return &billing, nil
}

// CreateBilling submits a composed draft as-is.
func (c *Client) CreateBilling(ctx context.Context, draft InvoiceDraft) (*Billing, error) {
	var billing Billing
	if err := c.do(ctx, http.MethodPost, "/api/billing/", draft, &billing); err != nil {
		return nil, err
	}
	return &billing, nil
}

func (c *Client) DeleteBilling(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/billing/"+id.String()+"/", nil, nil)
}

// AddPayment records a payment and returns the invoice with its refreshed
// ledger fields.
func (c *Client) AddPayment(ctx context.Context, id uuid.UUID, req AddPaymentRequest) (*Billing, error) {
	var billing Billing
	if err := c.do(ctx, http.MethodPost, "/api/billing/"+id.String()+"/add_payment/", req, &billing); err != nil {
		return nil, err
	}
	return &billing, nil
}

// FetchTotals retrieves the per-currency aggregates and stores the snapshot
// in the cache when one is attached.
func (c *Client) FetchTotals(ctx context.Context, cache *TotalsCache) ([]TotalsRow, error) {
	var rows []TotalsRow
	if err := c.do(ctx, http.MethodGet, "/api/billing/totals/", nil, &rows); err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.Put(rows); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (c *Client) ListPatients(ctx context.Context) ([]Patient, error) {
	var patients []Patient
	if err := c.do(ctx, http.MethodGet, "/api/patients/", nil, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func (c *Client) ListAppointments(ctx context.Context) ([]Appointment, error) {
	var appointments []Appointment
	if err := c.do(ctx, http.MethodGet, "/api/appointments/", nil, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// Overview is the combined patients + appointments load used by list
// screens that render both side by side.
type Overview struct {
	Patients     []Patient
	Appointments []Appointment
}

// FetchOverview loads patients and appointments concurrently. All or
// nothing: any failure discards both results.
func (c *Client) FetchOverview(ctx context.Context) (*Overview, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var overview Overview
	errCh := make(chan error, 2)

	go func() {
		patients, err := c.ListPatients(ctx)
		if err == nil {
			overview.Patients = patients
		}
		errCh <- err
	}()
	go func() {
		appointments, err := c.ListAppointments(ctx)
		if err == nil {
			overview.Appointments = appointments
		}
		errCh <- err
	}()

	var firstErr error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return &overview, nil
}
