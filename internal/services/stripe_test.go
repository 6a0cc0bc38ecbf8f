package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStripe(t *testing.T, handler http.HandlerFunc) *StripeClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewStripeClient("sk_test_123")
	c.BaseURL = srv.URL
	return c
}

func TestStripeCreateCheckoutSession(t *testing.T) {
	c := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "5500", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "usd", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "Fine: 3 strikes reached", r.PostForm.Get("line_items[0][price_data][product_data][name]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.stripe.com/pay/cs_test_1"}`))
	})

	session, err := c.CreateCheckoutSession(context.Background(), 5500, "usd", "Fine: 3 strikes reached", "https://app/success", "https://app/cancel")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_1", session.URL)
}

func TestStripeCreatePayout(t *testing.T) {
	c := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payouts", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "12000", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"po_1","amount":12000,"currency":"usd","status":"pending"}`))
	})

	payout, err := c.CreatePayout(context.Background(), 12000, "usd", "Royalty payout")
	require.NoError(t, err)
	assert.Equal(t, "po_1", payout.ID)
	assert.Equal(t, int64(12000), payout.Amount)
}

func TestStripeGetBalance(t *testing.T) {
	c := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/balance", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"available":[{"amount":99000,"currency":"usd"}],"pending":[]}`))
	})

	balance, err := c.GetBalance(context.Background())
	require.NoError(t, err)
	require.Len(t, balance.Available, 1)
	assert.Equal(t, int64(99000), balance.Available[0].Amount)
}

func TestStripeErrorMessageSurfaced(t *testing.T) {
	c := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Insufficient funds"}}`))
	})

	_, err := c.CreatePayout(context.Background(), 100, "usd", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient funds")
}

func TestStripeRequiresAPIKey(t *testing.T) {
	c := NewStripeClient("")
	_, err := c.GetBalance(context.Background())
	require.Error(t, err)
}
