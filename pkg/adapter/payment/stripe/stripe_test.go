package stripe_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/futuremech/fmweb/pkg/adapter/payment/stripe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockAPI(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/payment_intents", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "2550", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "order", r.PostForm.Get("metadata[type]"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_1","object":"payment_intent",
"amount":2550,"client_secret":"pi_1_secret","status":"requires_payment_method",
"metadata":{"type":"order","id":"9","user_id":"3"}}`))
	})
	mux.HandleFunc("/v1/payment_intents/pi_1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_1","object":"payment_intent",
"amount":2550,"status":"succeeded","metadata":{"type":"order","id":"9","user_id":"3"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestPaymentIntents(t *testing.T) {
	srv := mockAPI(t)
	p, err := stripe.New(stripe.Options{SecretKey: "sk_test_x", URL: srv.URL})
	require.NoError(t, err)
	ctx := context.Background()

	pi, err := p.CreateIntent(ctx, 2550, map[string]string{
		"type": "order", "id": "9", "user_id": "3",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", pi.ClientSecret)
	assert.False(t, pi.Succeeded)

	pi, err = p.Intent(ctx, "pi_1")
	require.NoError(t, err)
	assert.True(t, pi.Succeeded)
	assert.Equal(t, int64(2550), pi.Amount)
	assert.Equal(t, "9", pi.Metadata["id"])
}

func TestNewRequiresKey(t *testing.T) {
	_, err := stripe.New(stripe.Options{})
	assert.Error(t, err)
}
