package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "EUR,GBP", r.URL.Query().Get("symbols"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rates":{"EUR":0.92,"GBP":0.79}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.Rates(context.Background(), []string{"EUR", "GBP"})
	require.NoError(t, err)
	assert.True(t, got["EUR"].Equal(decimal.RequireFromString("0.92")))
	assert.True(t, got["GBP"].Equal(decimal.RequireFromString("0.79")))
}

func TestClientRatesMissingCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates":{"EUR":0.92}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Rates(context.Background(), []string{"EUR", "ILS"})
	assert.ErrorContains(t, err, "no rate for ILS")
}

func TestClientRatesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Rates(context.Background(), []string{"EUR"})
	assert.ErrorContains(t, err, "unexpected status")
}
