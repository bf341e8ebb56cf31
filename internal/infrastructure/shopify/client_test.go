package shopify_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocksync-api/internal/infrastructure/shopify"
)

// ──────────────────────────────────────────────────────────────────────────────
// RetryAfterSeconds — fórmula de espera tras throttle
// ──────────────────────────────────────────────────────────────────────────────

func TestRetryAfterSeconds_Formula(t *testing.T) {
	cases := []struct {
		nombre                     string
		requested, available, rate float64
		esperado                   int
	}{
		{"caso tipico", 50, 10, 5, 8},
		{"redondeo hacia arriba", 10, 3, 2, 4},
		{"ya hay presupuesto", 10, 50, 5, 1},
		{"tasa cero no divide", 10, 0, 0, 10},
		{"tasa negativa no divide", 10, 0, -3, 10},
	}
	for _, c := range cases {
		t.Run(c.nombre, func(t *testing.T) {
			assert.Equal(t, c.esperado, shopify.RetryAfterSeconds(c.requested, c.available, c.rate))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Query — clasificación de fallas
// ──────────────────────────────────────────────────────────────────────────────

func TestQuery_DecodificaDataEnSalida(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-123", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "/admin/api/2024-10/graphql.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"shop":{"name":"Acme"}}}`))
	}))
	defer srv.Close()

	client := shopify.NewClient("2024-10", 0).WithBaseURL(srv.URL)
	var out struct {
		Shop struct {
			Name string `json:"name"`
		} `json:"shop"`
	}
	err := client.Query(context.Background(), "acme.myshopify.com", "tok-123", "{shop{name}}", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "Acme", out.Shop.Name)
}

func TestQuery_ThrottleConCostoCalculaEspera(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"errors":[{"message":"Throttled","extensions":{"code":"THROTTLED"}}],
			"extensions":{"cost":{
				"requestedQueryCost":50,
				"throttleStatus":{"maximumAvailable":1000,"currentlyAvailable":10,"restoreRate":5}
			}}
		}`))
	}))
	defer srv.Close()

	client := shopify.NewClient("", 0).WithBaseURL(srv.URL)
	err := client.Query(context.Background(), "acme.myshopify.com", "tok", "{}", nil, nil)

	var rle *shopify.RateLimitedError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, 8, rle.RetryAfterSeconds, "ceil((50-10)/5) = 8")
	assert.True(t, shopify.IsRetryable(err))
}

func TestQuery_429UsaHeaderRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := shopify.NewClient("", 0).WithBaseURL(srv.URL)
	err := client.Query(context.Background(), "acme.myshopify.com", "tok", "{}", nil, nil)

	var rle *shopify.RateLimitedError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, 7, rle.RetryAfterSeconds)
}

func TestQuery_ErrorSoftEsTerminal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors":[{"message":"Field 'nope' doesn't exist"}]}`))
	}))
	defer srv.Close()

	// maxRetries alto a propósito: los soft errors no deben reintentarse
	client := shopify.NewClient("", 5).WithBaseURL(srv.URL)
	err := client.QueryWithRetry(context.Background(), "acme.myshopify.com", "tok", "{nope}", nil, nil)

	var ge *shopify.GraphQLError
	require.ErrorAs(t, err, &ge)
	assert.False(t, shopify.IsRetryable(err))
	assert.Equal(t, int32(1), calls.Load(), "una sola llamada, sin reintentos")
}

func TestQuery_HTTP500EsTransporte(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := shopify.NewClient("", 0).WithBaseURL(srv.URL)
	err := client.Query(context.Background(), "acme.myshopify.com", "tok", "{}", nil, nil)

	var he *shopify.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.StatusCode)
	assert.True(t, shopify.IsRetryable(err))
}

func TestQueryWithRetry_RecuperaTrasTransporte(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"ok":true}}`))
	}))
	defer srv.Close()

	client := shopify.NewClient("", 2).WithBaseURL(srv.URL)
	var out struct {
		OK bool `json:"ok"`
	}
	err := client.QueryWithRetry(context.Background(), "acme.myshopify.com", "tok", "{}", nil, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, int32(2), calls.Load())
}
