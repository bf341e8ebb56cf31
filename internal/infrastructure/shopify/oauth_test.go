package shopify_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocksync-api/internal/infrastructure/shopify"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// firmarCallback calcula el HMAC hex como lo haría la plataforma.
func firmarCallback(t *testing.T, q url.Values, secret string) string {
	t.Helper()
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		parts = append(parts, k+"="+q.Get(k))
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(parts, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidShopDomain
// ──────────────────────────────────────────────────────────────────────────────

func TestValidShopDomain(t *testing.T) {
	assert.True(t, shopify.ValidShopDomain("acme.myshopify.com"))
	assert.True(t, shopify.ValidShopDomain("ACME-2.myshopify.com"))
	assert.False(t, shopify.ValidShopDomain("acme.example.com"))
	assert.False(t, shopify.ValidShopDomain("evil.com/?x=.myshopify.com"))
	assert.False(t, shopify.ValidShopDomain(""))
}

// ──────────────────────────────────────────────────────────────────────────────
// Firmas HMAC
// ──────────────────────────────────────────────────────────────────────────────

func TestVerifyCallbackHMAC_FirmaValida(t *testing.T) {
	const secret = "shpss_secret"
	q := url.Values{}
	q.Set("shop", "acme.myshopify.com")
	q.Set("code", "abc123")
	q.Set("state", "xyz")
	q.Set("timestamp", "1700000000")
	q.Set("hmac", firmarCallback(t, q, secret))

	assert.True(t, shopify.VerifyCallbackHMAC(q, secret))
}

func TestVerifyCallbackHMAC_RechazaFirmaAjena(t *testing.T) {
	q := url.Values{}
	q.Set("shop", "acme.myshopify.com")
	q.Set("code", "abc123")
	q.Set("hmac", firmarCallback(t, q, "otro-secreto"))

	assert.False(t, shopify.VerifyCallbackHMAC(q, "shpss_secret"))
}

func TestVerifyCallbackHMAC_RechazaParametroAlterado(t *testing.T) {
	const secret = "shpss_secret"
	q := url.Values{}
	q.Set("shop", "acme.myshopify.com")
	q.Set("code", "abc123")
	q.Set("hmac", firmarCallback(t, q, secret))

	// un MITM cambia la tienda después de firmar
	q.Set("shop", "evil.myshopify.com")
	assert.False(t, shopify.VerifyCallbackHMAC(q, secret))
}

func TestVerifyCallbackHMAC_HexInvalido(t *testing.T) {
	q := url.Values{}
	q.Set("shop", "acme.myshopify.com")
	q.Set("hmac", "no-es-hex")
	assert.False(t, shopify.VerifyCallbackHMAC(q, "secret"))
}

func TestVerifyWebhookHMAC(t *testing.T) {
	const secret = "whsec"
	body := []byte(`{"id":123,"topic":"products/update"}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	header := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.True(t, shopify.VerifyWebhookHMAC(body, secret, header))
	assert.False(t, shopify.VerifyWebhookHMAC(body, "otro", header))
	assert.False(t, shopify.VerifyWebhookHMAC([]byte(`{"id":999}`), secret, header))
	assert.False(t, shopify.VerifyWebhookHMAC(body, secret, "@@no-base64@@"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Handshake OAuth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthorizeURL_IncluyeParametros(t *testing.T) {
	svc := shopify.NewOAuthService()
	raw := svc.AuthorizeURL("acme.myshopify.com", "client-id", "read_products", "https://app.test/oauth/callback", "state-1")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "acme.myshopify.com", u.Host)
	assert.Equal(t, "/admin/oauth/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "read_products", q.Get("scope"))
	assert.Equal(t, "https://app.test/oauth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "state-1", q.Get("state"))
}

func TestExchangeCode_DevuelveToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/oauth/access_token", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"shpat_abc","scope":"read_products"}`))
	}))
	defer srv.Close()

	svc := shopify.NewOAuthService().WithBaseURL(srv.URL)
	tok, err := svc.ExchangeCode(context.Background(), "acme.myshopify.com", "id", "secret", "code-1")
	require.NoError(t, err)
	assert.Equal(t, "shpat_abc", tok)
}

func TestExchangeCode_FallaSinToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"scope":"read_products"}`))
	}))
	defer srv.Close()

	svc := shopify.NewOAuthService().WithBaseURL(srv.URL)
	_, err := svc.ExchangeCode(context.Background(), "acme.myshopify.com", "id", "secret", "code-1")
	assert.Error(t, err)
}

func TestExchangeCode_PropagaErrorHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc := shopify.NewOAuthService().WithBaseURL(srv.URL)
	_, err := svc.ExchangeCode(context.Background(), "acme.myshopify.com", "id", "secret", "bad-code")

	var he *shopify.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.StatusCode)
}
