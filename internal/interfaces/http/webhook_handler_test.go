package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
	httpiface "github.com/jhoicas/stocksync-api/internal/interfaces/http"
	"github.com/jhoicas/stocksync-api/pkg/logger"
)

const webhookSecret = "whsec-test"

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeConnections struct {
	repository.ConnectionRepository
	conn        *entity.Connection
	deactivated []string
	staled      []string
}

func (f *fakeConnections) Deactivate(_ context.Context, shopDomain string) error {
	f.deactivated = append(f.deactivated, shopDomain)
	return nil
}

func (f *fakeConnections) MarkStale(_ context.Context, shopDomain string, _ time.Time) error {
	f.staled = append(f.staled, shopDomain)
	return nil
}

func (f *fakeConnections) GetByDomain(_ context.Context, shopDomain string) (*entity.Connection, error) {
	if f.conn != nil && f.conn.ShopDomain == shopDomain {
		return f.conn, nil
	}
	return nil, nil
}

type fakePurge struct {
	purged []string
}

func (f *fakePurge) PurgeConnection(_ context.Context, connectionID string) error {
	f.purged = append(f.purged, connectionID)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Arnés
// ──────────────────────────────────────────────────────────────────────────────

func setupWebhookApp(t *testing.T) (*fiber.App, *fakeConnections, *fakePurge) {
	t.Helper()
	conns := &fakeConnections{conn: &entity.Connection{ID: "conn-1", ShopDomain: "acme.myshopify.com"}}
	purge := &fakePurge{}
	handler := httpiface.NewWebhookHandler(conns, purge, webhookSecret, logger.Nop())

	app := fiber.New()
	app.Post("/webhooks/shopify", handler.VerifyHMAC(), handler.Receive)
	return app, conns, purge
}

func firmarWebhook(t *testing.T, body []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, app *fiber.App, topic, shop string, body []byte, hmacHeader string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/webhooks/shopify", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Topic", topic)
	req.Header.Set("X-Shopify-Shop-Domain", shop)
	req.Header.Set("X-Shopify-Hmac-Sha256", hmacHeader)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Verificación de firma
// ──────────────────────────────────────────────────────────────────────────────

func TestWebhook_FirmaInvalidaDevuelve401(t *testing.T) {
	app, conns, _ := setupWebhookApp(t)
	body := []byte(`{"id":1}`)

	resp := postWebhook(t, app, "app/uninstalled", "acme.myshopify.com", body, "ZmlybWEtZmFsc2E=")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, conns.deactivated, "una firma inválida no produce efectos")
}

func TestWebhook_CuerpoAlteradoDevuelve401(t *testing.T) {
	app, _, _ := setupWebhookApp(t)
	firma := firmarWebhook(t, []byte(`{"id":1}`))

	resp := postWebhook(t, app, "products/update", "acme.myshopify.com", []byte(`{"id":2}`), firma)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Topics
// ──────────────────────────────────────────────────────────────────────────────

func TestWebhook_AppUninstalledDesactiva(t *testing.T) {
	app, conns, _ := setupWebhookApp(t)
	body := []byte(`{}`)

	resp := postWebhook(t, app, "app/uninstalled", "acme.myshopify.com", body, firmarWebhook(t, body))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"acme.myshopify.com"}, conns.deactivated)
}

func TestWebhook_CambiosDeCatalogoMarcanStale(t *testing.T) {
	app, conns, _ := setupWebhookApp(t)
	body := []byte(`{"id":42}`)
	firma := firmarWebhook(t, body)

	for _, topic := range []string{
		"products/create", "products/update", "products/delete",
		"inventory_levels/update", "inventory_levels/connect",
	} {
		resp := postWebhook(t, app, topic, "acme.myshopify.com", body, firma)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, topic)
	}
	assert.Len(t, conns.staled, 5)
}

func TestWebhook_GDPRDeClientesEsNoOp(t *testing.T) {
	app, conns, purge := setupWebhookApp(t)
	body := []byte(`{"shop_domain":"acme.myshopify.com"}`)
	firma := firmarWebhook(t, body)

	for _, topic := range []string{"customers/data_request", "customers/redact"} {
		resp := postWebhook(t, app, topic, "acme.myshopify.com", body, firma)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, topic)
	}
	assert.Empty(t, conns.deactivated)
	assert.Empty(t, purge.purged)
}

func TestWebhook_ShopRedactPurgaLaConexion(t *testing.T) {
	app, _, purge := setupWebhookApp(t)
	body := []byte(`{"shop_domain":"acme.myshopify.com"}`)

	resp := postWebhook(t, app, "shop/redact", "acme.myshopify.com", body, firmarWebhook(t, body))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"conn-1"}, purge.purged)
}

func TestWebhook_ShopRedactSinConexionEs200(t *testing.T) {
	app, _, purge := setupWebhookApp(t)
	body := []byte(`{}`)

	resp := postWebhook(t, app, "shop/redact", "desconocida.myshopify.com", body, firmarWebhook(t, body))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, purge.purged)
}

func TestWebhook_TopicDesconocidoEs200(t *testing.T) {
	app, conns, purge := setupWebhookApp(t)
	body := []byte(`{}`)

	resp := postWebhook(t, app, "orders/create", "acme.myshopify.com", body, firmarWebhook(t, body))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, conns.deactivated)
	assert.Empty(t, conns.staled)
	assert.Empty(t, purge.purged)
}
