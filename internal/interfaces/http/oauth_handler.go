package http

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/stocksync-api/internal/application/dto"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
	"github.com/jhoicas/stocksync-api/internal/infrastructure/shopify"
	"github.com/jhoicas/stocksync-api/pkg/config"
	"github.com/jhoicas/stocksync-api/pkg/logger"
)

// OAuthHandler conduce el handshake de instalación: redirección a la tienda
// y callback con verificación de HMAC y state CSRF de un solo uso.
type OAuthHandler struct {
	oauth       *shopify.OAuthService
	states      *shopify.StateStore
	connections repository.ConnectionRepository
	cfg         config.ShopifyConfig
	publicBase  string
	log         *logger.Logger
}

// NewOAuthHandler construye el handler.
func NewOAuthHandler(
	oauth *shopify.OAuthService,
	states *shopify.StateStore,
	connections repository.ConnectionRepository,
	cfg config.ShopifyConfig,
	publicBase string,
	log *logger.Logger,
) *OAuthHandler {
	return &OAuthHandler{
		oauth:       oauth,
		states:      states,
		connections: connections,
		cfg:         cfg,
		publicBase:  publicBase,
		log:         log,
	}
}

// Install godoc
// @Summary      Iniciar instalación OAuth
// @Tags         oauth
// @Param        shop  query  string  true  "dominio ej. acme.myshopify.com"
// @Success      302   "redirección a la pantalla de autorización"
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /oauth/install [get]
func (h *OAuthHandler) Install(c *fiber.Ctx) error {
	shop := strings.ToLower(c.Query("shop"))
	if !shopify.ValidShopDomain(shop) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_SHOP", Message: "dominio de tienda inválido"})
	}
	state, err := h.states.Issue(shop)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	redirectURI := h.publicBase + "/oauth/callback"
	return c.Redirect(h.oauth.AuthorizeURL(shop, h.cfg.APIKey, h.cfg.Scopes, redirectURI, state), fiber.StatusFound)
}

// Callback godoc
// @Summary      Callback OAuth: verifica HMAC y state, intercambia el code
// @Tags         oauth
// @Param        shop   query  string  true  "dominio de la tienda"
// @Param        code   query  string  true  "código de autorización"
// @Param        state  query  string  true  "state emitido en install"
// @Param        hmac   query  string  true  "firma del query"
// @Success      200   {object}  dto.ConnectionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /oauth/callback [get]
func (h *OAuthHandler) Callback(c *fiber.Ctx) error {
	q := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		q.Add(string(k), string(v))
	})

	if !shopify.VerifyCallbackHMAC(q, h.cfg.APISecret) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_HMAC", Message: "firma del callback inválida"})
	}
	shop := strings.ToLower(q.Get("shop"))
	if !shopify.ValidShopDomain(shop) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_SHOP", Message: "dominio de tienda inválido"})
	}
	issuedShop, ok := h.states.Consume(q.Get("state"))
	if !ok || issuedShop != shop {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "state desconocido, vencido o de otra tienda"})
	}

	token, err := h.oauth.ExchangeCode(c.Context(), shop, h.cfg.APIKey, h.cfg.APISecret, q.Get("code"))
	if err != nil {
		h.log.Error().Err(err).Str("shop", shop).Msg("intercambio de code fallido")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: "no se pudo completar el intercambio de token"})
	}

	now := time.Now()
	conn, err := h.connections.GetByDomain(c.Context(), shop)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if conn == nil {
		// instalación nueva: el sync queda bloqueado hasta aprobar proveedores
		conn = &entity.Connection{
			ID:          uuid.New().String(),
			ShopDomain:  shop,
			Platform:    entity.PlatformShopify,
			AccessToken: token,
			Active:      true,
			VendorMode:  entity.VendorModeAll,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := h.connections.Create(c.Context(), conn); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	} else {
		// reinstalación: credencial nueva, la decisión de proveedores se conserva
		conn.AccessToken = token
		conn.Active = true
		conn.UpdatedAt = now
		if err := h.connections.Update(c.Context(), conn); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}

	h.log.Info().Str("shop", shop).Str("connection", conn.ID).Msg("tienda conectada")
	return c.JSON(fiber.Map{
		"connection_id":  conn.ID,
		"shop_domain":    conn.ShopDomain,
		"setup_complete": conn.SetupComplete,
		"message":        fmt.Sprintf("tienda %s conectada", shop),
	})
}
