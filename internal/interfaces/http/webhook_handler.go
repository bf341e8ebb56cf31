package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocksync-api/internal/application/dto"
	"github.com/jhoicas/stocksync-api/internal/application/usecase"
	"github.com/jhoicas/stocksync-api/internal/domain/repository"
	"github.com/jhoicas/stocksync-api/internal/infrastructure/shopify"
	"github.com/jhoicas/stocksync-api/pkg/logger"
)

// Headers estándar de webhooks de la plataforma.
const (
	headerWebhookHMAC  = "X-Shopify-Hmac-Sha256"
	headerWebhookTopic = "X-Shopify-Topic"
	headerWebhookShop  = "X-Shopify-Shop-Domain"
)

// WebhookHandler recibe webhooks de la plataforma. La firma se verifica antes
// de mirar el payload; un topic desconocido responde 200 para que la
// plataforma no reintente.
type WebhookHandler struct {
	connections repository.ConnectionRepository
	purge       usecase.PurgeRunner
	secret      string
	log         *logger.Logger
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(connections repository.ConnectionRepository, purge usecase.PurgeRunner, secret string, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{connections: connections, purge: purge, secret: secret, log: log}
}

// VerifyHMAC middleware: rechaza cuerpos sin firma válida.
func (h *WebhookHandler) VerifyHMAC() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !shopify.VerifyWebhookHMAC(c.Body(), h.secret, c.Get(headerWebhookHMAC)) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_HMAC", Message: "firma del webhook inválida"})
		}
		return c.Next()
	}
}

// Receive godoc
// @Summary      Recibir webhook de la plataforma
// @Description  Topics manejados: app/uninstalled, products/*, inventory_levels/*,
// @Description  customers/data_request, customers/redact, shop/redact.
// @Tags         webhooks
// @Accept       json
// @Success      200  "recibido"
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /webhooks/shopify [post]
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	topic := c.Get(headerWebhookTopic)
	shop := c.Get(headerWebhookShop)
	log := h.log.With().Str("topic", topic).Str("shop", shop).Logger()

	switch topic {
	case "app/uninstalled":
		// la credencial muere ya; los datos esperan a shop/redact
		if err := h.connections.Deactivate(c.Context(), shop); err != nil {
			log.Error().Err(err).Msg("desactivación fallida")
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		log.Info().Msg("tienda desinstalada, conexión desactivada")

	case "products/create", "products/update", "products/delete", "inventory_levels/update", "inventory_levels/connect":
		// señal de frescura: la próxima corrida reconcilia, no se parchea aquí
		if err := h.connections.MarkStale(c.Context(), shop, time.Now()); err != nil {
			log.Error().Err(err).Msg("marca de stale fallida")
			return c.SendStatus(fiber.StatusInternalServerError)
		}

	case "customers/data_request", "customers/redact":
		// no se almacenan datos de clientes finales: recibido y nada que hacer
		log.Info().Msg("webhook GDPR de clientes recibido, sin datos que reportar")

	case "shop/redact":
		conn, err := h.connections.GetByDomain(c.Context(), shop)
		if err != nil {
			log.Error().Err(err).Msg("búsqueda de conexión fallida")
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		if conn != nil {
			if err := h.purge.PurgeConnection(c.Context(), conn.ID); err != nil {
				log.Error().Err(err).Msg("purga de datos fallida")
				return c.SendStatus(fiber.StatusInternalServerError)
			}
			log.Info().Str("connection", conn.ID).Msg("datos de la tienda eliminados")
		}

	default:
		log.Warn().Msg("topic de webhook no manejado")
	}
	return c.SendStatus(fiber.StatusOK)
}
