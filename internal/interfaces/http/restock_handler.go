package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocksync-api/internal/application/dto"
	"github.com/jhoicas/stocksync-api/internal/application/restock"
	"github.com/jhoicas/stocksync-api/internal/domain"
)

// RestockHandler maneja las solicitudes de reposición: endpoints protegidos
// del operador y endpoints públicos del magic link (sin sesión).
type RestockHandler struct {
	uc *restock.UseCase
}

// NewRestockHandler construye el handler.
func NewRestockHandler(uc *restock.UseCase) *RestockHandler {
	return &RestockHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud de reposición (draft)
// @Tags         restock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRestockRequest  true  "conexión, notas y líneas"
// @Success      201   {object}  dto.RestockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/restock-requests [post]
func (h *RestockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ConnectionID == "" || len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "connection_id y al menos una línea son requeridos"})
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.RequestedQuantity <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cada línea requiere product_id y cantidad positiva"})
		}
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		if err == domain.ErrConnectionNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "conexión no encontrada"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar solicitudes de una conexión
// @Tags         restock
// @Security     Bearer
// @Produce      json
// @Param        connection_id  query  string  true   "ID de la conexión"
// @Param        limit          query  int     false  "Límite"  default(20)
// @Param        offset         query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.RestockListResponse
// @Router       /api/restock-requests [get]
func (h *RestockHandler) List(c *fiber.Ctx) error {
	connectionID := c.Query("connection_id")
	if connectionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "connection_id es requerido"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.Context(), connectionID, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud por ID (vista del operador)
// @Tags         restock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RestockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/restock-requests/{id} [get]
func (h *RestockHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud no encontrada"})
	}
	return c.JSON(out)
}

// Send godoc
// @Summary      Enviar solicitud: acuña el magic link con vencimiento
// @Tags         restock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.SendRestockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/restock-requests/{id}/send [post]
func (h *RestockHandler) Send(c *fiber.Ctx) error {
	out, err := h.uc.Send(c.Context(), c.Params("id"))
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud no encontrada"})
		case domain.ErrConflict:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_SENT", Message: "la solicitud ya fue enviada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// OrderSheet godoc
// @Summary      Descargar hoja de pedido en PDF
// @Tags         restock
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/restock-requests/{id}/pdf [get]
func (h *RestockHandler) OrderSheet(c *fiber.Ctx) error {
	raw, err := h.uc.OrderSheet(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="orden-reposicion.pdf"`)
	return c.Send(raw)
}

// PublicView godoc
// @Summary      Vista pública de la solicitud vía magic link
// @Tags         restock-public
// @Produce      json
// @Param        token  path  string  true  "magic token"
// @Success      200  {object}  dto.RestockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      410  {object}  dto.ErrorResponse
// @Router       /restock/{token} [get]
func (h *RestockHandler) PublicView(c *fiber.Ctx) error {
	out, err := h.uc.GetByToken(c.Context(), c.Params("token"))
	if err != nil {
		return restockTokenError(c, err)
	}
	return c.JSON(out)
}

// PublicProcess godoc
// @Summary      Aprobar o rechazar la solicitud vía magic link
// @Tags         restock-public
// @Accept       json
// @Produce      json
// @Param        token  path  string  true  "magic token"
// @Param        body   body  dto.ProcessRestockRequest  true  "action: approve|reject"
// @Success      200  {object}  dto.RestockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      410  {object}  dto.ErrorResponse
// @Router       /restock/{token} [post]
func (h *RestockHandler) PublicProcess(c *fiber.Ctx) error {
	var in dto.ProcessRestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Action != "approve" && in.Action != "reject" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "action debe ser approve o reject"})
	}
	out, err := h.uc.Process(c.Context(), c.Params("token"), in)
	if err != nil {
		return restockTokenError(c, err)
	}
	return c.JSON(out)
}

func restockTokenError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "enlace desconocido"})
	case domain.ErrTokenExpired:
		return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{Code: "EXPIRED", Message: "el enlace de aprobación expiró"})
	case domain.ErrAlreadyProcessed:
		return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{Code: "PROCESSED", Message: "la solicitud ya fue procesada"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
