package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocksync-api/internal/application/dto"
	"github.com/jhoicas/stocksync-api/internal/application/usecase"
	"github.com/jhoicas/stocksync-api/internal/domain"
)

// ConnectionHandler maneja las conexiones de tienda (protegido).
type ConnectionHandler struct {
	uc *usecase.ConnectionUseCase
}

// NewConnectionHandler construye el handler.
func NewConnectionHandler(uc *usecase.ConnectionUseCase) *ConnectionHandler {
	return &ConnectionHandler{uc: uc}
}

// List godoc
// @Summary      Listar conexiones
// @Tags         connections
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ConnectionResponse
// @Router       /api/connections [get]
func (h *ConnectionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener conexión por ID
// @Tags         connections
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la conexión"
// @Success      200  {object}  dto.ConnectionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/connections/{id} [get]
func (h *ConnectionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "conexión no encontrada"})
	}
	return c.JSON(out)
}

// Vendors godoc
// @Summary      Listar proveedores de la tienda
// @Tags         connections
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la conexión"
// @Success      200  {object}  dto.VendorListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/connections/{id}/vendors [get]
func (h *ConnectionHandler) Vendors(c *fiber.Ctx) error {
	out, err := h.uc.Vendors(c.Context(), c.Params("id"))
	if err != nil {
		switch err {
		case domain.ErrConnectionNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "conexión no encontrada"})
		case domain.ErrConnectionInactive:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INACTIVE", Message: "la conexión está inactiva"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: err.Error()})
	}
	return c.JSON(out)
}

// ApproveVendors godoc
// @Summary      Registrar decisión de proveedores (completa el setup)
// @Tags         connections
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la conexión"
// @Param        body  body  dto.VendorApprovalRequest  true  "mode: all|none|selected"
// @Success      200   {object}  dto.ConnectionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/connections/{id}/vendors [put]
func (h *ConnectionHandler) ApproveVendors(c *fiber.Ctx) error {
	var in dto.VendorApprovalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ApproveVendors(c.Context(), c.Params("id"), in)
	if err != nil {
		switch err {
		case domain.ErrConnectionNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "conexión no encontrada"})
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "mode inválido o lista de proveedores vacía"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Disconnect godoc
// @Summary      Desconectar tienda (borra todos los datos derivados)
// @Tags         connections
// @Security     Bearer
// @Param        id   path  string  true  "ID de la conexión"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/connections/{id} [delete]
func (h *ConnectionHandler) Disconnect(c *fiber.Ctx) error {
	if err := h.uc.Disconnect(c.Context(), c.Params("id")); err != nil {
		if err == domain.ErrConnectionNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "conexión no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
